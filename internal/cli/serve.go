package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/internal/server"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxBody   int64
		noCache   bool
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Long: `Serve renders tag clouds over HTTP.

POST text to /render and receive the image. Query parameters such as
width, height, max_words and palette override the configured defaults;
the format comes from ?format= or the Accept header.`,
		Example: `  tagcloud serve
  tagcloud serve --addr 127.0.0.1:9000
  curl --data-binary @speech.txt 'localhost:8080/render?format=svg' > cloud.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := server.Config{
				Addr:         c.settings.Server.Addr,
				MaxBodyBytes: c.settings.Server.MaxBodyBytes,
				Defaults:     pipeline.FromSettings(c.settings),
				Logger:       logger,
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("max-body") {
				cfg.MaxBodyBytes = maxBody
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			cfg.Runner = runner

			if !noHistory {
				if store := c.openHistory(); store != nil {
					defer store.Close()
					cfg.History = store
				}
			}

			srv := server.New(cfg)
			printSuccess("Listening on %s", StyleHighlight.Render(srv.Addr()))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "address to listen on")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "largest accepted request body in bytes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record renders")
	return cmd
}
