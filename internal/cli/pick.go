package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// pickCommand creates the pick command: count words, let the user exclude
// some interactively, then render the rest.
func (c *CLI) pickCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "pick <words-file>",
		Short: "Choose words to leave out, then render",
		Long: `Pick counts the words of a text file and opens an interactive list of
them. Toggle words with space and press enter to render the cloud without
the excluded words.`,
		Example: `  tagcloud pick speech.txt --stopwords
  tagcloud pick speech.txt -o speech.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.renderOptions(cmd, &flags, args[0])
			if err != nil {
				return err
			}
			opts.Logger = pipelineLogger(loggerFromContext(ctx))

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			stats, err := runner.Parse(ctx, opts)
			runner.Close()
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewWordPickerModel(stats), tea.WithAltScreen(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("word picker: %w", err)
			}
			m := final.(WordPickerModel)
			if !m.Confirmed {
				printInfo("Cancelled")
				return nil
			}

			opts.Stats = stats
			opts.Exclude = m.ExcludedWords()
			if n := len(opts.Exclude); n > 0 {
				printInfo("Excluding %d words", n)
			}
			return c.runRender(ctx, opts, &flags)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
