// Package cli implements the tagcloud command-line interface.
//
// # Commands
//
//   - render: count the words of a text file and draw them as a tag cloud
//   - stats: print the word statistics of a text file as a table
//   - pick: choose words to leave out interactively, then render
//   - serve: run the HTTP rendering service
//   - history: list recent renders
//   - cache: manage the artifact cache
//   - config: show the effective settings
//
// # Configuration
//
// Settings come from a TOML or YAML file (see package config); command-line
// flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so that progress can be reported from any
// stage.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/buildinfo"
	"github.com/matzehuels/tagcloud/pkg/cache"
	"github.com/matzehuels/tagcloud/pkg/config"
	"github.com/matzehuels/tagcloud/pkg/history"
	"github.com/matzehuels/tagcloud/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "tagcloud"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	settings   config.Settings
	// settingsFrom is the file the settings were read from, "" for defaults.
	settingsFrom string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tagcloud draws word frequency clouds",
		Long:         `Tagcloud counts the words of a text and lays them out as a tag cloud: the most frequent words are drawn largest, packed around the center of the canvas along a spiral.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadSettings() error {
	s, from, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.settings, c.settingsFrom = s, from
	if from != "" {
		c.Logger.Debug("loaded config", "path", from)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.ArtifactTTL = time.Duration(c.settings.Cache.TTLHours) * time.Hour
	return r, nil
}

// newCache picks the cache backend: none, Redis when a URL is configured,
// otherwise files under the cache directory.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cs := c.settings.Cache
	if noCache || !cs.Enabled {
		return cache.NewNullCache(), nil
	}
	if cs.RedisURL != "" {
		return cache.NewRedisCache(ctx, cs.RedisURL)
	}
	fc, err := c.fileCache()
	if err != nil {
		c.Logger.Warn("file cache unavailable", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// fileCache opens the file cache at the configured or default directory.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	dir, err := c.cachePath()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// cachePath returns the configured cache directory, or the XDG default.
func (c *CLI) cachePath() (string, error) {
	if dir := c.settings.Cache.Dir; dir != "" {
		return dir, nil
	}
	return cacheDir()
}

// openHistory opens the history store, or returns nil when history is
// disabled. Failures are logged and disable history for this run.
func (c *CLI) openHistory() *history.Store {
	if !c.settings.History.Enabled {
		return nil
	}
	store, err := history.Open(c.settings.History.Path)
	if err != nil {
		c.Logger.Warn("history unavailable", "error", err)
		return nil
	}
	return store
}

// record adds a finished run to the history, if enabled.
func (c *CLI) record(ctx context.Context, opts pipeline.Options, res *pipeline.Result, outputs []string) {
	store := c.openHistory()
	if store == nil {
		return
	}
	defer store.Close()
	_, err := store.Record(ctx, history.Entry{
		ID:        res.ID,
		Source:    opts.Source,
		Algorithm: opts.Algorithm,
		Width:     opts.Width,
		Height:    opts.Height,
		Words:     res.Stats.Words,
		Placed:    res.Stats.Placed,
		Dropped:   res.Stats.Dropped,
		Outputs:   strings.Join(outputs, ","),
		Duration:  res.Stats.ParseTime + res.Stats.RenderTime,
		CreatedAt: time.Now(),
	})
	if err != nil {
		c.Logger.Warn("record history", "error", err)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tagcloud/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
