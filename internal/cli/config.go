package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/config"
	"github.com/matzehuels/tagcloud/pkg/errors"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

// configShowCommand prints the effective settings.
func (c *CLI) configShowCommand() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asYAML {
				return config.WriteYAML(cmd.OutOrStdout(), c.settings)
			}
			return config.WriteTOML(cmd.OutOrStdout(), c.settings)
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of TOML")
	return cmd
}

// configPathCommand prints where settings are read from.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show which configuration file is in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.settingsFrom == "" {
				printInfo("No configuration file found; using built-in defaults")
			} else {
				printKeyValue("Loaded", c.settingsFrom)
			}
			printNewline()
			printInfo("Search order:")
			for _, path := range config.SearchPaths() {
				printFile(path)
			}
			return nil
		},
	}
}

// configInitCommand writes the default settings to the user config
// directory.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(config.Dir(), "config.toml")
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeSaveFailed, err, "create %s", filepath.Dir(path))
			}

			f, err := os.Create(path)
			if err != nil {
				return errors.Wrap(errors.ErrCodeSaveFailed, err, "create %s", path)
			}
			defer f.Close()

			write := config.WriteTOML
			if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
				write = config.WriteYAML
			}
			if err := write(f, config.Default()); err != nil {
				return errors.Wrap(errors.ErrCodeSaveFailed, err, "write %s", path)
			}
			printSuccess("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
