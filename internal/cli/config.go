package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/emberview/internal/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand creates the "config init" subcommand, which writes the
// built-in defaults as a commented TOML file.
func (c *CLI) configInitCommand() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			if err := config.WriteFile(path, config.Default(), force); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			printNextStep("Render with it", appName+" render --config "+path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "file to write (default: $XDG_CONFIG_HOME/emberview/emberview.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configShowCommand creates the "config show" subcommand, which prints the
// effective configuration after files and environment are applied.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				printInfo("Loaded from %s", cfg.Source)
			} else {
				printInfo("No config file found, showing defaults")
			}
			printNewline()
			return config.Encode(stdout, cfg)
		},
	}
}
