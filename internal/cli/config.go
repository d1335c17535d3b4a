package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	var (
		effective bool
		path      bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the configuration file",
		Long: `Print the default configuration as TOML.

Redirect the output to start a config file:

  gridboard config > ~/.config/gridboard/config.toml

With --effective the file selected by --config (or the default location)
is loaded, validated and printed with defaults filled in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path {
				p := c.configPath
				if p == "" {
					var err error
					if p, err = config.DefaultPath(); err != nil {
						return err
					}
				}
				printKeyValue("config", p)
				if _, err := os.Stat(p); os.IsNotExist(err) {
					printNewline()
					printNextStep("Create it", "gridboard config > "+p)
				}
				return nil
			}

			cfg := config.Default()
			if effective {
				var err error
				if cfg, err = c.loadConfig(); err != nil {
					return err
				}
			}
			return config.Write(stdout, cfg)
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, "print the loaded configuration instead of the defaults")
	cmd.Flags().BoolVar(&path, "path", false, "print the config file location")

	return cmd
}
