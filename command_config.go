// Subcommand (`readqual config`) that prints the effective run configuration

package main

import (
	"github.com/spf13/cobra"
)

// ConfigCommand creates the `config` subcommand. Its output can be edited
// and passed back to `readqual report --config`.
func ConfigCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the run configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := DefaultConfig()
			if configFile != "" {
				var err error
				if cfg, err = LoadConfig(configFile); err != nil {
					return err
				}
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML run configuration to validate and print (default: built-in)")

	return cmd
}
