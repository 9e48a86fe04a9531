package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/skypop/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the search path and defaults are applied,
as YAML. Redirect it to a file to start a custom configuration:

  skypop config > ~/.skypop/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, "# built-in defaults")
		} else {
			fmt.Fprintf(out, "# loaded from %s\n", path)
		}
		_, err = out.Write(data)
		return err
	},
}
