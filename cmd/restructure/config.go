package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/internal/config"
)

// newConfigCmd wires `restructure config show`: print the effective
// configuration (defaults merged with any config file and CLI flag
// overrides) as YAML, regardless of which file format it was loaded
// from.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := config.DumpYAML(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
