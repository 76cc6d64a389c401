package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/internal/config"
)

// newInitCmd wires `restructure init`: scaffold a restructure.toml a
// user can then edit, rendered from the same defaults DefaultConfig()
// uses.
func newInitCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default restructure.toml to edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			rendered, err := config.GenerateDefaultConfigTOML()
			if err != nil {
				return fmt.Errorf("render default config: %w", err)
			}
			if out == "-" {
				fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			}
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists", out)
			}
			return os.WriteFile(out, []byte(rendered), 0o644)
		},
	}
	cmd.Flags().StringVar(&out, "out", "restructure.toml", "Where to write the config file (- for stdout)")
	return cmd
}
