package main

import (
	"github.com/spf13/cobra"

	"github.com/ryftlang/restructure/internal/config"
)

// loadConfig resolves the effective config for a subcommand: file/default
// config first, then any flags the user actually set on the command
// line, tracked the way the teacher's config_helper.go separates
// "explicitly set" from "left at its zero value" before merging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	tracker := config.NewFlagTracker()
	if cmd.Flags().Changed("format") {
		tracker.Set("output-format")
	}

	flags := config.CLIFlags{}
	if v, err := cmd.Flags().GetString("format"); err == nil {
		flags.OutputFormat = v
	}
	if v, err := cmd.Flags().GetString("dot-dir"); err == nil && v != "" {
		cfg.Output.DotDir = v
	}

	config.ApplyFlagOverrides(cfg, flags, tracker)
	return cfg, nil
}
