package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DumpYAML renders cfg as a YAML document, used by `restructure config
// show` to print the effective configuration regardless of which file
// format it was loaded from.
func DumpYAML(cfg *Config) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

// CLIFlags carries the subset of restructure's CLI flags that can
// override a loaded Config, alongside a FlagTracker recording which of
// them the user actually passed (as opposed to cobra's zero-value
// defaults).
type CLIFlags struct {
	LogLevel     string
	OutputFormat string
	BatchWorkers int
	Progress     bool
}

// ApplyFlagOverrides merges flags into cfg, but only for fields the
// tracker marks as explicitly set, so an unset --log-level flag never
// clobbers a value the user already put in restructure.toml.
func ApplyFlagOverrides(cfg *Config, flags CLIFlags, tracker *FlagTracker) {
	cfg.Logging.Level = tracker.MergeString(cfg.Logging.Level, flags.LogLevel, "log-level")
	cfg.Output.Format = tracker.MergeString(cfg.Output.Format, flags.OutputFormat, "output-format")
	cfg.Batch.Workers = tracker.MergeInt(cfg.Batch.Workers, flags.BatchWorkers, "batch-workers")
	cfg.Batch.Progress = tracker.MergeBool(cfg.Batch.Progress, flags.Progress, "progress")
}
