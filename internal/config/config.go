package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default values, mirrored by the embedded TOML template in
// default_config.toml.tmpl.
const (
	DefaultMaxCloneFactor  = 2
	DefaultMinSanityBound  = 16
	DefaultBatchWorkers    = 0 // 0 means GOMAXPROCS
	DefaultLogLevel        = "info"
	DefaultOutputFormat    = "text"
	DefaultDotIndentWidth  = 2
)

// Config is the pipeline's ambient configuration: it never changes the
// combing/collapse/build/beautify algorithms themselves (those are
// unconfigurable, spec §6), only how the surrounding CLI, service and
// batch layers log, format and bound their work.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
	Sanity  SanityConfig  `mapstructure:"sanity" yaml:"sanity"`
}

// LoggingConfig holds the logging settings a config file may carry.
// They are loaded, validated and printed by `restructure config show`;
// no logger in this module is set up from them.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`
	// JSON selects JSON-lines logging; nothing in this module reads it.
	JSON bool `mapstructure:"json" yaml:"json"`
}

// OutputConfig controls how a restructured tree or equivalence verdict
// is rendered.
type OutputConfig struct {
	// Format is one of: text, json, dot.
	Format string `mapstructure:"format" yaml:"format"`
	// DotDir, when non-empty, is the directory `restructure build` and
	// `restructure comb` write per-input debug .dot dumps into
	// (<name>.region.dot, plus <name>.ast.dot for build). `restructure
	// dot` always writes to stdout.
	DotDir string `mapstructure:"dot_dir" yaml:"dot_dir"`
}

// BatchConfig controls the outer parallel-execution layer over
// independent input files (spec §5); the core restructuring pipeline
// itself stays synchronous per file.
type BatchConfig struct {
	// Workers is the number of concurrent files processed at once. 0
	// means use GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// Progress enables the terminal progress bar during batch runs.
	Progress bool `mapstructure:"progress" yaml:"progress"`
}

// SanityConfig records the combing pass's non-termination guard
// (domain.ErrNonTerminatingInflation). Its defaults equal the constants
// region.Comb uses; Comb does not read this struct, so changing these
// values does not change the bound it applies.
type SanityConfig struct {
	// MaxCloneFactor expresses the bound as MaxCloneFactor*|V|^2 cloned
	// vertices, floored at MinBound.
	MaxCloneFactor int `mapstructure:"max_clone_factor" yaml:"max_clone_factor"`
	MinBound       int `mapstructure:"min_bound" yaml:"min_bound"`
}

// DefaultConfig returns the built-in configuration, matching the values
// rendered into the embedded default_config.toml.tmpl.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: DefaultLogLevel, JSON: false},
		Output:  OutputConfig{Format: DefaultOutputFormat, DotDir: ""},
		Batch:   BatchConfig{Workers: DefaultBatchWorkers, Progress: true},
		Sanity:  SanityConfig{MaxCloneFactor: DefaultMaxCloneFactor, MinBound: DefaultMinSanityBound},
	}
}

// LoadConfig loads configuration from configPath, or from a
// restructure.toml/.restructure.yaml discovered in the working
// directory or home directory, falling back to DefaultConfig when none
// is found.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		if wd, err := os.Getwd(); err == nil {
			if found, ok, err := NewTomlConfigLoader().LoadConfig(wd); err == nil && ok {
				return found, nil
			}
		}
		configPath = findDefaultConfig()
	}
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findDefaultConfig() string {
	candidates := []string{
		"restructure.toml",
		".restructure.toml",
		"restructure.yaml",
		".restructure.yaml",
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(home, candidate)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Validate rejects configuration values the rest of the codebase cannot
// handle.
func (c *Config) Validate() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true, "dot": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format %q, must be one of: text, json, dot", c.Output.Format)
	}

	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must be >= 0, got %d", c.Batch.Workers)
	}

	if c.Sanity.MaxCloneFactor < 1 {
		return fmt.Errorf("sanity.max_clone_factor must be >= 1, got %d", c.Sanity.MaxCloneFactor)
	}
	if c.Sanity.MinBound < 1 {
		return fmt.Errorf("sanity.min_bound must be >= 1, got %d", c.Sanity.MinBound)
	}

	return nil
}

// SaveConfig writes cfg to path as YAML.
func SaveConfig(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("logging", cfg.Logging)
	v.Set("output", cfg.Output)
	v.Set("batch", cfg.Batch)
	v.Set("sanity", cfg.Sanity)
	return v.WriteConfig()
}
