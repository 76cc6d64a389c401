package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// restructureTomlConfig mirrors Config but with pointer fields so the
// loader can tell "absent from the file" apart from "explicitly zero
// value", the way the teacher's clone config distinguished an unset
// bool from a false one.
type restructureTomlConfig struct {
	Logging *struct {
		Level string `toml:"level"`
		JSON  *bool  `toml:"json"`
	} `toml:"logging"`
	Output *struct {
		Format string `toml:"format"`
		DotDir string `toml:"dot_dir"`
	} `toml:"output"`
	Batch *struct {
		Workers  *int  `toml:"workers"`
		Progress *bool `toml:"progress"`
	} `toml:"batch"`
	Sanity *struct {
		MaxCloneFactor int `toml:"max_clone_factor"`
		MinBound       int `toml:"min_bound"`
	} `toml:"sanity"`
}

// TomlConfigLoader loads restructure.toml by walking upward from a
// starting directory, ruff-style, stopping at the first file found or
// at the filesystem root.
type TomlConfigLoader struct{}

func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig searches startDir and its ancestors for restructure.toml,
// merging whatever it finds over DefaultConfig(). found is false (with
// cfg set to DefaultConfig()) if no file is found anywhere above
// startDir.
func (l *TomlConfigLoader) LoadConfig(startDir string) (cfg *Config, found bool, err error) {
	path, err := l.findUpward(startDir)
	if err != nil {
		return DefaultConfig(), false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	var parsed restructureTomlConfig
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, false, err
	}

	cfg = DefaultConfig()
	l.applyOverrides(cfg, &parsed)
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

func (l *TomlConfigLoader) findUpward(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "restructure.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func (l *TomlConfigLoader) applyOverrides(cfg *Config, parsed *restructureTomlConfig) {
	if parsed.Logging != nil {
		if parsed.Logging.Level != "" {
			cfg.Logging.Level = parsed.Logging.Level
		}
		if parsed.Logging.JSON != nil {
			cfg.Logging.JSON = *parsed.Logging.JSON
		}
	}
	if parsed.Output != nil {
		if parsed.Output.Format != "" {
			cfg.Output.Format = parsed.Output.Format
		}
		if parsed.Output.DotDir != "" {
			cfg.Output.DotDir = parsed.Output.DotDir
		}
	}
	if parsed.Batch != nil {
		if parsed.Batch.Workers != nil {
			cfg.Batch.Workers = *parsed.Batch.Workers
		}
		if parsed.Batch.Progress != nil {
			cfg.Batch.Progress = *parsed.Batch.Progress
		}
	}
	if parsed.Sanity != nil {
		if parsed.Sanity.MaxCloneFactor > 0 {
			cfg.Sanity.MaxCloneFactor = parsed.Sanity.MaxCloneFactor
		}
		if parsed.Sanity.MinBound > 0 {
			cfg.Sanity.MinBound = parsed.Sanity.MinBound
		}
	}
}
