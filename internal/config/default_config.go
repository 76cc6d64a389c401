package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// defaultConfigValues holds the values rendered into the embedded
// template, so the constants above stay the single source of truth for
// both DefaultConfig() and the generated TOML.
type defaultConfigValues struct {
	LogLevel        string
	OutputFormat    string
	BatchWorkers    int
	MaxCloneFactor  int
	MinSanityBound  int
}

func newDefaultConfigValues() defaultConfigValues {
	return defaultConfigValues{
		LogLevel:       DefaultLogLevel,
		OutputFormat:   DefaultOutputFormat,
		BatchWorkers:   DefaultBatchWorkers,
		MaxCloneFactor: DefaultMaxCloneFactor,
		MinSanityBound: DefaultMinSanityBound,
	}
}

// GenerateDefaultConfigTOML renders the embedded template with the
// package's default values and returns the resulting TOML document.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}
	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the rendered default template back
// into a *Config. `restructure init` does not call it; it writes the
// text from GenerateDefaultConfigTOML directly.
func LoadDefaultConfigFromTOML() (*Config, error) {
	rendered, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal([]byte(rendered), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default config TOML: %w", err)
	}
	return cfg, nil
}
