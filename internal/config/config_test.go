package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Output.Format = "xml"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Batch.Workers = -1
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Sanity.MaxCloneFactor = 0
	require.Error(t, cfg.Validate())
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestSaveAndLoadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restructure.yaml")

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Batch.Workers = 4
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", loaded.Logging.Level)
	require.Equal(t, 4, loaded.Batch.Workers)
}

func TestTomlConfigLoaderFindsUpward(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	toml := "[batch]\nworkers = 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restructure.toml"), []byte(toml), 0o644))

	cfg, found, err := NewTomlConfigLoader().LoadConfig(nested)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 7, cfg.Batch.Workers)
}

func TestTomlConfigLoaderNotFound(t *testing.T) {
	dir := t.TempDir()
	cfg, found, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)
	require.False(t, found)
	require.Equal(t, DefaultConfig().Batch.Workers, cfg.Batch.Workers)
}

func TestApplyFlagOverridesOnlyAppliesExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	tracker := NewFlagTracker()
	tracker.Set("output-format")

	ApplyFlagOverrides(cfg, CLIFlags{
		LogLevel:     "debug",
		OutputFormat: "json",
	}, tracker)

	require.Equal(t, "json", cfg.Output.Format, "output-format was marked explicitly set")
	require.Equal(t, DefaultLogLevel, cfg.Logging.Level, "log-level was never marked set, so it must stay at default")
}

func TestGenerateAndLoadDefaultConfigTOML(t *testing.T) {
	rendered, err := GenerateDefaultConfigTOML()
	require.NoError(t, err)
	require.Contains(t, rendered, "workers")

	cfg, err := LoadDefaultConfigFromTOML()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig().Logging.Level, cfg.Logging.Level)
}
