package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeConfig(t, "DebugDir: /tmp/debug\nLogLevel: debug\nSnippetLimit: 100\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "/tmp/debug", cfg.DebugDir)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, 100, cfg.SnippetLimit)
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeConfig(t, "DebugDir: /tmp/debug\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, defaultLogLevel, cfg.LogLevel)
		require.Equal(t, defaultSnippetLimit, cfg.SnippetLimit)
	})

	t.Run("env overrides win", func(t *testing.T) {
		t.Setenv(envLogLevel, "error")
		t.Setenv(envSnippetLimit, "64")
		path := writeConfig(t, "LogLevel: debug\nSnippetLimit: 100\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, "error", cfg.LogLevel)
		require.Equal(t, 64, cfg.SnippetLimit)
	})

	t.Run("schema files resolve against the config dir", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "extract.yaml")
		require.NoError(t, os.WriteFile(path, []byte("SchemaFiles:\n  - schemas/trip.yaml\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, []string{filepath.Join(dir, "schemas", "trip.yaml")}, cfg.schemaFilePaths())
	})

	t.Run("bad log level rejected", func(t *testing.T) {
		path := writeConfig(t, "LogLevel: verbose\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("level normalized", func(t *testing.T) {
		cfg := &Config{LogLevel: " INFO "}
		require.NoError(t, cfg.Validate())
		require.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("zero snippet limit gets the default", func(t *testing.T) {
		cfg := &Config{LogLevel: "info"}
		require.NoError(t, cfg.Validate())
		require.Equal(t, defaultSnippetLimit, cfg.SnippetLimit)
	})
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{LogLevel: "info", SchemaFiles: []string{"a.yaml"}}
	clone := cfg.Clone()
	clone.SchemaFiles[0] = "b.yaml"
	require.Equal(t, "a.yaml", cfg.SchemaFiles[0])
}
