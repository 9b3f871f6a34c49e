package extract

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"reportcrew/pkg/confkit"
)

const (
	defaultLogLevel     = "info"
	defaultSnippetLimit = 240

	envDebugDir     = "EXTRACT_DEBUG_DIR"
	envLogLevel     = "EXTRACT_LOG_LEVEL"
	envSnippetLimit = "EXTRACT_SNIPPET_LIMIT"
)

// Config holds runtime settings for an Extractor.
type Config struct {
	// DebugDir is where the diagnostics sink persists failed-parse
	// artifacts. Empty disables the sink entirely.
	DebugDir string `json:",optional"`
	// LogLevel: debug | info | error | severe.
	LogLevel string `json:",default=info"`
	// SchemaFiles lists YAML schema definition files to load and register
	// when the extractor is constructed, resolved relative to the config
	// file that named them.
	SchemaFiles []string `json:",optional"`
	// SnippetLimit bounds the completion excerpt included in log lines.
	SnippetLimit int `json:",default=240"`

	baseDir string
}

// DefaultConfig returns a config with sane defaults and no diagnostics sink.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     defaultLogLevel,
		SnippetLimit: defaultSnippetLimit,
	}
}

// LoadConfig reads an extractor config file (yaml or json) with environment
// variable expansion, then applies EXTRACT_* overrides.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	cfg, err := confkit.LoadFile[Config](path, true)
	if err != nil {
		return nil, err
	}
	cfg.baseDir = confkit.BaseDir(path)
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(envDebugDir); v != "" {
		c.DebugDir = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envSnippetLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SnippetLimit = n
		}
	}
}

// Validate normalizes and checks the configuration.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch c.LogLevel {
	case "debug", "info", "error", "severe", "fatal":
	default:
		return fmt.Errorf("extract: unknown log level %q", c.LogLevel)
	}
	if c.SnippetLimit <= 0 {
		c.SnippetLimit = defaultSnippetLimit
	}
	return nil
}

// Clone returns a deep copy so a running extractor never shares mutable
// config with its caller.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.SchemaFiles = append([]string(nil), c.SchemaFiles...)
	return &clone
}

// schemaFilePaths resolves SchemaFiles against the config file's directory.
func (c *Config) schemaFilePaths() []string {
	paths := make([]string, 0, len(c.SchemaFiles))
	for _, f := range c.SchemaFiles {
		paths = append(paths, confkit.ResolvePath(c.baseDir, f))
	}
	return paths
}
