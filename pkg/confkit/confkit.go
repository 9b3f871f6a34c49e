// Package confkit carries the small config-loading conventions shared across
// the repo: YAML files through go-zero conf, paths resolved against the main
// config file, and one-shot dotenv bootstrap.
package confkit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeromicro/go-zero/core/conf"
)

// ResolvePath expands environment variables in file and, when it is
// relative, anchors it at base. Absolute paths pass through untouched.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the main config file. Relative paths
// inside the config resolve against this.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// LoadFile parses a config file into T. With useEnv set, ${VAR} references
// in the file expand from the environment.
func LoadFile[T any](path string, useEnv bool) (*T, error) {
	var cfg T
	var opts []conf.Option
	if useEnv {
		opts = append(opts, conf.UseEnv())
	}
	if err := conf.Load(path, &cfg, opts...); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}
