package confkit

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce applies a .env file to the process environment exactly once.
// ENV_FILE names an explicit file; otherwise the search walks up from this
// source file to the module root. Existing variables win unless
// DOTENV_OVERLOAD=1, and NO_DOTENV=1 disables the whole mechanism.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	apply := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		apply = godotenv.Overload
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = apply(envFile)
		return
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		_ = apply(".env")
		return
	}
	dir := filepath.Dir(file)
	for i := 0; i < 8; i++ {
		_ = apply(filepath.Join(dir, ".env"))
		if fileExists(filepath.Join(dir, "go.mod")) || fileExists(filepath.Join(dir, ".git")) {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
