package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/underrout/callisto-release/internal/logfields"
)

// envFileNames are tried in order; variables already set in the process environment win.
var envFileNames = []string{".env", ".env.local"}

// LoadEnvFiles loads .env files from dir and the current directory. Missing files are ignored.
func LoadEnvFiles(dir string) []string {
	var loaded []string
	seen := map[string]bool{}
	for _, base := range []string{dir, "."} {
		for _, name := range envFileNames {
			path := filepath.Join(base, name)
			abs, err := filepath.Abs(path)
			if err != nil || seen[abs] {
				continue
			}
			seen[abs] = true
			if _, err := os.Stat(abs); err != nil {
				continue
			}
			if err := godotenv.Load(abs); err != nil {
				slog.Warn("Failed to load env file", logfields.Path(abs), logfields.Error(err))
				continue
			}
			slog.Debug("Loaded environment variables", logfields.Path(abs))
			loaded = append(loaded, abs)
		}
	}
	return loaded
}
