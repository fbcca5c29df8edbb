package app

import (
	"io/fs"
	"os"

	"github.com/heartmarshall/sharetracker-backend/internal/config"
)

// migrationsFS returns the configured migrations directory, or nil for the
// migrations embedded in the binary.
func migrationsFS(cfg config.DatabaseConfig) fs.FS {
	if cfg.MigrationsDir == "" {
		return nil
	}
	return os.DirFS(cfg.MigrationsDir)
}
