// Command migrate applies pending database migrations.
//
// Without --dir the migrations embedded in the binary are used.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/app"
	"github.com/heartmarshall/sharetracker-backend/internal/config"
)

func main() {
	dir := flag.String("dir", "", "directory with goose migrations (default: embedded)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	path := *dir
	if path == "" {
		path = cfg.Database.MigrationsDir
	}

	var fsys fs.FS
	if path != "" {
		fsys = os.DirFS(path)
	}

	if err := postgres.Migrate(ctx, cfg.Database.DSN, fsys, logger); err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("migrations up to date")
}
