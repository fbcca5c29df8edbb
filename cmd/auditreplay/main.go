// Command auditreplay rebuilds entity state from the audit log and compares
// it with the live tables. Every difference is printed on its own line.
//
// Exit codes: 0 = log and tables agree, 1 = error, 2 = differences found.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/sharetracker-backend/internal/app"
	"github.com/heartmarshall/sharetracker-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	engine, err := app.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Error("start engine", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer engine.Close()

	diffs, err := engine.VerifyAuditLog(ctx)
	if err != nil {
		logger.Error("audit replay failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, d := range diffs {
		fmt.Println(d)
	}
	if len(diffs) > 0 {
		os.Exit(2)
	}
}
