// Command promote makes an existing user the site owner by email address.
// It is used to bootstrap the first owner and is recorded in the audit log
// as a system action.
//
// Usage:
//
//	promote --email=user@example.com
//
// Configuration is read like the engine's (SHARETRACKER_CONFIG, DATABASE_DSN and
// the other DATABASE_* variables).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/sharetracker-backend/internal/app"
	"github.com/heartmarshall/sharetracker-backend/internal/config"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/lifecycle"
	"github.com/heartmarshall/sharetracker-backend/pkg/ctxutil"
)

func main() {
	email := flag.String("email", "", "email of user to promote to owner")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: promote --email=user@example.com")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = ctxutil.EnsureRequestID(ctx)

	engine, err := app.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Error("start engine", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer engine.Close()

	res, err := engine.Lifecycle.BootstrapOwner(ctx, lifecycle.BootstrapOwnerInput{Email: *email})
	if err != nil {
		if domain.ReasonOf(err) == domain.ReasonNotFound {
			fmt.Printf("No user found with email %q.\n", *email)
		} else {
			logger.Error("promote failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	fmt.Printf("User %d promoted from %s to %s.\n", res.UserID, res.From, res.To)
}
