package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/password"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/comment"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/forumpost"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/item"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/participation"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/role"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/snapshot"
	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/sharetracker-backend/internal/config"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/lifecycle"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// Engine is the wired lifecycle orchestrator together with the pool it owns.
type Engine struct {
	Lifecycle *lifecycle.Service

	pool *pgxpool.Pool
	tx   *postgres.TxManager
	log  *slog.Logger
}

// NewEngine connects to the database, applies migrations when configured,
// and wires repositories, the role registry and the password hasher into
// the lifecycle orchestrator.
func NewEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	logger.InfoContext(ctx, "starting engine",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database.DSN, migrationsFS(cfg.Database), logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	roleRepo := role.New(pool)
	tx := postgres.NewTxManager(pool)

	svc := lifecycle.NewService(
		logger,
		lifecycle.Repos{
			Users:          user.New(pool),
			Roles:          roleRepo,
			Items:          item.New(pool),
			Comments:       comment.New(pool),
			Posts:          forumpost.New(pool),
			Participations: participation.New(pool),
			Audit:          audit.New(pool),
		},
		permission.NewRegistry(roleRepo),
		tx,
		password.New(cfg.Auth.BcryptCost),
		cfg.Engine,
		cfg.Auth,
	)

	return &Engine{Lifecycle: svc, pool: pool, tx: tx, log: logger}, nil
}

// Close releases the connection pool.
func (e *Engine) Close() {
	e.pool.Close()
}

// VerifyAuditLog replays the full audit log and compares the result with the
// live tables. Both are read in one repeatable read snapshot. An empty result
// means the log fully explains the current state.
func (e *Engine) VerifyAuditLog(ctx context.Context) ([]string, error) {
	var (
		entries []domain.AuditEntry
		diffs   []string
	)
	err := e.tx.RunInSnapshot(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, e.pool)

		var err error
		entries, err = audit.New(q).ListAll(ctx)
		if err != nil {
			return fmt.Errorf("read audit log: %w", err)
		}

		replayed, err := domain.Replay(entries)
		if err != nil {
			return err
		}

		live, err := snapshot.Load(ctx, q)
		if err != nil {
			return fmt.Errorf("read live state: %w", err)
		}

		diffs = domain.Diff(replayed, live)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.InfoContext(ctx, "audit log verified",
		slog.Int("entries", len(entries)),
		slog.Int("differences", len(diffs)),
	)
	return diffs, nil
}
