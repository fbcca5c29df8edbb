// Package role implements the role assignment repository using PostgreSQL.
package role

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "role_assignments"

// Repo provides role assignment persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new role repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type assignmentRow struct {
	UserID     int64     `db:"user_id"`
	Role       string    `db:"role"`
	AssignedAt time.Time `db:"assigned_at"`
}

// Get returns the role assignment of userID.
func (r *Repo) Get(ctx context.Context, userID int64) (*domain.RoleAssignment, error) {
	query := postgres.Builder().
		Select("user_id", "role", "assigned_at").
		From(table).
		Where(sq.Eq{"user_id": userID})

	var row assignmentRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "role_assignment", userID)
	}
	return &domain.RoleAssignment{
		UserID:     row.UserID,
		Role:       domain.Role(row.Role),
		AssignedAt: row.AssignedAt,
	}, nil
}

// GetRole returns the current role of userID.
func (r *Repo) GetRole(ctx context.Context, userID int64) (domain.Role, error) {
	a, err := r.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return a.Role, nil
}

// Assign sets the role of userID, replacing any previous assignment.
func (r *Repo) Assign(ctx context.Context, userID int64, role domain.Role) error {
	query := postgres.Builder().
		Insert(table).
		Columns("user_id", "role").
		Values(userID, role.String()).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, assigned_at = now()")

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), query); err != nil {
		return postgres.MapError(err, "role_assignment", userID)
	}
	return nil
}

// Revoke removes the role assignment of userID.
func (r *Repo) Revoke(ctx context.Context, userID int64) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"user_id": userID}))
	if err != nil {
		return postgres.MapError(err, "role_assignment", userID)
	}
	if n == 0 {
		return fmt.Errorf("role_assignment %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}
