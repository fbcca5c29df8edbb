// Package participation implements the Participation repository using
// PostgreSQL. At most one row exists per (user_id, item_id); the unique key
// settles concurrent first inserts.
package participation

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "participations"

var columns = []string{"id", "user_id", "item_id", "state", "created_at", "updated_at"}

const returningColumns = "RETURNING id, user_id, item_id, state, created_at, updated_at"

// Repo provides participation persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new participation repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type participationRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ItemID    int64     `db:"item_id"`
	State     string    `db:"state"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r participationRow) toDomain() domain.Participation {
	return domain.Participation{
		ID:        r.ID,
		UserID:    r.UserID,
		ItemID:    r.ItemID,
		State:     domain.ParticipationState(r.State),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toDomainList(rows []participationRow) []domain.Participation {
	return lo.Map(rows, func(row participationRow, _ int) domain.Participation { return row.toDomain() })
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the participation for key without locking it.
func (r *Repo) Get(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error) {
	return r.get(ctx, key, false)
}

// GetForUpdate returns the participation for key and locks the row until the
// surrounding transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error) {
	return r.get(ctx, key, true)
}

func (r *Repo) get(ctx context.Context, key domain.ParticipationKey, lock bool) (*domain.Participation, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": key.UserID, "item_id": key.ItemID})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	var rows []participationRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "participation", key)
	}

	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("participation %v: %w", key, domain.ErrNotFound)
	case 1:
		p := rows[0].toDomain()
		if !p.State.IsStored() {
			return nil, fmt.Errorf("participation %d in state %q: %w", p.ID, p.State, domain.ErrInvariantViolation)
		}
		return &p, nil
	default:
		return nil, fmt.Errorf("participation %v: %d rows: %w", key, len(rows), domain.ErrInvariantViolation)
	}
}

// ListByItem returns all participations in an item.
func (r *Repo) ListByItem(ctx context.Context, itemID int64) ([]domain.Participation, error) {
	return r.list(ctx, sq.Eq{"item_id": itemID}, itemID)
}

// ListByUser returns all participations of a user.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]domain.Participation, error) {
	return r.list(ctx, sq.Eq{"user_id": userID}, userID)
}

func (r *Repo) list(ctx context.Context, pred sq.Eq, key any) ([]domain.Participation, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(pred).OrderBy("id")

	var rows []participationRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "participations", key)
	}
	return toDomainList(rows), nil
}

// CountByItem returns the number of participations in an item.
func (r *Repo) CountByItem(ctx context.Context, itemID int64) (int, error) {
	return r.count(ctx, sq.Eq{"item_id": itemID}, itemID)
}

// CountByUser returns the number of participations of a user.
func (r *Repo) CountByUser(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, sq.Eq{"user_id": userID}, userID)
}

func (r *Repo) count(ctx context.Context, pred sq.Eq, key any) (int, error) {
	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.db), table, pred)
	if err != nil {
		return 0, postgres.MapError(err, "participations", key)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts the participation for key. A concurrent insert for the same
// key fails with domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, key domain.ParticipationKey, state domain.ParticipationState) (*domain.Participation, error) {
	query := postgres.Builder().
		Insert(table).
		Columns("user_id", "item_id", "state").
		Values(key.UserID, key.ItemID, state.String()).
		Suffix(returningColumns)

	var row participationRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "participation", key)
	}
	p := row.toDomain()
	return &p, nil
}

// UpdateState sets the state of participation id.
func (r *Repo) UpdateState(ctx context.Context, id int64, state domain.ParticipationState) (*domain.Participation, error) {
	query := postgres.Builder().
		Update(table).
		Set("state", state.String()).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix(returningColumns)

	var row participationRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "participation", id)
	}
	p := row.toDomain()
	return &p, nil
}

// Delete removes participation id.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, "participation", id)
	}
	if n == 0 {
		return fmt.Errorf("participation %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
