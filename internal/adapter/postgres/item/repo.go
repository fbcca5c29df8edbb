// Package item implements the Item repository using PostgreSQL.
package item

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "items"

var columns = []string{"id", "owner_id", "title", "fingerprint", "description", "created_at"}

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type itemRow struct {
	ID          int64     `db:"id"`
	OwnerID     int64     `db:"owner_id"`
	Title       string    `db:"title"`
	Fingerprint string    `db:"fingerprint"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item(r)
}

func (r *Repo) getOne(ctx context.Context, pred sq.Eq, key any) (*domain.Item, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(pred)

	var row itemRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "item", key)
	}
	it := row.toDomain()
	return &it, nil
}

// GetByID returns an item by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	return r.getOne(ctx, sq.Eq{"id": id}, id)
}

// GetByTitle returns an item by its unique title.
func (r *Repo) GetByTitle(ctx context.Context, title string) (*domain.Item, error) {
	return r.getOne(ctx, sq.Eq{"title": title}, title)
}

// ExistsTitle reports whether an item with this title exists.
func (r *Repo) ExistsTitle(ctx context.Context, title string) (bool, error) {
	return r.exists(ctx, sq.Eq{"title": title}, title)
}

// ExistsFingerprint reports whether an item with this fingerprint exists.
func (r *Repo) ExistsFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	return r.exists(ctx, sq.Eq{"fingerprint": fingerprint}, fingerprint)
}

func (r *Repo) exists(ctx context.Context, pred sq.Eq, key any) (bool, error) {
	ok, err := postgres.Exists(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Select("1").From(table).Where(pred))
	if err != nil {
		return false, postgres.MapError(err, "item", key)
	}
	return ok, nil
}

// List returns items, newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Item, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []itemRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "items", "list")
	}
	return lo.Map(rows, func(row itemRow, _ int) domain.Item { return row.toDomain() }), nil
}

// Create inserts a new item and returns it with the store-assigned id.
func (r *Repo) Create(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	query := postgres.Builder().
		Insert(table).
		Columns("owner_id", "title", "fingerprint", "description").
		Values(it.OwnerID, it.Title, it.Fingerprint, it.Description).
		Suffix("RETURNING id, owner_id, title, fingerprint, description, created_at")

	var row itemRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "item", it.Title)
	}
	created := row.toDomain()
	return &created, nil
}

// Delete removes the item row. Comments and participations must already be gone.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, "item", id)
	}
	if n == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
