// Package comment implements the Comment repository using PostgreSQL.
package comment

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "comments"

var columns = []string{"id", "item_id", "author_id", "body", "created_at"}

// Repo provides comment persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new comment repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type commentRow struct {
	ID        int64     `db:"id"`
	ItemID    int64     `db:"item_id"`
	AuthorID  int64     `db:"author_id"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (r commentRow) toDomain() domain.Comment {
	return domain.Comment(r)
}

// GetByID returns a comment by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(sq.Eq{"id": id})

	var row commentRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}
	c := row.toDomain()
	return &c, nil
}

// ListByItem returns the comments of an item in posting order.
func (r *Repo) ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"item_id": itemID}).
		OrderBy("created_at", "id")

	var rows []commentRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "comments of item", itemID)
	}
	return lo.Map(rows, func(row commentRow, _ int) domain.Comment { return row.toDomain() }), nil
}

// CountByItem returns the number of comments on an item.
func (r *Repo) CountByItem(ctx context.Context, itemID int64) (int, error) {
	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.db), table, sq.Eq{"item_id": itemID})
	if err != nil {
		return 0, postgres.MapError(err, "comments of item", itemID)
	}
	return n, nil
}

// Create inserts a new comment and returns it with the store-assigned id.
// A missing item surfaces as domain.ErrNotFound.
func (r *Repo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	query := postgres.Builder().
		Insert(table).
		Columns("item_id", "author_id", "body").
		Values(c.ItemID, c.AuthorID, c.Body).
		Suffix("RETURNING id, item_id, author_id, body, created_at")

	var row commentRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "comment on item", c.ItemID)
	}
	created := row.toDomain()
	return &created, nil
}

// Delete removes a comment.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, "comment", id)
	}
	if n == 0 {
		return fmt.Errorf("comment %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
