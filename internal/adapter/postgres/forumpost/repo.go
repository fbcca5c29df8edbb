// Package forumpost implements the ForumPost repository using PostgreSQL.
package forumpost

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "forum_posts"

var columns = []string{"id", "author_id", "title", "body", "created_at"}

// Repo provides forum post persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new forum post repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type postRow struct {
	ID        int64     `db:"id"`
	AuthorID  int64     `db:"author_id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (r postRow) toDomain() domain.ForumPost {
	return domain.ForumPost(r)
}

func toDomainPosts(rows []postRow) []domain.ForumPost {
	return lo.Map(rows, func(row postRow, _ int) domain.ForumPost { return row.toDomain() })
}

// GetByID returns a forum post by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.ForumPost, error) {
	query := postgres.Builder().Select(columns...).From(table).Where(sq.Eq{"id": id})

	var row postRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "forum_post", id)
	}
	p := row.toDomain()
	return &p, nil
}

// ExistsTitle reports whether authorID already has a post with this title.
func (r *Repo) ExistsTitle(ctx context.Context, authorID int64, title string) (bool, error) {
	ok, err := postgres.Exists(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Select("1").From(table).Where(sq.Eq{"author_id": authorID, "title": title}))
	if err != nil {
		return false, postgres.MapError(err, "forum_post", title)
	}
	return ok, nil
}

// ListByAuthor returns all posts by authorID in posting order.
func (r *Repo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.ForumPost, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"author_id": authorID}).
		OrderBy("created_at", "id")

	var rows []postRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "forum_posts of user", authorID)
	}
	return toDomainPosts(rows), nil
}

// CountByAuthor returns the number of posts by authorID.
func (r *Repo) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	n, err := postgres.Count(ctx, postgres.QuerierFromCtx(ctx, r.db), table, sq.Eq{"author_id": authorID})
	if err != nil {
		return 0, postgres.MapError(err, "forum_posts of user", authorID)
	}
	return n, nil
}

// List returns posts, newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.ForumPost, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []postRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "forum_posts", "list")
	}
	return toDomainPosts(rows), nil
}

// Create inserts a new post and returns it with the store-assigned id.
func (r *Repo) Create(ctx context.Context, p *domain.ForumPost) (*domain.ForumPost, error) {
	query := postgres.Builder().
		Insert(table).
		Columns("author_id", "title", "body").
		Values(p.AuthorID, p.Title, p.Body).
		Suffix("RETURNING id, author_id, title, body, created_at")

	var row postRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "forum_post", p.Title)
	}
	created := row.toDomain()
	return &created, nil
}

// Delete removes a forum post.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, "forum_post", id)
	}
	if n == 0 {
		return fmt.Errorf("forum_post %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
