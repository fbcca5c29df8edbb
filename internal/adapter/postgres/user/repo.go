// Package user implements the User repository using PostgreSQL.
// A user's role lives in role_assignments and is joined in on reads.
package user

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "users"

var selectColumns = []string{
	"u.id", "u.username", "u.email", "u.password_hash", "u.rating", "u.created_at",
	"COALESCE(ra.role, '') AS role",
}

const returningColumns = "RETURNING id, username, email, password_hash, rating, created_at"

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type userRow struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Rating       int       `db:"rating"`
	CreatedAt    time.Time `db:"created_at"`
	Role         string    `db:"role"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *Repo) selectUsers() sq.SelectBuilder {
	return postgres.Builder().
		Select(selectColumns...).
		From(table + " u").
		LeftJoin("role_assignments ra ON ra.user_id = u.id")
}

func (r *Repo) getOne(ctx context.Context, pred sq.Eq, key any) (*domain.User, error) {
	var row userRow
	err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, r.selectUsers().Where(pred))
	if err != nil {
		return nil, postgres.MapError(err, "user", key)
	}
	u := row.toDomain()
	return &u, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"u.id": id}, id)
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"u.email": email}, email)
}

// GetByUsername returns a user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"u.username": username}, username)
}

// ExistsUsername reports whether the username is taken.
func (r *Repo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	ok, err := postgres.Exists(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Select("1").From(table).Where(sq.Eq{"username": username}))
	if err != nil {
		return false, postgres.MapError(err, "user", username)
	}
	return ok, nil
}

// ExistsEmail reports whether the email is taken.
func (r *Repo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	ok, err := postgres.Exists(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Select("1").From(table).Where(sq.Eq{"email": email}))
	if err != nil {
		return false, postgres.MapError(err, "user", email)
	}
	return ok, nil
}

// List returns users ordered by id.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := r.selectUsers().
		OrderBy("u.id").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []userRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "users", "list")
	}
	return lo.Map(rows, func(row userRow, _ int) domain.User { return row.toDomain() }), nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new user and returns it with the store-assigned id.
// The returned user has no role; roles are assigned separately.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := postgres.Builder().
		Insert(table).
		Columns("username", "email", "password_hash").
		Values(u.Username, u.Email, u.PasswordHash).
		Suffix(returningColumns)

	var row userRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return nil, postgres.MapError(err, "user", u.Username)
	}
	created := row.toDomain()
	return &created, nil
}

// AddRating adds delta to the user's rating and returns the new value.
func (r *Repo) AddRating(ctx context.Context, id int64, delta int) (int, error) {
	query := postgres.Builder().
		Update(table).
		Set("rating", sq.Expr("rating + ?", delta)).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING rating")

	var rating int
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &rating, query); err != nil {
		return 0, postgres.MapError(err, "user", id)
	}
	return rating, nil
}

// Delete removes the user row. Dependents must already be gone.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db),
		postgres.Builder().Delete(table).Where(sq.Eq{"id": id}))
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
