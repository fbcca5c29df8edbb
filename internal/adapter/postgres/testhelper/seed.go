package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user holding role. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := UniqueSuffix()
	user := domain.User{
		Username:     "user-" + suffix,
		Email:        "user-" + suffix + "@example.com",
		PasswordHash: "hash-" + suffix,
		Role:         role,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO role_assignments (user_id, role) VALUES ($1, $2)`,
		user.ID, role.String(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert role_assignment: %v", err)
	}

	return user
}

// SeedItem creates an item owned by ownerID.
func SeedItem(t *testing.T, pool *pgxpool.Pool, ownerID int64) domain.Item {
	t.Helper()

	suffix := UniqueSuffix()
	item := domain.Item{
		OwnerID:     ownerID,
		Title:       "item-" + suffix,
		Fingerprint: "fp-" + suffix,
		Description: "description " + suffix,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO items (owner_id, title, fingerprint, description) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		item.OwnerID, item.Title, item.Fingerprint, item.Description,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedItem: %v", err)
	}

	return item
}

// SeedComment creates a comment by authorID on itemID.
func SeedComment(t *testing.T, pool *pgxpool.Pool, itemID, authorID int64) domain.Comment {
	t.Helper()

	c := domain.Comment{ItemID: itemID, AuthorID: authorID, Body: "comment " + UniqueSuffix()}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO comments (item_id, author_id, body) VALUES ($1, $2, $3) RETURNING id, created_at`,
		c.ItemID, c.AuthorID, c.Body,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedComment: %v", err)
	}

	return c
}

// SeedPost creates a forum post by authorID.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID int64) domain.ForumPost {
	t.Helper()

	suffix := UniqueSuffix()
	p := domain.ForumPost{AuthorID: authorID, Title: "post-" + suffix, Body: "body " + suffix}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO forum_posts (author_id, title, body) VALUES ($1, $2, $3) RETURNING id, created_at`,
		p.AuthorID, p.Title, p.Body,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedPost: %v", err)
	}

	return p
}

// SeedParticipation creates a participation of userID in itemID.
func SeedParticipation(t *testing.T, pool *pgxpool.Pool, userID, itemID int64, state domain.ParticipationState) domain.Participation {
	t.Helper()

	p := domain.Participation{UserID: userID, ItemID: itemID, State: state}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO participations (user_id, item_id, state) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.UserID, p.ItemID, state.String(),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedParticipation: %v", err)
	}

	return p
}
