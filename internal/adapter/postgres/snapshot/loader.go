// Package snapshot reads the live entity state in the same shape that
// domain.Replay reconstructs from the audit log, so the two can be diffed.
package snapshot

import (
	"context"
	"fmt"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

type userRow struct {
	ID     int64  `db:"id"`
	Role   string `db:"role"`
	Rating int    `db:"rating"`
}

type participationRow struct {
	UserID int64  `db:"user_id"`
	ItemID int64  `db:"item_id"`
	State  string `db:"state"`
}

// Load reads every user, item, comment, forum post and participation through q.
// Call it inside a repeatable read transaction to get a consistent view.
func Load(ctx context.Context, q postgres.Querier) (domain.Snapshot, error) {
	s := domain.NewSnapshot()

	var users []userRow
	if err := postgres.Select(ctx, q, &users, postgres.Builder().
		Select("u.id", "COALESCE(ra.role, '') AS role", "u.rating").
		From("users u").
		LeftJoin("role_assignments ra ON ra.user_id = u.id"),
	); err != nil {
		return domain.Snapshot{}, postgres.MapError(err, "snapshot", "users")
	}
	for _, u := range users {
		s.Users[u.ID] = domain.UserSnapshot{Role: domain.Role(u.Role), Rating: u.Rating}
	}

	for table, set := range map[string]map[int64]bool{
		"items":       s.Items,
		"comments":    s.Comments,
		"forum_posts": s.Posts,
	} {
		var ids []int64
		if err := postgres.Select(ctx, q, &ids, postgres.Builder().Select("id").From(table)); err != nil {
			return domain.Snapshot{}, postgres.MapError(err, "snapshot", table)
		}
		for _, id := range ids {
			set[id] = true
		}
	}

	var parts []participationRow
	if err := postgres.Select(ctx, q, &parts, postgres.Builder().
		Select("user_id", "item_id", "state").
		From("participations"),
	); err != nil {
		return domain.Snapshot{}, postgres.MapError(err, "snapshot", "participations")
	}
	for _, p := range parts {
		state := domain.ParticipationState(p.State)
		if !state.IsStored() {
			return domain.Snapshot{}, fmt.Errorf("participation %d/%d in state %q: %w",
				p.UserID, p.ItemID, p.State, domain.ErrInvariantViolation)
		}
		s.Participations[domain.ParticipationKey{UserID: p.UserID, ItemID: p.ItemID}] = state
	}

	return s, nil
}
