package lifecycle

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

// dependent is one record a cascade step removes, with the details written
// into its audit entry.
type dependent struct {
	id      int64
	details map[string]any
}

// cascadeStep removes one kind of dependent. After the step, remains must
// report zero or the cascade is aborted as an invariant violation.
type cascadeStep struct {
	kind    domain.TargetKind
	action  domain.AuditAction
	collect func(ctx context.Context, parentID int64) ([]dependent, error)
	remove  func(ctx context.Context, id int64) error
	remains func(ctx context.Context, parentID int64) (int, error)
}

// itemCascade lists what is removed before an item: its comments, then its
// participations.
func (s *Service) itemCascade() []cascadeStep {
	return []cascadeStep{
		{
			kind:   domain.TargetComment,
			action: domain.AuditActionDelete,
			collect: func(ctx context.Context, itemID int64) ([]dependent, error) {
				comments, err := s.comments.ListByItem(ctx, itemID)
				if err != nil {
					return nil, err
				}
				return lo.Map(comments, func(c domain.Comment, _ int) dependent {
					return dependent{id: c.ID, details: map[string]any{
						domain.DetailItemID:   c.ItemID,
						domain.DetailAuthorID: c.AuthorID,
					}}
				}), nil
			},
			remove:  s.comments.Delete,
			remains: s.comments.CountByItem,
		},
		{
			kind:   domain.TargetParticipation,
			action: domain.AuditActionDelete,
			collect: func(ctx context.Context, itemID int64) ([]dependent, error) {
				rows, err := s.participations.ListByItem(ctx, itemID)
				if err != nil {
					return nil, err
				}
				return lo.Map(rows, participationDependent), nil
			},
			remove:  s.participations.Delete,
			remains: s.participations.CountByItem,
		},
	}
}

// userCascade lists what is removed before a user: participations, forum
// posts and the role assignment. Items and comments stay with a dangling
// owner reference.
func (s *Service) userCascade() []cascadeStep {
	return []cascadeStep{
		{
			kind:   domain.TargetParticipation,
			action: domain.AuditActionDelete,
			collect: func(ctx context.Context, userID int64) ([]dependent, error) {
				rows, err := s.participations.ListByUser(ctx, userID)
				if err != nil {
					return nil, err
				}
				return lo.Map(rows, participationDependent), nil
			},
			remove:  s.participations.Delete,
			remains: s.participations.CountByUser,
		},
		{
			kind:   domain.TargetForumPost,
			action: domain.AuditActionDelete,
			collect: func(ctx context.Context, userID int64) ([]dependent, error) {
				posts, err := s.posts.ListByAuthor(ctx, userID)
				if err != nil {
					return nil, err
				}
				return lo.Map(posts, func(p domain.ForumPost, _ int) dependent {
					return dependent{id: p.ID, details: map[string]any{
						domain.DetailAuthorID: p.AuthorID,
						domain.DetailTitle:    p.Title,
					}}
				}), nil
			},
			remove:  s.posts.Delete,
			remains: s.posts.CountByAuthor,
		},
		{
			kind:   domain.TargetUser,
			action: domain.AuditActionRevokeRole,
			collect: func(ctx context.Context, userID int64) ([]dependent, error) {
				role, err := s.registry.RoleOf(ctx, userID)
				if err != nil {
					// No assignment left to revoke.
					if domain.KindOf(err) == domain.KindNotFound {
						return nil, nil
					}
					return nil, err
				}
				return []dependent{{id: userID, details: map[string]any{domain.DetailRole: role.String()}}}, nil
			},
			remove: s.roles.Revoke,
		},
	}
}

func participationDependent(p domain.Participation, _ int) dependent {
	return dependent{id: p.ID, details: map[string]any{
		domain.DetailUserID: p.UserID,
		domain.DetailItemID: p.ItemID,
		domain.DetailFrom:   p.State.String(),
		domain.DetailTo:     domain.ParticipationAbsent.String(),
	}}
}

// cascade runs steps in order against parentID inside the caller's
// transaction, writing one audit entry per removed dependent.
func (s *Service) cascade(ctx context.Context, actor domain.Actor, steps []cascadeStep, parentID int64) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry

	for _, step := range steps {
		deps, err := step.collect(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("cascade collect %s: %w", step.kind, err)
		}

		for _, d := range deps {
			if err := step.remove(ctx, d.id); err != nil {
				return nil, fmt.Errorf("cascade remove %s %d: %w", step.kind, d.id, err)
			}
			entry, err := s.record(ctx, actor, step.kind, d.id, step.action, d.details)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}

		if step.remains == nil {
			continue
		}
		left, err := step.remains(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("cascade verify %s: %w", step.kind, err)
		}
		if left > 0 {
			return nil, fmt.Errorf("cascade %s: %d dependents of %d left: %w",
				step.kind, left, parentID, domain.ErrInvariantViolation)
		}
	}

	return entries, nil
}
