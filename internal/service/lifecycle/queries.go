package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// Read queries run outside a transaction and write no audit entries. They
// still require an authenticated actor.

// page applies the configured default and ceiling to a requested page size.
func (s *Service) page(in PageInput) (limit, offset int) {
	limit = in.Limit
	if limit == 0 {
		limit = s.cfg.ListLimit
	}
	if limit > s.cfg.MaxListLimit {
		limit = s.cfg.MaxListLimit
	}
	return limit, in.Offset
}

// ListUsers returns registered users without their password hashes.
func (s *Service) ListUsers(ctx context.Context, actor domain.Actor, input PageInput) ([]domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.actorRole(ctx, actor); err != nil {
		return nil, err
	}

	limit, offset := s.page(input)
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return lo.Map(users, func(u domain.User, _ int) domain.User {
		u.PasswordHash = ""
		return u
	}), nil
}

// ListItems returns published items, newest first.
func (s *Service) ListItems(ctx context.Context, actor domain.Actor, input PageInput) ([]domain.Item, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.actorRole(ctx, actor); err != nil {
		return nil, err
	}

	limit, offset := s.page(input)
	items, err := s.items.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetItem returns an item with its comments in posting order.
func (s *Service) GetItem(ctx context.Context, actor domain.Actor, itemID int64) (*domain.ItemDetails, error) {
	if _, err := s.actorRole(ctx, actor); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, notFound(fmt.Errorf("get item: %w", err), "item")
	}

	comments, err := s.comments.ListByItem(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return &domain.ItemDetails{Item: *item, Comments: comments}, nil
}

// ListPosts returns forum posts, newest first.
func (s *Service) ListPosts(ctx context.Context, actor domain.Actor, input PageInput) ([]domain.ForumPost, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.actorRole(ctx, actor); err != nil {
		return nil, err
	}

	limit, offset := s.page(input)
	posts, err := s.posts.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListParticipations returns the actor's own participations.
func (s *Service) ListParticipations(ctx context.Context, actor domain.Actor) ([]domain.Participation, error) {
	if _, err := s.actorRole(ctx, actor); err != nil {
		return nil, err
	}

	rows, err := s.participations.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	return rows, nil
}

// ParticipationStatus reports the actor's state on an item, absent when the
// actor never began one. It reads without locking.
func (s *Service) ParticipationStatus(ctx context.Context, actor domain.Actor, input ParticipationInput) (domain.ParticipationState, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}
	if _, err := s.actorRole(ctx, actor); err != nil {
		return "", err
	}
	if _, err := s.items.GetByID(ctx, input.ItemID); err != nil {
		return "", notFound(fmt.Errorf("get item: %w", err), "item")
	}

	p, err := s.participations.Get(ctx, domain.ParticipationKey{UserID: actor.UserID, ItemID: input.ItemID})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ParticipationAbsent, nil
	case err != nil:
		return "", fmt.Errorf("get participation: %w", err)
	}
	return p.State, nil
}

// ListAuditLog returns audit entries in replay order. Moderators and owners only.
func (s *Service) ListAuditLog(ctx context.Context, actor domain.Actor, input AuditLogInput) ([]domain.AuditEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, permission.Request{Action: permission.ActionViewAudit}); err != nil {
		return nil, err
	}

	limit, offset := s.page(input.PageInput)
	entries, err := s.audit.List(ctx, domain.AuditFilter{
		ActorID:    input.ActorID,
		TargetKind: input.TargetKind,
		TargetID:   input.TargetID,
		Action:     input.Action,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	return entries, nil
}
