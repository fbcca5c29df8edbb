package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// DeleteUser removes an account after its participations, forum posts and
// role assignment. Items and comments by the user are left in place.
func (s *Service) DeleteUser(ctx context.Context, actor domain.Actor, input DeleteUserInput) (*DeleteResult, error) {
	const op = "DeleteUser"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result DeleteResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.actorRole(txCtx, actor)
		if err != nil {
			return err
		}

		user, err := s.users.GetByID(txCtx, input.UserID)
		if err != nil {
			return notFound(fmt.Errorf("get user: %w", err), "user")
		}

		if err := s.authorize(txCtx, actor, permission.Request{
			Action:       permission.ActionDeleteUser,
			ActorRole:    role,
			TargetUserID: user.ID,
		}); err != nil {
			return err
		}

		entries, err := s.cascade(txCtx, actor, s.userCascade(), user.ID)
		if err != nil {
			return err
		}

		if err := s.users.Delete(txCtx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		entry, err := s.record(txCtx, actor, domain.TargetUser, user.ID, domain.AuditActionDelete, map[string]any{
			domain.DetailUsername: user.Username,
		})
		if err != nil {
			return err
		}

		result = DeleteResult{
			TargetKind: domain.TargetUser,
			TargetID:   user.ID,
			Entries:    append(entries, entry),
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entries...)
	return &result, nil
}

// ChangeRole assigns a new role to another user. Assigning the role the user
// already holds is accepted and still audited.
func (s *Service) ChangeRole(ctx context.Context, actor domain.Actor, input ChangeRoleInput) (*RoleChangeResult, error) {
	const op = "ChangeRole"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result RoleChangeResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.actorRole(txCtx, actor)
		if err != nil {
			return err
		}

		target, err := s.users.GetByID(txCtx, input.TargetUserID)
		if err != nil {
			return notFound(fmt.Errorf("get user: %w", err), "user")
		}

		from, err := s.registry.RoleOfOwner(txCtx, target.ID)
		if err != nil {
			return err
		}

		if err := s.authorize(txCtx, actor, permission.Request{
			Action:       permission.ActionChangeRole,
			ActorRole:    role,
			TargetUserID: target.ID,
			TargetRole:   from,
			NewRole:      input.Role,
		}); err != nil {
			return err
		}

		if err := s.roles.Assign(txCtx, target.ID, input.Role); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}

		entry, err := s.record(txCtx, actor, domain.TargetUser, target.ID, domain.AuditActionChangeRole, map[string]any{
			domain.DetailFrom: from.String(),
			domain.DetailTo:   input.Role.String(),
		})
		if err != nil {
			return err
		}

		result = RoleChangeResult{UserID: target.ID, From: from, To: input.Role, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entry)
	return &result, nil
}

// AddRating adds a bounded positive delta to another user's rating.
func (s *Service) AddRating(ctx context.Context, actor domain.Actor, input AddRatingInput) (*RatingResult, error) {
	const op = "AddRating"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	var result RatingResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.actorRole(txCtx, actor)
		if err != nil {
			return err
		}

		target, err := s.resolveUser(txCtx, input.TargetUserID, input.TargetUsername)
		if err != nil {
			return err
		}

		if err := s.authorize(txCtx, actor, permission.Request{
			Action:       permission.ActionAddRating,
			ActorRole:    role,
			TargetUserID: target.ID,
			TargetRole:   target.Role,
			RatingDelta:  input.Delta,
		}); err != nil {
			return err
		}

		rating, err := s.users.AddRating(txCtx, target.ID, input.Delta)
		if err != nil {
			return notFound(fmt.Errorf("add rating: %w", err), "user")
		}

		entry, err := s.record(txCtx, actor, domain.TargetUser, target.ID, domain.AuditActionAddRating, map[string]any{
			domain.DetailDelta:  input.Delta,
			domain.DetailRating: rating,
		})
		if err != nil {
			return err
		}

		result = RatingResult{UserID: target.ID, Delta: input.Delta, Rating: rating, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entry)
	return &result, nil
}

// resolveUser loads a user by id, falling back to the username.
func (s *Service) resolveUser(ctx context.Context, id int64, username string) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)
	if id > 0 {
		user, err = s.users.GetByID(ctx, id)
	} else {
		user, err = s.users.GetByUsername(ctx, strings.TrimSpace(username))
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Deny(domain.ReasonNotFound, "user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
