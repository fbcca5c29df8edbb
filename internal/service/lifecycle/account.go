package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

// Register creates an account with the configured default role. The new
// user is the actor of its own registration entry.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AccountResult, error) {
	const op = "Register"

	if err := input.Validate(s.minPassword); err != nil {
		return nil, s.fail(ctx, op, domain.SystemActor, err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, s.fail(ctx, op, domain.SystemActor, fmt.Errorf("hash password: %w", err))
	}

	role := domain.Role(s.cfg.DefaultRole)
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var result AccountResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		taken, err := s.users.ExistsUsername(txCtx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return domain.Deny(domain.ReasonDuplicate, "username")
		}

		taken, err = s.users.ExistsEmail(txCtx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return domain.Deny(domain.ReasonDuplicate, "email")
		}

		user, err := s.users.Create(txCtx, &domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
		})
		if err != nil {
			return duplicate(fmt.Errorf("create user: %w", err), "user")
		}

		if err := s.roles.Assign(txCtx, user.ID, role); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		user.Role = role

		actor := domain.ActorOf(user.ID)
		entry, err := s.record(txCtx, actor, domain.TargetUser, user.ID, domain.AuditActionRegistration, map[string]any{
			domain.DetailUsername: user.Username,
			domain.DetailRole:     role.String(),
		})
		if err != nil {
			return err
		}

		result = AccountResult{User: user, Actor: actor, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, domain.SystemActor, err)
	}

	s.committed(ctx, op, result.Actor, result.Entry)
	return &result, nil
}

// Login checks credentials and records the login. Unknown emails and wrong
// passwords are indistinguishable to the caller and leave no audit entry.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AccountResult, error) {
	const op = "Login"

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, domain.SystemActor, err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var result AccountResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.users.GetByEmail(txCtx, email)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Deny(domain.ReasonInvalidCredentials, "")
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return domain.Deny(domain.ReasonInvalidCredentials, "")
		}

		actor := domain.ActorOf(user.ID)
		if _, err := s.actorRole(txCtx, actor); err != nil {
			return err
		}

		entry, err := s.record(txCtx, actor, domain.TargetUser, user.ID, domain.AuditActionLogin, nil)
		if err != nil {
			return err
		}

		result = AccountResult{User: user, Actor: actor, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, domain.SystemActor, err)
	}

	s.committed(ctx, op, result.Actor, result.Entry)
	return &result, nil
}

// Logout records the end of the actor's session.
func (s *Service) Logout(ctx context.Context, actor domain.Actor) error {
	const op = "Logout"

	var entry domain.AuditEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.actorRole(txCtx, actor); err != nil {
			return err
		}

		var err error
		entry, err = s.record(txCtx, actor, domain.TargetUser, actor.UserID, domain.AuditActionLogout, nil)
		return err
	})
	if err != nil {
		return s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, entry)
	return nil
}

// BootstrapOwner promotes the account with the given email to owner as a
// system action. It is the only way the first owner comes to exist.
func (s *Service) BootstrapOwner(ctx context.Context, input BootstrapOwnerInput) (*RoleChangeResult, error) {
	const op = "BootstrapOwner"
	actor := domain.SystemActor

	if err := input.Validate(); err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var result RoleChangeResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.users.GetByEmail(txCtx, email)
		if err != nil {
			return notFound(fmt.Errorf("get user: %w", err), "user")
		}

		from, err := s.registry.RoleOfOwner(txCtx, user.ID)
		if err != nil {
			return err
		}

		if err := s.roles.Assign(txCtx, user.ID, domain.RoleOwner); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}

		entry, err := s.record(txCtx, actor, domain.TargetUser, user.ID, domain.AuditActionChangeRole, map[string]any{
			domain.DetailFrom: from.String(),
			domain.DetailTo:   domain.RoleOwner.String(),
		})
		if err != nil {
			return err
		}

		result = RoleChangeResult{UserID: user.ID, From: from, To: domain.RoleOwner, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, op, actor, err)
	}

	s.committed(ctx, op, actor, result.Entry)
	return &result, nil
}
