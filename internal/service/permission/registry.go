package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

type roleRepo interface {
	GetRole(ctx context.Context, userID int64) (domain.Role, error)
}

// Registry resolves the current role of a user. Every call reads the store so
// a decision never rests on a role that has since changed.
type Registry struct {
	roles roleRepo
}

// NewRegistry creates a Registry backed by roles.
func NewRegistry(roles roleRepo) *Registry {
	return &Registry{roles: roles}
}

// RoleOf returns the current role of userID.
func (r *Registry) RoleOf(ctx context.Context, userID int64) (domain.Role, error) {
	role, err := r.roles.GetRole(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("role of user %d: %w", userID, err)
	}
	if !role.IsValid() {
		return "", fmt.Errorf("user %d holds role %q: %w", userID, role, domain.ErrInvariantViolation)
	}
	return role, nil
}

// RoleOfOwner is RoleOf for content owners. Content may outlive its owner;
// an owner without a role assignment is treated as a guest.
func (r *Registry) RoleOfOwner(ctx context.Context, ownerID int64) (domain.Role, error) {
	role, err := r.RoleOf(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RoleGuest, nil
	}
	return role, err
}
