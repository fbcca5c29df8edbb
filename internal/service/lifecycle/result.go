package lifecycle

import "github.com/heartmarshall/sharetracker-backend/internal/domain"

// AccountResult is returned by Register and Login.
type AccountResult struct {
	User  *domain.User
	Actor domain.Actor
	Entry domain.AuditEntry
}

// DeleteResult describes a committed delete. Entries lists every audit entry
// written, cascade steps first and the parent deletion last.
type DeleteResult struct {
	TargetKind domain.TargetKind
	TargetID   int64
	Entries    []domain.AuditEntry
}

// RoleChangeResult describes a committed role change.
type RoleChangeResult struct {
	UserID int64
	From   domain.Role
	To     domain.Role
	Entry  domain.AuditEntry
}

// RatingResult describes a committed rating change.
type RatingResult struct {
	UserID int64
	Delta  int
	Rating int
	Entry  domain.AuditEntry
}

// ParticipationResult describes a committed participation transition.
// Participation is nil after a remove.
type ParticipationResult struct {
	Participation *domain.Participation
	Transition    domain.Transition
	Entry         domain.AuditEntry
}
