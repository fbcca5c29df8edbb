package domain

import "time"

// TargetKind identifies the kind of entity an audit entry refers to.
type TargetKind string

const (
	TargetUser          TargetKind = "user"
	TargetItem          TargetKind = "item"
	TargetComment       TargetKind = "comment"
	TargetForumPost     TargetKind = "forum_post"
	TargetParticipation TargetKind = "participation"
)

func (k TargetKind) String() string { return string(k) }

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetUser, TargetItem, TargetComment, TargetForumPost, TargetParticipation:
		return true
	}
	return false
}

// AuditAction represents the kind of action recorded in the audit log.
type AuditAction string

const (
	AuditActionLogin                AuditAction = "login"
	AuditActionLogout               AuditAction = "logout"
	AuditActionRegistration         AuditAction = "registration"
	AuditActionUpload               AuditAction = "upload"
	AuditActionDelete               AuditAction = "delete"
	AuditActionChangeRole           AuditAction = "change_role"
	AuditActionRevokeRole           AuditAction = "revoke_role"
	AuditActionAddRating            AuditAction = "add_rating"
	AuditActionParticipationBegin   AuditAction = "participation_begin"
	AuditActionParticipationPromote AuditAction = "participation_promote"
	AuditActionParticipationDemote  AuditAction = "participation_demote"
	AuditActionParticipationRemove  AuditAction = "participation_remove"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionLogin, AuditActionLogout, AuditActionRegistration, AuditActionUpload,
		AuditActionDelete, AuditActionChangeRole, AuditActionRevokeRole, AuditActionAddRating,
		AuditActionParticipationBegin, AuditActionParticipationPromote,
		AuditActionParticipationDemote, AuditActionParticipationRemove:
		return true
	}
	return false
}

// AuditEntry is an immutable record of one elementary mutation.
// ActorID is nil for system actions. ID and OccurredAt are assigned by the
// store at insert; ID defines log order.
type AuditEntry struct {
	ID         int64
	ActorID    *int64
	TargetID   int64
	TargetKind TargetKind
	Action     AuditAction
	Details    map[string]any
	OccurredAt time.Time
}

// AuditFilter narrows audit log listings. Zero values mean "any".
type AuditFilter struct {
	ActorID    *int64
	TargetKind TargetKind
	TargetID   *int64
	Action     AuditAction
	Limit      int
	Offset     int
}
