// Package permission decides whether an actor may perform a mutating action.
//
// Evaluate is a pure function over roles and identities that the caller has
// just read from the store; it never caches or looks anything up itself.
package permission

import (
	"fmt"

	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

// Action is the kind of operation being authorized.
type Action string

const (
	ActionDeleteItem    Action = "delete_item"
	ActionDeleteComment Action = "delete_comment"
	ActionDeletePost    Action = "delete_post"
	ActionDeleteUser    Action = "delete_user"
	ActionChangeRole    Action = "change_role"
	ActionAddRating     Action = "add_rating"
	ActionViewAudit     Action = "view_audit"
)

func (a Action) String() string { return string(a) }

// deletesContent reports whether a removes an owned Item, Comment or ForumPost.
func (a Action) deletesContent() bool {
	switch a {
	case ActionDeleteItem, ActionDeleteComment, ActionDeletePost:
		return true
	}
	return false
}

// roleGated reports whether a requires the actor to outrank the target.
func (a Action) roleGated() bool {
	return a.deletesContent() || a == ActionDeleteUser || a == ActionChangeRole
}

// Request carries everything needed to evaluate one action.
//
// TargetUserID is the owner of the content for delete actions, or the subject
// user for user-directed actions. TargetRole is that user's current role;
// content whose owner no longer exists is evaluated against RoleGuest.
type Request struct {
	Action       Action
	ActorID      int64
	ActorRole    domain.Role
	TargetUserID int64
	TargetRole   domain.Role
	NewRole      domain.Role
	RatingDelta  int
}

// Decision is the outcome of an evaluation.
type Decision struct {
	Allowed bool
	Reason  domain.DenyReason
	Rule    string
}

// Err returns nil for an allowed decision and a *domain.DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.Deny(d.Reason, d.Rule)
}

func allow(rule string) Decision {
	return Decision{Allowed: true, Rule: rule}
}

func deny(reason domain.DenyReason, rule string) Decision {
	return Decision{Reason: reason, Rule: rule}
}

// Evaluate applies the rules in fixed order; the first matching rule wins.
func Evaluate(req Request) Decision {
	isSelf := req.ActorID != 0 && req.ActorID == req.TargetUserID

	// 1. Nobody changes their own role.
	if req.Action == ActionChangeRole && isSelf {
		return deny(domain.ReasonSelfTarget, "self role change")
	}

	// 2. Owners may always remove their own content.
	if req.Action.deletesContent() && isSelf {
		return allow("ownership bypass")
	}

	// 3. Moderation of other users' content and accounts.
	if req.Action.roleGated() {
		if !domain.CanActOn(req.ActorRole, req.TargetRole) {
			return deny(domain.ReasonInsufficientRole,
				fmt.Sprintf("%s cannot act on %s", req.ActorRole, req.TargetRole))
		}
		if req.Action == ActionChangeRole {
			if !req.NewRole.IsValid() {
				return deny(domain.ReasonInvalidInput, "unknown role")
			}
			if !domain.CanActOn(req.ActorRole, req.NewRole) {
				return deny(domain.ReasonInsufficientRole,
					fmt.Sprintf("%s cannot grant %s", req.ActorRole, req.NewRole))
			}
		}
		return allow("role gate")
	}

	// 4. Ratings: anyone authenticated, never for oneself, bounded delta.
	if req.Action == ActionAddRating {
		if !req.ActorRole.IsValid() {
			return deny(domain.ReasonUnauthenticated, "unknown actor")
		}
		if isSelf {
			return deny(domain.ReasonSelfTarget, "self rating")
		}
		if req.RatingDelta < domain.MinRatingDelta || req.RatingDelta > domain.MaxRatingDelta {
			return deny(domain.ReasonInvalidRange,
				fmt.Sprintf("delta must be within %d..%d", domain.MinRatingDelta, domain.MaxRatingDelta))
		}
		return allow("rating")
	}

	// 5. The audit log is for moderators and owners.
	if req.Action == ActionViewAudit && req.ActorRole.AtLeast(domain.RoleModerator) {
		return allow("audit viewer")
	}

	// 6. Default.
	return deny(domain.ReasonInsufficientRole, "no matching rule")
}
