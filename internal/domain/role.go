package domain

// Role represents the authorization level of a user.
// Roles are totally ordered: guest < user < moderator < owner.
type Role string

const (
	RoleGuest     Role = "guest"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleOwner     Role = "owner"
)

// Roles lists every role in ascending privilege order.
var Roles = []Role{RoleGuest, RoleUser, RoleModerator, RoleOwner}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleModerator, RoleOwner:
		return true
	}
	return false
}

// Rank returns the position of r in the privilege order, or -1 for an unknown role.
func (r Role) Rank() int {
	switch r {
	case RoleGuest:
		return 0
	case RoleUser:
		return 1
	case RoleModerator:
		return 2
	case RoleOwner:
		return 3
	}
	return -1
}

// Outranks reports whether a is strictly more privileged than b.
func Outranks(a, b Role) bool {
	return a.Rank() > b.Rank()
}

// AtLeast reports whether r is min or more privileged.
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && r.Rank() >= min.Rank()
}

// CanActOn reports whether an actor holding actor may moderate a subject
// holding target: the actor must be a moderator or above, and a moderator
// may never act on an owner.
//
// Changing one's own role is rejected before this predicate is consulted.
func CanActOn(actor, target Role) bool {
	if !actor.AtLeast(RoleModerator) || !target.IsValid() {
		return false
	}
	if actor == RoleModerator && target == RoleOwner {
		return false
	}
	return true
}
