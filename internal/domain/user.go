package domain

import "time"

// Rating changes are accepted only within this closed range.
const (
	MinRatingDelta = 1
	MaxRatingDelta = 10
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Rating       int
	CreatedAt    time.Time
}

// RoleAssignment binds a user to their current role.
type RoleAssignment struct {
	UserID     int64
	Role       Role
	AssignedAt time.Time
}

// Actor identifies who performs an operation. The zero Actor is the system.
type Actor struct {
	UserID int64
}

// SystemActor performs maintenance actions that have no human author.
var SystemActor = Actor{}

// ActorOf returns the actor for the given user.
func ActorOf(userID int64) Actor {
	return Actor{UserID: userID}
}

// IsSystem reports whether a is the system actor.
func (a Actor) IsSystem() bool {
	return a.UserID == 0
}

// AuditID returns the actor reference written into the audit log
// (nil for system actions).
func (a Actor) AuditID() *int64 {
	if a.IsSystem() {
		return nil
	}
	id := a.UserID
	return &id
}
