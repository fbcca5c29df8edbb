package domain

import (
	"fmt"
	"time"
)

// ParticipationState is a user's relationship to an item.
type ParticipationState string

const (
	// ParticipationAbsent is never stored: an absent participation has no row.
	ParticipationAbsent      ParticipationState = "absent"
	ParticipationDownloading ParticipationState = "downloading"
	ParticipationSeeding     ParticipationState = "seeding"
)

func (s ParticipationState) String() string { return string(s) }

func (s ParticipationState) IsValid() bool {
	switch s {
	case ParticipationAbsent, ParticipationDownloading, ParticipationSeeding:
		return true
	}
	return false
}

// IsStored reports whether a participation in state s has a row in the store.
func (s ParticipationState) IsStored() bool {
	return s == ParticipationDownloading || s == ParticipationSeeding
}

// ParticipationEvent is a requested transition.
type ParticipationEvent string

const (
	EventBegin   ParticipationEvent = "begin"
	EventPromote ParticipationEvent = "promote"
	EventDemote  ParticipationEvent = "demote"
	EventRemove  ParticipationEvent = "remove"
	// EventToggle resolves to begin, promote or demote depending on the current state.
	EventToggle ParticipationEvent = "toggle"
)

func (e ParticipationEvent) String() string { return string(e) }

// Participation is the single record for a (user, item) pair.
type Participation struct {
	ID        int64
	UserID    int64
	ItemID    int64
	State     ParticipationState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the record id, or 0 for a nil participation.
func (p *Participation) GetID() int64 {
	if p == nil {
		return 0
	}
	return p.ID
}

// ParticipationKey identifies a participation record.
type ParticipationKey struct {
	UserID int64
	ItemID int64
}

// Transition is the outcome of applying an event to a state.
type Transition struct {
	From   ParticipationState
	To     ParticipationState
	Event  ParticipationEvent
	Action AuditAction
}

// Creates reports whether the transition creates a new record.
func (t Transition) Creates() bool {
	return !t.From.IsStored() && t.To.IsStored()
}

// Deletes reports whether the transition removes the record.
func (t Transition) Deletes() bool {
	return t.From.IsStored() && !t.To.IsStored()
}

type transitionKey struct {
	from  ParticipationState
	event ParticipationEvent
}

var participationTable = map[transitionKey]Transition{
	{ParticipationAbsent, EventBegin}:        {ParticipationAbsent, ParticipationDownloading, EventBegin, AuditActionParticipationBegin},
	{ParticipationDownloading, EventPromote}: {ParticipationDownloading, ParticipationSeeding, EventPromote, AuditActionParticipationPromote},
	{ParticipationSeeding, EventDemote}:      {ParticipationSeeding, ParticipationDownloading, EventDemote, AuditActionParticipationDemote},
	{ParticipationDownloading, EventRemove}:  {ParticipationDownloading, ParticipationAbsent, EventRemove, AuditActionParticipationRemove},
	{ParticipationSeeding, EventRemove}:      {ParticipationSeeding, ParticipationAbsent, EventRemove, AuditActionParticipationRemove},
}

// resolveToggle maps a toggle onto the concrete event for the current state.
func resolveToggle(from ParticipationState) ParticipationEvent {
	switch from {
	case ParticipationDownloading:
		return EventPromote
	case ParticipationSeeding:
		return EventDemote
	default:
		return EventBegin
	}
}

// NextParticipation applies event to from and returns the resulting transition.
// Illegal transitions are returned as DeniedError values:
//   - begin on an existing record: duplicate
//   - remove without a record: not_found
//   - anything else not in the table: invalid_transition
func NextParticipation(from ParticipationState, event ParticipationEvent) (Transition, error) {
	if !from.IsValid() {
		return Transition{}, fmt.Errorf("participation state %q: %w", from, ErrInvariantViolation)
	}
	if event == EventToggle {
		event = resolveToggle(from)
	}

	if t, ok := participationTable[transitionKey{from, event}]; ok {
		return t, nil
	}

	switch {
	case event == EventBegin && from.IsStored():
		return Transition{}, Deny(ReasonDuplicate, "participation already exists")
	case event == EventRemove && !from.IsStored():
		return Transition{}, Deny(ReasonNotFound, "participation does not exist")
	case event == EventPromote && from == ParticipationAbsent:
		return Transition{}, Deny(ReasonInvalidTransition, "must download before seeding")
	default:
		return Transition{}, Deny(ReasonInvalidTransition, fmt.Sprintf("cannot %s from %s", event, from))
	}
}
