package domain

import (
	"fmt"
	"slices"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Audit detail keys written by the orchestrator and read back by Replay.
const (
	DetailUsername = "username"
	DetailRole     = "role"
	DetailFrom     = "from"
	DetailTo       = "to"
	DetailTitle    = "title"
	DetailOwnerID  = "owner_id"
	DetailAuthorID = "author_id"
	DetailItemID   = "item_id"
	DetailUserID   = "user_id"
	DetailDelta    = "delta"
	DetailRating   = "rating"
)

// UserSnapshot is the replayed state of a single user.
type UserSnapshot struct {
	Role   Role
	Rating int
}

// Snapshot is the entity state reconstructed from the audit log.
type Snapshot struct {
	Users          map[int64]UserSnapshot
	Items          map[int64]bool
	Comments       map[int64]bool
	Posts          map[int64]bool
	Participations map[ParticipationKey]ParticipationState
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Users:          make(map[int64]UserSnapshot),
		Items:          make(map[int64]bool),
		Comments:       make(map[int64]bool),
		Posts:          make(map[int64]bool),
		Participations: make(map[ParticipationKey]ParticipationState),
	}
}

// SortAuditEntries puts entries in log order, by ID. Timestamps are not
// consulted: a transaction that started earlier may append later.
func SortAuditEntries(entries []AuditEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
}

// Replay rebuilds entity state from audit entries. Entries are replayed in
// ID order regardless of input order. Login and logout entries
// carry no state and are skipped.
func Replay(entries []AuditEntry) (Snapshot, error) {
	ordered := slices.Clone(entries)
	SortAuditEntries(ordered)

	s := NewSnapshot()
	participationKeys := make(map[int64]ParticipationKey)

	for _, e := range ordered {
		if err := s.apply(e, participationKeys); err != nil {
			return Snapshot{}, fmt.Errorf("replay audit entry %d: %w", e.ID, err)
		}
	}
	return s, nil
}

func (s *Snapshot) apply(e AuditEntry, participationKeys map[int64]ParticipationKey) error {
	switch e.Action {
	case AuditActionLogin, AuditActionLogout:
		return nil

	case AuditActionRegistration:
		s.Users[e.TargetID] = UserSnapshot{Role: Role(cast.ToString(e.Details[DetailRole]))}

	case AuditActionChangeRole:
		u, ok := s.Users[e.TargetID]
		if !ok {
			return fmt.Errorf("change_role on unknown user %d: %w", e.TargetID, ErrInvariantViolation)
		}
		u.Role = Role(cast.ToString(e.Details[DetailTo]))
		s.Users[e.TargetID] = u

	case AuditActionRevokeRole:
		u, ok := s.Users[e.TargetID]
		if !ok {
			return fmt.Errorf("revoke_role on unknown user %d: %w", e.TargetID, ErrInvariantViolation)
		}
		u.Role = ""
		s.Users[e.TargetID] = u

	case AuditActionAddRating:
		u, ok := s.Users[e.TargetID]
		if !ok {
			return fmt.Errorf("add_rating on unknown user %d: %w", e.TargetID, ErrInvariantViolation)
		}
		u.Rating += cast.ToInt(e.Details[DetailDelta])
		s.Users[e.TargetID] = u

	case AuditActionUpload:
		set, err := s.contentSet(e.TargetKind)
		if err != nil {
			return err
		}
		set[e.TargetID] = true

	case AuditActionDelete:
		return s.applyDelete(e, participationKeys)

	case AuditActionParticipationBegin, AuditActionParticipationPromote,
		AuditActionParticipationDemote, AuditActionParticipationRemove:
		key := ParticipationKey{
			UserID: cast.ToInt64(e.Details[DetailUserID]),
			ItemID: cast.ToInt64(e.Details[DetailItemID]),
		}
		to := ParticipationState(cast.ToString(e.Details[DetailTo]))
		if to.IsStored() {
			s.Participations[key] = to
			participationKeys[e.TargetID] = key
		} else {
			delete(s.Participations, key)
			delete(participationKeys, e.TargetID)
		}

	default:
		return fmt.Errorf("unknown action %q: %w", e.Action, ErrInvariantViolation)
	}
	return nil
}

func (s *Snapshot) applyDelete(e AuditEntry, participationKeys map[int64]ParticipationKey) error {
	switch e.TargetKind {
	case TargetUser:
		delete(s.Users, e.TargetID)
	case TargetParticipation:
		if key, ok := participationKeys[e.TargetID]; ok {
			delete(s.Participations, key)
			delete(participationKeys, e.TargetID)
		}
	default:
		set, err := s.contentSet(e.TargetKind)
		if err != nil {
			return err
		}
		delete(set, e.TargetID)
	}
	return nil
}

func (s *Snapshot) contentSet(kind TargetKind) (map[int64]bool, error) {
	switch kind {
	case TargetItem:
		return s.Items, nil
	case TargetComment:
		return s.Comments, nil
	case TargetForumPost:
		return s.Posts, nil
	}
	return nil, fmt.Errorf("target kind %q has no content set: %w", kind, ErrInvariantViolation)
}

// Diff lists the differences between two snapshots; an empty result means equal.
func Diff(want, got Snapshot) []string {
	var diffs []string

	for _, id := range sortedUnion(lo.Keys(want.Users), lo.Keys(got.Users)) {
		w, inWant := want.Users[id]
		g, inGot := got.Users[id]
		switch {
		case !inGot:
			diffs = append(diffs, fmt.Sprintf("user %d missing", id))
		case !inWant:
			diffs = append(diffs, fmt.Sprintf("user %d unexpected", id))
		case w != g:
			diffs = append(diffs, fmt.Sprintf("user %d: want %+v, got %+v", id, w, g))
		}
	}

	diffs = append(diffs, diffSet("item", want.Items, got.Items)...)
	diffs = append(diffs, diffSet("comment", want.Comments, got.Comments)...)
	diffs = append(diffs, diffSet("forum_post", want.Posts, got.Posts)...)

	for key, w := range want.Participations {
		if g, ok := got.Participations[key]; !ok || g != w {
			diffs = append(diffs, fmt.Sprintf("participation %d/%d: want %s, got %s", key.UserID, key.ItemID, w, g))
		}
	}
	for key, g := range got.Participations {
		if _, ok := want.Participations[key]; !ok {
			diffs = append(diffs, fmt.Sprintf("participation %d/%d unexpected (%s)", key.UserID, key.ItemID, g))
		}
	}

	return diffs
}

func diffSet(label string, want, got map[int64]bool) []string {
	missing, unexpected := lo.Difference(lo.Keys(want), lo.Keys(got))
	slices.Sort(missing)
	slices.Sort(unexpected)

	diffs := make([]string, 0, len(missing)+len(unexpected))
	for _, id := range missing {
		diffs = append(diffs, fmt.Sprintf("%s %d missing", label, id))
	}
	for _, id := range unexpected {
		diffs = append(diffs, fmt.Sprintf("%s %d unexpected", label, id))
	}
	return diffs
}

func sortedUnion(a, b []int64) []int64 {
	ids := lo.Uniq(append(a, b...))
	slices.Sort(ids)
	return ids
}
