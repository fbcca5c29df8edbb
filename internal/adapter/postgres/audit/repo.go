// Package audit implements the Audit repository using PostgreSQL.
// It provides append-only operations; a trigger rejects updates and deletes.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/sharetracker-backend/internal/adapter/postgres"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
)

const table = "audit_entries"

var columns = []string{"id", "actor_id", "target_id", "target_kind", "action", "details", "occurred_at"}

const returningColumns = "RETURNING id, actor_id, target_id, target_kind, action, details, occurred_at"

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type entryRow struct {
	ID         int64     `db:"id"`
	ActorID    *int64    `db:"actor_id"`
	TargetID   int64     `db:"target_id"`
	TargetKind string    `db:"target_kind"`
	Action     string    `db:"action"`
	Details    []byte    `db:"details"`
	OccurredAt time.Time `db:"occurred_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Append inserts a new entry. The id and timestamp are assigned by the store.
func (r *Repo) Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("audit_entry marshal details: %w", err)
	}

	query := postgres.Builder().
		Insert(table).
		Columns("actor_id", "target_id", "target_kind", "action", "details").
		Values(entry.ActorID, entry.TargetID, entry.TargetKind.String(), entry.Action.String(), detailsJSON).
		Suffix(returningColumns)

	var row entryRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query); err != nil {
		return domain.AuditEntry{}, postgres.MapError(err, "audit_entry", entry.Action)
	}

	return toDomainEntry(row)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns entries matching filter in log order. The identity id is the
// order: it is allocated at insert, so an entry written after waiting on a
// row lock always sorts after the entry of the transaction that held it.
func (r *Repo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("id")

	if filter.ActorID != nil {
		query = query.Where(sq.Eq{"actor_id": *filter.ActorID})
	}
	if filter.TargetKind != "" {
		query = query.Where(sq.Eq{"target_kind": filter.TargetKind.String()})
	}
	if filter.TargetID != nil {
		query = query.Where(sq.Eq{"target_id": *filter.TargetID})
	}
	if filter.Action != "" {
		query = query.Where(sq.Eq{"action": filter.Action.String()})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	var rows []entryRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query); err != nil {
		return nil, postgres.MapError(err, "audit_entries", "list")
	}

	entries := make([]domain.AuditEntry, len(rows))
	for i, row := range rows {
		e, err := toDomainEntry(row)
		if err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}

// ListAll returns the whole log in replay order.
func (r *Repo) ListAll(ctx context.Context) ([]domain.AuditEntry, error) {
	return r.List(ctx, domain.AuditFilter{})
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toDomainEntry(row entryRow) (domain.AuditEntry, error) {
	entry := domain.AuditEntry{
		ID:         row.ID,
		ActorID:    row.ActorID,
		TargetID:   row.TargetID,
		TargetKind: domain.TargetKind(row.TargetKind),
		Action:     domain.AuditAction(row.Action),
		OccurredAt: row.OccurredAt,
	}

	// details: JSONB -> map[string]any
	if len(row.Details) > 0 {
		details := make(map[string]any)
		if err := json.Unmarshal(row.Details, &details); err != nil {
			return domain.AuditEntry{}, fmt.Errorf("audit_entry %d unmarshal details: %w", row.ID, err)
		}
		entry.Details = details
	}

	return entry, nil
}
