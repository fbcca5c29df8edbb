// Package lifecycle is the single entry point for every mutating operation.
//
// Each operation validates its input, re-reads the roles and records it
// depends on, asks the permission evaluator, applies the change together with
// any cascade, and appends one audit entry per elementary change. All of it
// runs in one transaction: a failure anywhere after authorization rolls back
// the mutation, the cascade and the audit entries together.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/sharetracker-backend/internal/config"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
	"github.com/heartmarshall/sharetracker-backend/pkg/ctxutil"
)

type userRepo interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	AddRating(ctx context.Context, id int64, delta int) (int, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type roleRepo interface {
	Assign(ctx context.Context, userID int64, role domain.Role) error
	Revoke(ctx context.Context, userID int64) error
}

type roleRegistry interface {
	RoleOf(ctx context.Context, userID int64) (domain.Role, error)
	RoleOfOwner(ctx context.Context, ownerID int64) (domain.Role, error)
}

type itemRepo interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	GetByTitle(ctx context.Context, title string) (*domain.Item, error)
	ExistsTitle(ctx context.Context, title string) (bool, error)
	ExistsFingerprint(ctx context.Context, fingerprint string) (bool, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Item, error)
}

type commentRepo interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]domain.Comment, error)
	CountByItem(ctx context.Context, itemID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

type postRepo interface {
	Create(ctx context.Context, p *domain.ForumPost) (*domain.ForumPost, error)
	GetByID(ctx context.Context, id int64) (*domain.ForumPost, error)
	ExistsTitle(ctx context.Context, authorID int64, title string) (bool, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.ForumPost, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.ForumPost, error)
}

type participationRepo interface {
	Create(ctx context.Context, key domain.ParticipationKey, state domain.ParticipationState) (*domain.Participation, error)
	Get(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error)
	GetForUpdate(ctx context.Context, key domain.ParticipationKey) (*domain.Participation, error)
	UpdateState(ctx context.Context, id int64, state domain.ParticipationState) (*domain.Participation, error)
	Delete(ctx context.Context, id int64) error
	ListByItem(ctx context.Context, itemID int64) ([]domain.Participation, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Participation, error)
	CountByItem(ctx context.Context, itemID int64) (int, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

type auditRepo interface {
	Append(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// Repos groups the stores the orchestrator writes to.
type Repos struct {
	Users          userRepo
	Roles          roleRepo
	Items          itemRepo
	Comments       commentRepo
	Posts          postRepo
	Participations participationRepo
	Audit          auditRepo
}

// Service is the lifecycle orchestrator.
type Service struct {
	log            *slog.Logger
	users          userRepo
	roles          roleRepo
	registry       roleRegistry
	items          itemRepo
	comments       commentRepo
	posts          postRepo
	participations participationRepo
	audit          auditRepo
	tx             txManager
	hasher         passwordHasher
	cfg            config.EngineConfig
	minPassword    int
}

// NewService creates a new lifecycle orchestrator.
func NewService(
	logger *slog.Logger,
	repos Repos,
	registry roleRegistry,
	tx txManager,
	hasher passwordHasher,
	cfg config.EngineConfig,
	authCfg config.AuthConfig,
) *Service {
	return &Service{
		log:            logger.With("service", "lifecycle"),
		users:          repos.Users,
		roles:          repos.Roles,
		registry:       registry,
		items:          repos.Items,
		comments:       repos.Comments,
		posts:          repos.Posts,
		participations: repos.Participations,
		audit:          repos.Audit,
		tx:             tx,
		hasher:         hasher,
		cfg:            cfg,
		minPassword:    authCfg.MinPasswordLength,
	}
}

// actorRole re-reads the actor's current role. The system actor and actors
// whose account no longer exists are unauthenticated.
func (s *Service) actorRole(ctx context.Context, actor domain.Actor) (domain.Role, error) {
	if actor.IsSystem() {
		return "", domain.Deny(domain.ReasonUnauthenticated, "system actor")
	}
	role, err := s.registry.RoleOf(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.Deny(domain.ReasonUnauthenticated, fmt.Sprintf("user %d", actor.UserID))
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// authorize asks the evaluator, re-reading the actor's role unless the caller
// already did and the target user's role unless given. The target role is
// resolved with RoleOfOwner so content and accounts that lost their role
// assignment are judged as guests.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, req permission.Request) error {
	if req.ActorRole == "" {
		role, err := s.actorRole(ctx, actor)
		if err != nil {
			return err
		}
		req.ActorRole = role
	}
	req.ActorID = actor.UserID

	if req.TargetUserID != 0 && req.TargetRole == "" {
		targetRole, err := s.registry.RoleOfOwner(ctx, req.TargetUserID)
		if err != nil {
			return err
		}
		req.TargetRole = targetRole
	}

	return permission.Evaluate(req).Err()
}

// record appends one audit entry inside the caller's transaction.
func (s *Service) record(
	ctx context.Context,
	actor domain.Actor,
	kind domain.TargetKind,
	targetID int64,
	action domain.AuditAction,
	details map[string]any,
) (domain.AuditEntry, error) {
	entry, err := s.audit.Append(ctx, domain.AuditEntry{
		ActorID:    actor.AuditID(),
		TargetID:   targetID,
		TargetKind: kind,
		Action:     action,
		Details:    details,
	})
	if err != nil {
		return domain.AuditEntry{}, fmt.Errorf("audit %s %s %d: %w", action, kind, targetID, err)
	}
	return entry, nil
}

// fail logs a failed operation and returns err annotated with the operation name.
func (s *Service) fail(ctx context.Context, op string, actor domain.Actor, err error) error {
	attrs := []any{
		slog.String("op", op),
		slog.Int64("actor_id", actor.UserID),
		slog.String("reason", domain.ReasonOf(err).String()),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
	}

	switch domain.KindOf(err) {
	case domain.KindInvariantViolation, domain.KindStoreFailure:
		s.log.ErrorContext(ctx, "operation failed", append(attrs, slog.String("error", err.Error()))...)
	default:
		s.log.WarnContext(ctx, "operation rejected", attrs...)
	}

	return fmt.Errorf("lifecycle.%s: %w", op, err)
}

// committed logs a successful mutation.
func (s *Service) committed(ctx context.Context, op string, actor domain.Actor, entries ...domain.AuditEntry) {
	attrs := []any{
		slog.String("op", op),
		slog.Int64("actor_id", actor.UserID),
		slog.Int("audit_entries", len(entries)),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
	}
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		attrs = append(attrs,
			slog.String("target_kind", last.TargetKind.String()),
			slog.Int64("target_id", last.TargetID),
		)
	}
	s.log.InfoContext(ctx, "mutation committed", attrs...)
}

// notFound converts a store miss into a not_found denial naming what was missing.
func notFound(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Deny(domain.ReasonNotFound, what)
	}
	return err
}

// duplicate converts a uniqueness violation into a duplicate denial.
func duplicate(err error, what string) error {
	if errors.Is(err, domain.ErrAlreadyExists) {
		return domain.Deny(domain.ReasonDuplicate, what)
	}
	return err
}
