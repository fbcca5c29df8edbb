package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"

	"github.com/heartmarshall/sharetracker-backend/internal/config"
	"github.com/heartmarshall/sharetracker-backend/internal/domain"
	"github.com/heartmarshall/sharetracker-backend/internal/service/permission"
)

// memState is the table contents of memStore.
type memState struct {
	nextID   int64
	users    map[int64]domain.User
	roles    map[int64]domain.Role
	items    map[int64]domain.Item
	comments map[int64]domain.Comment
	posts    map[int64]domain.ForumPost
	parts    map[int64]domain.Participation
	audit    []domain.AuditEntry
}

func (s memState) clone() memState {
	return memState{
		nextID:   s.nextID,
		users:    maps.Clone(s.users),
		roles:    maps.Clone(s.roles),
		items:    maps.Clone(s.items),
		comments: maps.Clone(s.comments),
		posts:    maps.Clone(s.posts),
		parts:    maps.Clone(s.parts),
		audit:    slices.Clone(s.audit),
	}
}

// memStore backs the repository mocks with in-memory tables. Foreign keys
// behave like the PostgreSQL schema: deleting a parent that still has
// dependents fails, and RunInTx restores the previous state on error.
type memStore struct {
	mu sync.Mutex
	memState

	// appendErr, when set, is consulted before every audit append.
	appendErr func(entry domain.AuditEntry) error

	users          *userRepoMock
	roleRepo       *roleRepoMock
	items          *itemRepoMock
	comments       *commentRepoMock
	posts          *postRepoMock
	participations *participationRepoMock
	audit          *auditRepoMock
	tx             *txManagerMock
	hasher         *passwordHasherMock
}

var errFK = fmt.Errorf("foreign key violation: %w", domain.ErrStoreFailure)

func notFoundErr(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, domain.ErrNotFound)
}

func newMemStore() *memStore {
	m := &memStore{memState: memState{
		users:    map[int64]domain.User{},
		roles:    map[int64]domain.Role{},
		items:    map[int64]domain.Item{},
		comments: map[int64]domain.Comment{},
		posts:    map[int64]domain.ForumPost{},
		parts:    map[int64]domain.Participation{},
	}}
	m.users = m.userMock()
	m.roleRepo = m.roleMock()
	m.items = m.itemMock()
	m.comments = m.commentMock()
	m.posts = m.postMock()
	m.participations = m.participationMock()
	m.audit = m.auditMock()
	m.hasher = &passwordHasherMock{
		HashFunc: func(password string) (string, error) { return "hashed:" + password, nil },
		VerifyFunc: func(hash, password string) (bool, error) {
			return hash == "hashed:"+password, nil
		},
	}
	m.tx = &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			m.mu.Lock()
			saved := m.memState.clone()
			m.mu.Unlock()

			if err := fn(ctx); err != nil {
				m.mu.Lock()
				m.memState = saved
				m.mu.Unlock()
				return err
			}
			return nil
		},
	}
	return m
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// GetRole makes memStore usable as the role registry's backing repository.
func (m *memStore) GetRole(_ context.Context, userID int64) (domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[userID]
	if !ok {
		return "", notFoundErr("role_assignment", userID)
	}
	return role, nil
}

func (m *memStore) userMock() *userRepoMock {
	return &userRepoMock{
		CreateFunc: func(_ context.Context, u *domain.User) (*domain.User, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, other := range m.memState.users {
				if other.Username == u.Username || other.Email == u.Email {
					return nil, fmt.Errorf("user: %w", domain.ErrAlreadyExists)
				}
			}
			created := *u
			created.ID = m.id()
			created.CreatedAt = time.Now()
			m.memState.users[created.ID] = created
			return &created, nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*domain.User, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			u, ok := m.memState.users[id]
			if !ok {
				return nil, notFoundErr("user", id)
			}
			u.Role = m.roles[id]
			return &u, nil
		},
		GetByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			return m.findUser(func(u domain.User) bool { return u.Email == email }, email)
		},
		GetByUsernameFunc: func(_ context.Context, username string) (*domain.User, error) {
			return m.findUser(func(u domain.User) bool { return u.Username == username }, username)
		},
		ExistsUsernameFunc: func(_ context.Context, username string) (bool, error) {
			_, err := m.findUser(func(u domain.User) bool { return u.Username == username }, username)
			return err == nil, nil
		},
		ExistsEmailFunc: func(_ context.Context, email string) (bool, error) {
			_, err := m.findUser(func(u domain.User) bool { return u.Email == email }, email)
			return err == nil, nil
		},
		AddRatingFunc: func(_ context.Context, id int64, delta int) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			u, ok := m.memState.users[id]
			if !ok {
				return 0, notFoundErr("user", id)
			}
			u.Rating += delta
			m.memState.users[id] = u
			return u.Rating, nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.users[id]; !ok {
				return notFoundErr("user", id)
			}
			_, hasRole := m.roles[id]
			hasParts := lo.SomeBy(lo.Values(m.parts), func(p domain.Participation) bool { return p.UserID == id })
			hasPosts := lo.SomeBy(lo.Values(m.memState.posts), func(p domain.ForumPost) bool { return p.AuthorID == id })
			if hasRole || hasParts || hasPosts {
				return errFK
			}
			delete(m.memState.users, id)
			return nil
		},
		ListFunc: func(_ context.Context, limit, offset int) ([]domain.User, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			users := lo.Map(sortedIDs(m.memState.users), func(id int64, _ int) domain.User {
				u := m.memState.users[id]
				u.Role = m.roles[id]
				return u
			})
			return page(users, limit, offset), nil
		},
	}
}

func (m *memStore) findUser(match func(domain.User) bool, key string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range sortedIDs(m.memState.users) {
		u := m.memState.users[id]
		if match(u) {
			u.Role = m.roles[id]
			return &u, nil
		}
	}
	return nil, notFoundErr("user", key)
}

func (m *memStore) roleMock() *roleRepoMock {
	return &roleRepoMock{
		AssignFunc: func(_ context.Context, userID int64, role domain.Role) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.users[userID]; !ok {
				return notFoundErr("user", userID)
			}
			m.roles[userID] = role
			return nil
		},
		RevokeFunc: func(_ context.Context, userID int64) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.roles[userID]; !ok {
				return notFoundErr("role_assignment", userID)
			}
			delete(m.roles, userID)
			return nil
		},
	}
}

func (m *memStore) itemMock() *itemRepoMock {
	findItem := func(match func(domain.Item) bool, key any) (*domain.Item, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, id := range sortedIDs(m.memState.items) {
			if it := m.memState.items[id]; match(it) {
				return &it, nil
			}
		}
		return nil, notFoundErr("item", key)
	}

	return &itemRepoMock{
		CreateFunc: func(_ context.Context, it *domain.Item) (*domain.Item, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			for _, other := range m.memState.items {
				if other.Title == it.Title || other.Fingerprint == it.Fingerprint {
					return nil, fmt.Errorf("item: %w", domain.ErrAlreadyExists)
				}
			}
			created := *it
			created.ID = m.id()
			created.CreatedAt = time.Now()
			m.memState.items[created.ID] = created
			return &created, nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*domain.Item, error) {
			return findItem(func(it domain.Item) bool { return it.ID == id }, id)
		},
		GetByTitleFunc: func(_ context.Context, title string) (*domain.Item, error) {
			return findItem(func(it domain.Item) bool { return it.Title == title }, title)
		},
		ExistsTitleFunc: func(_ context.Context, title string) (bool, error) {
			_, err := findItem(func(it domain.Item) bool { return it.Title == title }, title)
			return err == nil, nil
		},
		ExistsFingerprintFunc: func(_ context.Context, fp string) (bool, error) {
			_, err := findItem(func(it domain.Item) bool { return it.Fingerprint == fp }, fp)
			return err == nil, nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.items[id]; !ok {
				return notFoundErr("item", id)
			}
			hasComments := lo.SomeBy(lo.Values(m.memState.comments), func(c domain.Comment) bool { return c.ItemID == id })
			hasParts := lo.SomeBy(lo.Values(m.parts), func(p domain.Participation) bool { return p.ItemID == id })
			if hasComments || hasParts {
				return errFK
			}
			delete(m.memState.items, id)
			return nil
		},
		ListFunc: func(_ context.Context, limit, offset int) ([]domain.Item, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			ids := sortedIDs(m.memState.items)
			slices.Reverse(ids)
			return page(lo.Map(ids, func(id int64, _ int) domain.Item { return m.memState.items[id] }), limit, offset), nil
		},
	}
}

func (m *memStore) commentMock() *commentRepoMock {
	byItem := func(itemID int64) []domain.Comment {
		return lo.Filter(lo.Map(sortedIDs(m.memState.comments), func(id int64, _ int) domain.Comment {
			return m.memState.comments[id]
		}), func(c domain.Comment, _ int) bool { return c.ItemID == itemID })
	}

	return &commentRepoMock{
		CreateFunc: func(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.items[c.ItemID]; !ok {
				return nil, notFoundErr("item", c.ItemID)
			}
			created := *c
			created.ID = m.id()
			created.CreatedAt = time.Now()
			m.memState.comments[created.ID] = created
			return &created, nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*domain.Comment, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			c, ok := m.memState.comments[id]
			if !ok {
				return nil, notFoundErr("comment", id)
			}
			return &c, nil
		},
		ListByItemFunc: func(_ context.Context, itemID int64) ([]domain.Comment, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return byItem(itemID), nil
		},
		CountByItemFunc: func(_ context.Context, itemID int64) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return len(byItem(itemID)), nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.comments[id]; !ok {
				return notFoundErr("comment", id)
			}
			delete(m.memState.comments, id)
			return nil
		},
	}
}

func (m *memStore) postMock() *postRepoMock {
	byAuthor := func(authorID int64) []domain.ForumPost {
		return lo.Filter(lo.Map(sortedIDs(m.memState.posts), func(id int64, _ int) domain.ForumPost {
			return m.memState.posts[id]
		}), func(p domain.ForumPost, _ int) bool { return p.AuthorID == authorID })
	}

	return &postRepoMock{
		CreateFunc: func(_ context.Context, p *domain.ForumPost) (*domain.ForumPost, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.users[p.AuthorID]; !ok {
				return nil, notFoundErr("user", p.AuthorID)
			}
			for _, other := range byAuthor(p.AuthorID) {
				if other.Title == p.Title {
					return nil, fmt.Errorf("forum_post: %w", domain.ErrAlreadyExists)
				}
			}
			created := *p
			created.ID = m.id()
			created.CreatedAt = time.Now()
			m.memState.posts[created.ID] = created
			return &created, nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*domain.ForumPost, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			p, ok := m.memState.posts[id]
			if !ok {
				return nil, notFoundErr("forum_post", id)
			}
			return &p, nil
		},
		ExistsTitleFunc: func(_ context.Context, authorID int64, title string) (bool, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return lo.SomeBy(byAuthor(authorID), func(p domain.ForumPost) bool { return p.Title == title }), nil
		},
		ListByAuthorFunc: func(_ context.Context, authorID int64) ([]domain.ForumPost, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return byAuthor(authorID), nil
		},
		CountByAuthorFunc: func(_ context.Context, authorID int64) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return len(byAuthor(authorID)), nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.memState.posts[id]; !ok {
				return notFoundErr("forum_post", id)
			}
			delete(m.memState.posts, id)
			return nil
		},
		ListFunc: func(_ context.Context, limit, offset int) ([]domain.ForumPost, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			ids := sortedIDs(m.memState.posts)
			slices.Reverse(ids)
			return page(lo.Map(ids, func(id int64, _ int) domain.ForumPost { return m.memState.posts[id] }), limit, offset), nil
		},
	}
}

func (m *memStore) participationMock() *participationRepoMock {
	filter := func(match func(domain.Participation) bool) []domain.Participation {
		return lo.Filter(lo.Map(sortedIDs(m.parts), func(id int64, _ int) domain.Participation {
			return m.parts[id]
		}), func(p domain.Participation, _ int) bool { return match(p) })
	}

	return &participationRepoMock{
		CreateFunc: func(_ context.Context, key domain.ParticipationKey, state domain.ParticipationState) (*domain.Participation, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			if len(filter(func(p domain.Participation) bool { return p.UserID == key.UserID && p.ItemID == key.ItemID })) > 0 {
				return nil, fmt.Errorf("participation: %w", domain.ErrAlreadyExists)
			}
			now := time.Now()
			p := domain.Participation{ID: m.id(), UserID: key.UserID, ItemID: key.ItemID, State: state, CreatedAt: now, UpdatedAt: now}
			m.parts[p.ID] = p
			return &p, nil
		},
		GetFunc: func(_ context.Context, key domain.ParticipationKey) (*domain.Participation, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			rows := filter(func(p domain.Participation) bool { return p.UserID == key.UserID && p.ItemID == key.ItemID })
			if len(rows) == 0 {
				return nil, notFoundErr("participation", key)
			}
			return &rows[0], nil
		},
		GetForUpdateFunc: func(_ context.Context, key domain.ParticipationKey) (*domain.Participation, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			rows := filter(func(p domain.Participation) bool { return p.UserID == key.UserID && p.ItemID == key.ItemID })
			if len(rows) == 0 {
				return nil, notFoundErr("participation", key)
			}
			return &rows[0], nil
		},
		UpdateStateFunc: func(_ context.Context, id int64, state domain.ParticipationState) (*domain.Participation, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			p, ok := m.parts[id]
			if !ok {
				return nil, notFoundErr("participation", id)
			}
			p.State = state
			p.UpdatedAt = time.Now()
			m.parts[id] = p
			return &p, nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.parts[id]; !ok {
				return notFoundErr("participation", id)
			}
			delete(m.parts, id)
			return nil
		},
		ListByItemFunc: func(_ context.Context, itemID int64) ([]domain.Participation, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return filter(func(p domain.Participation) bool { return p.ItemID == itemID }), nil
		},
		ListByUserFunc: func(_ context.Context, userID int64) ([]domain.Participation, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return filter(func(p domain.Participation) bool { return p.UserID == userID }), nil
		},
		CountByItemFunc: func(_ context.Context, itemID int64) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return len(filter(func(p domain.Participation) bool { return p.ItemID == itemID })), nil
		},
		CountByUserFunc: func(_ context.Context, userID int64) (int, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			return len(filter(func(p domain.Participation) bool { return p.UserID == userID })), nil
		},
	}
}

func (m *memStore) auditMock() *auditRepoMock {
	return &auditRepoMock{
		AppendFunc: func(_ context.Context, entry domain.AuditEntry) (domain.AuditEntry, error) {
			if m.appendErr != nil {
				if err := m.appendErr(entry); err != nil {
					return domain.AuditEntry{}, err
				}
			}
			m.mu.Lock()
			defer m.mu.Unlock()
			entry.ID = int64(len(m.memState.audit) + 1)
			entry.OccurredAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			m.memState.audit = append(m.memState.audit, entry)
			return entry, nil
		},
		ListFunc: func(_ context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			entries := lo.Filter(m.memState.audit, func(e domain.AuditEntry, _ int) bool {
				return (f.TargetKind == "" || e.TargetKind == f.TargetKind) &&
					(f.Action == "" || e.Action == f.Action) &&
					(f.TargetID == nil || e.TargetID == *f.TargetID) &&
					(f.ActorID == nil || (e.ActorID != nil && *e.ActorID == *f.ActorID))
			})
			return page(entries, f.Limit, f.Offset), nil
		},
	}
}

// entries returns a copy of the audit log.
func (m *memStore) entries() []domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.memState.audit)
}

// seedUser inserts a user with role directly, bypassing the audit log.
func (m *memStore) seedUser(name string, role domain.Role) domain.Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.memState.users[id] = domain.User{
		ID:           id,
		Username:     name,
		Email:        strings.ToLower(name) + "@example.com",
		PasswordHash: "hashed:password1",
	}
	m.roles[id] = role
	return domain.ActorOf(id)
}

// live returns the store contents in replay form.
func (m *memStore) live() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := domain.NewSnapshot()
	for id, u := range m.memState.users {
		s.Users[id] = domain.UserSnapshot{Role: m.roles[id], Rating: u.Rating}
	}
	for id := range m.memState.items {
		s.Items[id] = true
	}
	for id := range m.memState.comments {
		s.Comments[id] = true
	}
	for id := range m.memState.posts {
		s.Posts[id] = true
	}
	for _, p := range m.parts {
		s.Participations[domain.ParticipationKey{UserID: p.UserID, ItemID: p.ItemID}] = p.State
	}
	return s
}

func sortedIDs[V any](rows map[int64]V) []int64 {
	ids := lo.Keys(rows)
	slices.Sort(ids)
	return ids
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

var testEngineConfig = config.EngineConfig{DefaultRole: "user", ListLimit: 50, MaxListLimit: 200}

// newTestService wires a Service onto store with the real role registry.
func newTestService(t *testing.T, store *memStore) *Service {
	t.Helper()
	return NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		Repos{
			Users:          store.users,
			Roles:          store.roleRepo,
			Items:          store.items,
			Comments:       store.comments,
			Posts:          store.posts,
			Participations: store.participations,
			Audit:          store.audit,
		},
		permission.NewRegistry(store),
		store.tx,
		store.hasher,
		testEngineConfig,
		config.AuthConfig{BcryptCost: 4, MinPasswordLength: 8},
	)
}

func requireReason(t testing.TB, err error, want domain.DenyReason) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil error", want)
	}
	if got := domain.ReasonOf(err); got != want {
		t.Fatalf("reason = %q, want %q (err: %v)", got, want, err)
	}
}

var errBoom = errors.New("connection reset")
