package identity_test

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	identity "github.com/tejascare/go-identity"
	"github.com/uptrace/bun"
)

// fakeStore is an in-memory credential store. RunInTx holds the store lock
// for the whole callback, which gives the guard+mutate sequences the same
// serializable semantics the bun-backed manager gets from the database.
type fakeStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func newFakeStore(users ...*identity.User) *fakeStore {
	s := &fakeStore{users: map[uuid.UUID]*identity.User{}}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		s.users[u.ID] = cloneUser(u)
	}
	return s
}

func cloneUser(u *identity.User) *identity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type fakeAccounts struct {
	store *fakeStore
}

var _ identity.Accounts = (*fakeAccounts)(nil)

func (a *fakeAccounts) GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.GetByIDTx(ctx, nil, id)
}

func (a *fakeAccounts) GetByIDTx(_ context.Context, _ bun.IDB, id uuid.UUID) (*identity.User, error) {
	if u, ok := a.store.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"id": id.String()})
}

func (a *fakeAccounts) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.GetByEmailTx(ctx, nil, email)
}

func (a *fakeAccounts) GetByEmailTx(_ context.Context, _ bun.IDB, email string) (*identity.User, error) {
	for _, u := range a.store.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{"email": email})
}

func (a *fakeAccounts) GetByIdentifier(ctx context.Context, identifier string) (*identity.User, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		return a.GetByID(ctx, id)
	}
	return a.GetByEmail(ctx, identifier)
}

func (a *fakeAccounts) List(_ context.Context) ([]*identity.User, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	records := make([]*identity.User, 0, len(a.store.users))
	for _, u := range a.store.users {
		records = append(records, cloneUser(u))
	}
	sort.Slice(records, func(i, j int) bool {
		var ti, tj int64
		if records[i].CreatedAt != nil {
			ti = records[i].CreatedAt.UnixNano()
		}
		if records[j].CreatedAt != nil {
			tj = records[j].CreatedAt.UnixNano()
		}
		return ti > tj
	})
	return records, nil
}

func (a *fakeAccounts) CountAdmins(ctx context.Context, activeOnly bool) (int, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.CountAdminsTx(ctx, nil, activeOnly)
}

func (a *fakeAccounts) CountAdminsTx(_ context.Context, _ bun.IDB, activeOnly bool) (int, error) {
	count := 0
	for _, u := range a.store.users {
		if u.Role != identity.RoleAdmin {
			continue
		}
		if activeOnly && !u.Active {
			continue
		}
		count++
	}
	return count, nil
}

func (a *fakeAccounts) Register(ctx context.Context, user *identity.User) (*identity.User, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.RegisterTx(ctx, nil, user)
}

func (a *fakeAccounts) RegisterTx(_ context.Context, _ bun.IDB, user *identity.User) (*identity.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = identity.RoleViewer
	}
	if user.CreatedAt == nil {
		now := nowStamp()
		user.CreatedAt = &now
	}
	a.store.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (a *fakeAccounts) SetRoleTx(_ context.Context, _ bun.IDB, id uuid.UUID, role identity.UserRole) error {
	u, ok := a.store.users[id]
	if !ok {
		return repository.NewRecordNotFound()
	}
	u.Role = role
	return nil
}

func (a *fakeAccounts) SetActiveTx(_ context.Context, _ bun.IDB, id uuid.UUID, active bool) error {
	u, ok := a.store.users[id]
	if !ok {
		return repository.NewRecordNotFound()
	}
	u.Active = active
	return nil
}

func (a *fakeAccounts) ResetPasswordTx(_ context.Context, _ bun.IDB, id uuid.UUID, passwordHash string) error {
	u, ok := a.store.users[id]
	if !ok {
		return repository.NewRecordNotFound()
	}
	u.PasswordHash = passwordHash
	return nil
}

func (a *fakeAccounts) DeleteByIDTx(_ context.Context, _ bun.IDB, id uuid.UUID) error {
	delete(a.store.users, id)
	return nil
}

func (a *fakeAccounts) TrackSuccessfulLogin(ctx context.Context, user *identity.User) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return a.TrackSuccessfulLoginTx(ctx, nil, user)
}

func (a *fakeAccounts) TrackSuccessfulLoginTx(_ context.Context, _ bun.IDB, user *identity.User) error {
	u, ok := a.store.users[user.ID]
	if !ok {
		return repository.NewRecordNotFound()
	}
	now := nowStamp()
	u.LastLoginAt = &now
	user.LastLoginAt = &now
	return nil
}

type fakeRepoManager struct {
	store    *fakeStore
	accounts *fakeAccounts
}

var _ identity.RepositoryManager = (*fakeRepoManager)(nil)

func newFakeRepoManager(users ...*identity.User) *fakeRepoManager {
	store := newFakeStore(users...)
	return &fakeRepoManager{
		store:    store,
		accounts: &fakeAccounts{store: store},
	}
}

func (m *fakeRepoManager) Validate() error { return nil }

func (m *fakeRepoManager) MustValidate() {}

func (m *fakeRepoManager) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return f(ctx, bun.Tx{})
}

func (m *fakeRepoManager) Accounts() identity.Accounts {
	return m.accounts
}

// MockIdentityProvider implements identity.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (identity.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(identity.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (identity.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(identity.Identity), args.Error(1)
}

// recordingSink captures activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []identity.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event identity.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []identity.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]identity.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}
