package identity

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Guarded mutations re-read role/active state and admin counts inside a
// serializable transaction; a cached claim or a count taken before the lock
// must never decide an invariant.
var serializableTx = &sql.TxOptions{Isolation: sql.LevelSerializable}

// AccountManager executes account mutations against the credential store
// while preserving the invariant that at least one active admin exists.
type AccountManager struct {
	repo         RepositoryManager
	cfg          Config
	auth         Authenticator
	logger       Logger
	activitySink ActivitySink
}

// NewAccountManager wires the engine plus the login path on top of the
// provided repositories.
func NewAccountManager(repo RepositoryManager, cfg Config) *AccountManager {
	provider := NewAccountProvider(repo.Accounts())

	return &AccountManager{
		repo:         repo,
		cfg:          cfg,
		auth:         NewAuthenticator(provider, cfg),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (m *AccountManager) WithLogger(logger Logger) *AccountManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithActivitySink configures the audit sink for account mutations.
func (m *AccountManager) WithActivitySink(sink ActivitySink) *AccountManager {
	m.activitySink = normalizeActivitySink(sink)
	return m
}

// WithAuthenticator overrides the login path, e.g. to add a custom token
// validator.
func (m *AccountManager) WithAuthenticator(auth Authenticator) *AccountManager {
	if auth != nil {
		m.auth = auth
	}
	return m
}

// Authenticator exposes the login/token surface backed by the same store.
func (m *AccountManager) Authenticator() Authenticator {
	return m.auth
}

// Authenticate verifies credentials and mints a fresh session. Unknown
// account, inactive account, and wrong password are indistinguishable.
func (m *AccountManager) Authenticate(ctx context.Context, email, password string) (*LoginSession, error) {
	return m.auth.Login(ctx, email, password)
}

// VerifyToken validates a bearer token and returns its session descriptor.
func (m *AccountManager) VerifyToken(token string) (Session, error) {
	return m.auth.SessionFromToken(token)
}

// Register creates a new active account. The email must be unused, compared
// case-insensitively against every account regardless of active flag.
func (m *AccountManager) Register(ctx context.Context, msg RegisterAccountMessage) (*User, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	if len(msg.Password) < m.cfg.GetMinPasswordLength() {
		return nil, ErrWeakPassword
	}

	user, err := msg.toUser()
	if err != nil {
		return nil, err
	}

	hash, err := HashPassword(msg.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	user.PasswordHash = hash

	err = m.repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		existing, err := m.repo.Accounts().GetByEmailTx(ctx, tx, msg.Email)
		if err != nil && !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}
		if existing != nil {
			return ErrEmailTaken
		}

		user, err = m.repo.Accounts().RegisterTx(ctx, tx, user)
		return err
	})

	if err != nil {
		return nil, err
	}

	m.emitEvent(ctx, ActivityEventAccountRegistered, ActorRef{Type: "system"}, user.ID.String(), map[string]any{
		"email": user.Email,
		"role":  string(user.Role),
	})

	return user, nil
}

// ChangePassword replaces the account's password hash after verifying the
// current password.
func (m *AccountManager) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	err := m.repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		user, err := m.getAccountTx(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if err := ComparePasswordAndHash(currentPassword, user.PasswordHash); err != nil {
			return ErrInvalidCredentials
		}

		if len(newPassword) < m.cfg.GetMinPasswordLength() {
			return ErrWeakPassword
		}

		hash, err := HashPassword(newPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		return m.repo.Accounts().ResetPasswordTx(ctx, tx, accountID, hash)
	})

	if err != nil {
		return err
	}

	m.emitEvent(ctx, ActivityEventPasswordChanged, ActorRef{ID: accountID.String(), Type: "user"}, accountID.String(), nil)

	return nil
}

// AdminResetPassword replaces the password hash without a current-password
// check. The caller's admin privilege is assumed already verified by the
// boundary layer.
func (m *AccountManager) AdminResetPassword(ctx context.Context, targetID uuid.UUID, newPassword string) error {
	err := m.repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := m.getAccountTx(ctx, tx, targetID); err != nil {
			return err
		}

		if len(newPassword) < m.cfg.GetMinPasswordLength() {
			return ErrWeakPassword
		}

		hash, err := HashPassword(newPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		return m.repo.Accounts().ResetPasswordTx(ctx, tx, targetID, hash)
	})

	if err != nil {
		return err
	}

	m.emitEvent(ctx, ActivityEventPasswordReset, ActorRef{Type: "admin"}, targetID.String(), nil)

	return nil
}

// ChangeRole sets the target's role. Demoting an admin requires at least one
// other active admin to remain.
func (m *AccountManager) ChangeRole(ctx context.Context, requestorID, targetID uuid.UUID, newRole UserRole) (*User, error) {
	if !newRole.IsValid() {
		return nil, ErrInvalidRole
	}

	var target *User
	err := m.repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		if err := m.requireActiveAdminTx(ctx, tx, requestorID); err != nil {
			return err
		}

		var err error
		if target, err = m.getAccountTx(ctx, tx, targetID); err != nil {
			return err
		}

		if target.Role == RoleAdmin && newRole != RoleAdmin {
			count, err := m.repo.Accounts().CountAdminsTx(ctx, tx, true)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count active admins")
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}

		if err := m.repo.Accounts().SetRoleTx(ctx, tx, targetID, newRole); err != nil {
			return err
		}

		target.Role = newRole
		return nil
	})

	if err != nil {
		return nil, err
	}

	m.emitEvent(ctx, ActivityEventRoleChanged, ActorRef{ID: requestorID.String(), Type: "admin"}, targetID.String(), map[string]any{
		"role": string(newRole),
	})

	return target, nil
}

// ToggleActive flips the target's active flag. Deactivating the last active
// admin is rejected.
func (m *AccountManager) ToggleActive(ctx context.Context, requestorID, targetID uuid.UUID) (*User, error) {
	var target *User
	err := m.repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		if err := m.requireActiveAdminTx(ctx, tx, requestorID); err != nil {
			return err
		}

		var err error
		if target, err = m.getAccountTx(ctx, tx, targetID); err != nil {
			return err
		}

		if target.IsActiveAdmin() {
			count, err := m.repo.Accounts().CountAdminsTx(ctx, tx, true)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count active admins")
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}

		if err := m.repo.Accounts().SetActiveTx(ctx, tx, targetID, !target.Active); err != nil {
			return err
		}

		target.Active = !target.Active
		return nil
	})

	if err != nil {
		return nil, err
	}

	m.emitEvent(ctx, ActivityEventActiveToggled, ActorRef{ID: requestorID.String(), Type: "admin"}, targetID.String(), map[string]any{
		"active": target.Active,
	})

	return target, nil
}

// Delete removes the account permanently. Deletion is irreversible, so the
// guard is stricter than deactivation: the last admin cannot be deleted even
// while inactive.
func (m *AccountManager) Delete(ctx context.Context, requestorID, targetID uuid.UUID) error {
	err := m.repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		if err := m.requireActiveAdminTx(ctx, tx, requestorID); err != nil {
			return err
		}

		target, err := m.getAccountTx(ctx, tx, targetID)
		if err != nil {
			return err
		}

		if target.IsAdmin() {
			count, err := m.repo.Accounts().CountAdminsTx(ctx, tx, false)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count admins")
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}

		return m.repo.Accounts().DeleteByIDTx(ctx, tx, targetID)
	})

	if err != nil {
		return err
	}

	m.emitEvent(ctx, ActivityEventAccountDeleted, ActorRef{ID: requestorID.String(), Type: "admin"}, targetID.String(), nil)

	return nil
}

// GetAccount returns a single account by ID.
func (m *AccountManager) GetAccount(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := m.repo.Accounts().GetByID(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListAccounts returns every account, newest first.
func (m *AccountManager) ListAccounts(ctx context.Context) ([]*User, error) {
	return m.repo.Accounts().List(ctx)
}

func (m *AccountManager) getAccountTx(ctx context.Context, tx bun.Tx, id uuid.UUID) (*User, error) {
	user, err := m.repo.Accounts().GetByIDTx(ctx, tx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

// requireActiveAdminTx re-checks the requestor against the current store
// state; a stale role snapshot from a token never authorizes a mutation.
func (m *AccountManager) requireActiveAdminTx(ctx context.Context, tx bun.Tx, requestorID uuid.UUID) error {
	requestor, err := m.repo.Accounts().GetByIDTx(ctx, tx, requestorID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUnauthorized
		}
		return err
	}

	if !requestor.IsActiveAdmin() {
		return ErrUnauthorized
	}

	return nil
}

func (m *AccountManager) emitEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, accountID string, metadata map[string]any) {
	sink := normalizeActivitySink(m.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		AccountID: accountID,
		Metadata:  metadata,
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink record error: %v", err)
	}
}
