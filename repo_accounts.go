package identity

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var resetAccountPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = current_timestamp
WHERE
	"usr"."id" = ?
RETURNING *;`

// Accounts is the credential store contract. The Tx variants compose into
// the engine's atomic guard+mutate units; the plain variants are one-shot
// conveniences used outside guarded sections.
type Accounts interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	List(ctx context.Context) ([]*User, error)

	CountAdmins(ctx context.Context, activeOnly bool) (int, error)
	CountAdminsTx(ctx context.Context, tx bun.IDB, activeOnly bool) (int, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)

	SetRoleTx(ctx context.Context, tx bun.IDB, id uuid.UUID, role UserRole) error
	SetActiveTx(ctx context.Context, tx bun.IDB, id uuid.UUID, active bool) error
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error

	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error
}

type accounts struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)
var _ AccountTracker = (*accounts)(nil)

// NewAccountsRepository wires the bun-backed credential store.
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetByIDTx(ctx, a.db, id)
}

func (a *accounts) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

// GetByEmailTx compares emails case-insensitively; uniqueness holds across
// active and inactive accounts.
func (a *accounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("lower(?TableAlias.email) = lower(?)", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	if id, err := uuid.Parse(identifier); err == nil {
		return a.GetByID(ctx, id)
	}
	return a.GetByEmail(ctx, identifier)
}

func (a *accounts) List(ctx context.Context) ([]*User, error) {
	var records []*User
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *accounts) CountAdmins(ctx context.Context, activeOnly bool) (int, error) {
	return a.CountAdminsTx(ctx, a.db, activeOnly)
}

func (a *accounts) CountAdminsTx(ctx context.Context, tx bun.IDB, activeOnly bool) (int, error) {
	q := tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.user_role = ?", RoleAdmin)

	if activeOnly {
		q = q.Where("?TableAlias.is_active")
	}

	return q.Count(ctx)
}

func (a *accounts) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *accounts) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareAccountDefaults(user)
	return a.Repository.CreateTx(ctx, tx, user)
}

func (a *accounts) SetRoleTx(ctx context.Context, tx bun.IDB, id uuid.UUID, role UserRole) error {
	_, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("user_role = ?", role).
		Set("updated_at = current_timestamp").
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return err
}

func (a *accounts) SetActiveTx(ctx context.Context, tx bun.IDB, id uuid.UUID, active bool) error {
	_, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = current_timestamp").
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return err
}

func (a *accounts) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, resetAccountPasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}

func (a *accounts) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	return err
}

func (a *accounts) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *accounts) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	loggedInAt := time.Now()
	_, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("last_login_at = ?", loggedInAt).
		Where("?TableAlias.id = ?", user.ID).
		Exec(ctx)

	if err == nil {
		user.LastLoginAt = &loggedInAt
	}

	return err
}

func prepareAccountDefaults(record *User) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleViewer
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
}
