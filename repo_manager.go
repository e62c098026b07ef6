package identity

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories plus the transactional access
// the guarded account mutations require.
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Accounts() Accounts
}

type mngr struct {
	db       *bun.DB
	accounts Accounts
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:       db,
		accounts: NewAccountsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Accounts() Accounts {
	return m.accounts
}
