package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// EnsureDefaultAdmin creates a bootstrap admin when no active admin exists.
// It establishes the base case of the active-admin invariant on a fresh
// store and is a no-op afterwards. The check and insert share one
// serializable transaction so two concurrent bootstraps cannot both seed.
func EnsureDefaultAdmin(ctx context.Context, repo RepositoryManager, email, password, fullName string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash bootstrap password")
	}

	var created *User
	err = repo.RunInTx(ctx, serializableTx, func(ctx context.Context, tx bun.Tx) error {
		count, err := repo.Accounts().CountAdminsTx(ctx, tx, true)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count active admins")
		}

		if count > 0 {
			return nil
		}

		created, err = repo.Accounts().RegisterTx(ctx, tx, &User{
			Email:        email,
			FullName:     fullName,
			PasswordHash: hash,
			Role:         RoleAdmin,
			Active:       true,
		})
		return err
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}
