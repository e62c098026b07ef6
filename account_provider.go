package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// AccountTracker is the slice of the credential store the login path needs.
type AccountTracker interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// AccountProvider verifies credentials against the account store. Unknown
// account, inactive account, and password mismatch are indistinguishable to
// the caller: all collapse into ErrInvalidCredentials.
type AccountProvider struct {
	store  AccountTracker
	logger Logger
}

// NewAccountProvider will create a new AccountProvider
func NewAccountProvider(store AccountTracker) *AccountProvider {
	return &AccountProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *AccountProvider) WithLogger(l Logger) *AccountProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// VerifyIdentity will find the account, compare the password, and return the
// identity. The last-login timestamp is stamped on success.
func (p *AccountProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account during verification")
	}

	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := p.store.TrackSuccessfulLogin(ctx, user); err != nil {
		p.logger.Error("failed to track successful login", "error", err)
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity by account ID or email
// without a credential check.
func (p *AccountProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := p.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if user == nil || !user.Active {
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

var _ IdentityProvider = (*AccountProvider)(nil)
