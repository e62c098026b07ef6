package identity

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeInvalidCredentials covers unknown account, inactive account,
	// and wrong password alike; the causes must not be distinguishable.
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeEmailTaken         = "EMAIL_TAKEN"
	TextCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	TextCodeWeakPassword       = "WEAK_PASSWORD"
	TextCodeUnauthorized       = "ADMIN_REQUIRED"
	TextCodeLastAdmin          = "LAST_ADMIN_VIOLATION"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeConfiguration      = "CONFIGURATION_ERROR"
	TextCodeInvalidRole        = "INVALID_ROLE"
)

// ErrInvalidCredentials is returned for every failed login, regardless of
// whether the account is missing, inactive, or the password did not match.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailTaken is returned when registering with an email that already
// exists; the comparison is case-insensitive.
var ErrEmailTaken = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrAccountNotFound is returned when a mutation targets a missing account.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrWeakPassword is returned when a new password is below the configured
// minimum length.
var ErrWeakPassword = goerrors.New("password does not meet the minimum length", goerrors.CategoryValidation).
	WithTextCode(TextCodeWeakPassword).
	WithCode(goerrors.CodeBadRequest)

// ErrUnauthorized is returned when the requestor of an account mutation is
// not an active admin at execution time.
var ErrUnauthorized = goerrors.New("admin privileges required", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeForbidden)

// ErrLastAdmin rejects any mutation that would leave the system without an
// active admin. Demotion, deactivation, and deletion all share this guard.
var ErrLastAdmin = goerrors.New("at least one active admin must remain", goerrors.CategoryConflict).
	WithTextCode(TextCodeLastAdmin).
	WithCode(goerrors.CodeConflict)

// ErrUnauthenticated is the single error surfaced by token verification.
// It deliberately hides which check failed.
var ErrUnauthenticated = goerrors.New("invalid authentication token", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidRole is returned when a role string is not one of the known roles.
var ErrInvalidRole = goerrors.New("unknown or invalid role", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidRole).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString rejects empty input to the password hasher
var ErrNoEmptyString = goerrors.New("value should not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the internal bcrypt mismatch error; the
// login path translates it into ErrInvalidCredentials before it escapes.
var ErrMismatchedHashAndPassword = goerrors.New("hash and password mismatch", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// HasTextCode reports whether err carries the given structured text code.
func HasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsLastAdminError reports whether err is the last-admin guard rejection.
func IsLastAdminError(err error) bool {
	return HasTextCode(err, TextCodeLastAdmin)
}

// IsInvalidCredentialsError reports whether err is a login failure.
func IsInvalidCredentialsError(err error) bool {
	return HasTextCode(err, TextCodeInvalidCredentials)
}

// IsUnauthenticatedError reports whether err came from token verification.
func IsUnauthenticatedError(err error) bool {
	return HasTextCode(err, TextCodeUnauthenticated)
}
