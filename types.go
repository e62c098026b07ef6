package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetEmail() string
	GetFullName() string
	GetRole() UserRole
	GetPatientLink() (string, bool)
	GetAudience() []string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetExpiration() *time.Time
	GetData() map[string]any
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*LoginSession, error)
	SessionFromToken(token string) (Session, error)
	IdentityFromSession(ctx context.Context, session Session) (Identity, error)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Email() string
	FullName() string
	Role() string
	PatientLink() (string, bool)
}

// Config holds identity options
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	GetTokenExpiration() int
	GetMinPasswordLength() int
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
