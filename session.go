package identity

import (
	"time"

	"github.com/google/uuid"
	goerrors "github.com/goliatone/go-errors"
)

var _ Session = &SessionObject{}

// SessionObject is the claim-bearing session descriptor handed to callers
// after a successful login or token verification. It is derived, never
// stored; a new login always produces a fresh one.
type SessionObject struct {
	UserID         string         `json:"user_id,omitempty"`
	Email          string         `json:"email,omitempty"`
	FullName       string         `json:"full_name,omitempty"`
	Role           UserRole       `json:"role,omitempty"`
	PatientID      string         `json:"patient_id,omitempty"`
	Audience       []string       `json:"audience,omitempty"`
	Issuer         string         `json:"issuer,omitempty"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	ExpirationDate *time.Time     `json:"expiration_date,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetEmail() string {
	return s.Email
}

func (s *SessionObject) GetFullName() string {
	return s.FullName
}

func (s *SessionObject) GetRole() UserRole {
	return s.Role
}

func (s *SessionObject) GetPatientLink() (string, bool) {
	if s.PatientID == "" {
		return "", false
	}
	return s.PatientID, true
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetExpiration() *time.Time {
	return s.ExpirationDate
}

func (s *SessionObject) GetData() map[string]any {
	return s.Data
}

// Capabilities resolves the permitted actions for the session's role.
func (s *SessionObject) Capabilities() Capabilities {
	return RoleCapabilities(s.Role)
}

// sessionFromAuthClaims converts a verified claim set into a SessionObject.
func sessionFromAuthClaims(claims AuthClaims) (*SessionObject, error) {
	if claims == nil {
		return nil, goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	session := &SessionObject{
		UserID:   claims.UserID(),
		Email:    claims.Email(),
		FullName: claims.FullName(),
		Role:     UserRole(claims.Role()),
	}

	if link, ok := claims.PatientLink(); ok {
		session.PatientID = link
	}

	if issuedAt := claims.IssuedAt(); !issuedAt.IsZero() {
		session.IssuedAt = &issuedAt
	}

	if expires := claims.Expires(); !expires.IsZero() {
		session.ExpirationDate = &expires
	}

	if jc, ok := claims.(*JWTClaims); ok {
		session.Issuer = jc.RegisteredClaims.Issuer
		session.Audience = jc.RegisteredClaims.Audience
	}

	return session, nil
}
