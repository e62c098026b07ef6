package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents the trusted claim set extracted from a verified token
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	FullName() string
	Role() string
	PatientLink() (string, bool)
	CanViewData() bool
	CanSubmitData() bool
	CanManageUsers() bool
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string `json:"uid,omitempty"`
	UserEmail string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	UserRole  string `json:"role,omitempty"`
	PatientID string `json:"patient_id,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the account ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the account email
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// FullName returns the account display name
func (c *JWTClaims) FullName() string {
	return c.Name
}

// Role returns the account role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// PatientLink returns the linked patient record, present only for
// portal-style viewer accounts.
func (c *JWTClaims) PatientLink() (string, bool) {
	if c.PatientID == "" {
		return "", false
	}
	return c.PatientID, true
}

// CanViewData checks if the claim holder may read patient data
func (c *JWTClaims) CanViewData() bool {
	return UserRole(c.UserRole).CanViewData()
}

// CanSubmitData checks if the claim holder may submit patient data
func (c *JWTClaims) CanSubmitData() bool {
	return UserRole(c.UserRole).CanSubmitData()
}

// CanManageUsers checks if the claim holder may administer accounts
func (c *JWTClaims) CanManageUsers() bool {
	return UserRole(c.UserRole).CanManageUsers()
}

// HasRole checks if the claim holder has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the claim holder's role is at least the minimum required role
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	return UserRole(c.UserRole).IsAtLeast(UserRole(minRole))
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(rc *jwt.RegisteredClaims) {
	if rc.ID == "" {
		rc.ID = uuid.NewString()
	}
}
