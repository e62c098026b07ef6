package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the account's role
type UserRole string

const (
	// RoleViewer can only see its own patient record
	RoleViewer UserRole = "viewer"
	// RoleContributor can view all records and submit data
	RoleContributor UserRole = "contributor"
	// RoleAdmin can additionally manage accounts
	RoleAdmin UserRole = "admin"
)

// User is the account model. Email uniqueness is case-insensitive and holds
// across active and inactive accounts alike.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName      string     `bun:"full_name,notnull" json:"full_name,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"password_hash,omitempty"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Active        bool       `bun:"is_active" json:"is_active"`
	PatientID     *uuid.UUID `bun:"patient_id,nullzero,type:uuid" json:"patient_id,omitempty"`
	LastLoginAt   *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsAdmin reports whether the account holds the admin role, active or not.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsActiveAdmin reports whether the account counts toward the active-admin
// invariant.
func (u *User) IsActiveAdmin() bool {
	return u.IsAdmin() && u.Active
}

// PatientLink returns the linked patient record, if any.
func (u *User) PatientLink() (string, bool) {
	if u == nil || u.PatientID == nil {
		return "", false
	}
	return u.PatientID.String(), true
}
