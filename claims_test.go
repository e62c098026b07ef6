package identity_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	identity "github.com/tejascare/go-identity"
)

func sampleClaims() *identity.JWTClaims {
	now := time.Now()
	return &identity.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UID:       "account-id",
		UserEmail: "member@example.com",
		Name:      "Member Person",
		UserRole:  string(identity.RoleContributor),
	}
}

func TestJWTClaimsAccessors(t *testing.T) {
	claims := sampleClaims()

	assert.Equal(t, "subject-id", claims.Subject())
	assert.Equal(t, "account-id", claims.UserID())
	assert.Equal(t, "member@example.com", claims.Email())
	assert.Equal(t, "Member Person", claims.FullName())
	assert.Equal(t, string(identity.RoleContributor), claims.Role())

	assert.False(t, claims.IssuedAt().IsZero())
	assert.True(t, claims.Expires().After(claims.IssuedAt()))
}

func TestJWTClaimsUserIDFallsBackToSubject(t *testing.T) {
	claims := sampleClaims()
	claims.UID = ""
	assert.Equal(t, "subject-id", claims.UserID())
}

func TestJWTClaimsPatientLink(t *testing.T) {
	claims := sampleClaims()

	_, ok := claims.PatientLink()
	assert.False(t, ok)

	claims.PatientID = "patient-123"
	link, ok := claims.PatientLink()
	assert.True(t, ok)
	assert.Equal(t, "patient-123", link)
}

func TestJWTClaimsCapabilities(t *testing.T) {
	claims := sampleClaims()

	assert.True(t, claims.CanViewData())
	assert.True(t, claims.CanSubmitData())
	assert.False(t, claims.CanManageUsers())

	claims.UserRole = string(identity.RoleAdmin)
	assert.True(t, claims.CanManageUsers())

	claims.UserRole = "superuser"
	assert.False(t, claims.CanViewData())
	assert.False(t, claims.CanSubmitData())
	assert.False(t, claims.CanManageUsers())
}

func TestJWTClaimsRoleChecks(t *testing.T) {
	claims := sampleClaims()

	assert.True(t, claims.HasRole("contributor"))
	assert.False(t, claims.HasRole("admin"))

	assert.True(t, claims.IsAtLeast("viewer"))
	assert.True(t, claims.IsAtLeast("contributor"))
	assert.False(t, claims.IsAtLeast("admin"))
}

func TestJWTClaimsMissingTimestamps(t *testing.T) {
	claims := &identity.JWTClaims{}
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
