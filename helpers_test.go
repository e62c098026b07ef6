package identity_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	identity "github.com/tejascare/go-identity"
)

const testPassword = "secret-pass-123"

var (
	testHashOnce sync.Once
	testHash     string
)

// testPasswordHash hashes testPassword once per test binary; bcrypt at the
// production cost is too slow to rehash per test case.
func testPasswordHash() string {
	testHashOnce.Do(func() {
		hash, err := identity.HashPassword(testPassword)
		if err != nil {
			panic(err)
		}
		testHash = hash
	})
	return testHash
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func nowStamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func testConfig() identity.Options {
	return identity.Options{
		SigningKey: "test-signing-key",
		Issuer:     "tejascare",
		Audience:   []string{"tejascare-app"},
	}
}

func mkAccount(email string, role identity.UserRole, active bool) *identity.User {
	now := nowStamp()
	return &identity.User{
		ID:           uuid.New(),
		Email:        email,
		FullName:     "Test " + email,
		PasswordHash: testPasswordHash(),
		Role:         role,
		Active:       active,
		CreatedAt:    &now,
	}
}

func mkAdmin(email string) *identity.User {
	return mkAccount(email, identity.RoleAdmin, true)
}
