package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	identity "github.com/tejascare/go-identity"
)

func TestRegisterAccountMessageValidate(t *testing.T) {
	valid := identity.RegisterAccountMessage{
		Email:    "new@example.com",
		FullName: "New Person",
		Password: testPassword,
		Role:     string(identity.RoleContributor),
	}
	assert.NoError(t, valid.Validate())

	tests := map[string]identity.RegisterAccountMessage{
		"missing email":  {FullName: "X", Password: testPassword},
		"invalid email":  {Email: "nope", FullName: "X", Password: testPassword},
		"missing name":   {Email: "new@example.com", Password: testPassword},
		"empty password": {Email: "new@example.com", FullName: "X"},
		"unknown role":   {Email: "new@example.com", FullName: "X", Password: testPassword, Role: "superuser"},
	}

	for name, msg := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, msg.Validate())
		})
	}
}

func TestRegisterAccountMessageType(t *testing.T) {
	assert.Equal(t, "account.register", identity.RegisterAccountMessage{}.Type())
	assert.Equal(t, "account.password.admin_reset", identity.AdminResetPasswordMessage{}.Type())
}

func TestRegisterAccountHandler(t *testing.T) {
	manager, repo := newManager()
	handler := identity.NewRegisterAccountHandler(manager)

	msg := identity.RegisterAccountMessage{
		Email:    "new@example.com",
		FullName: "New Person",
		Password: testPassword,
	}

	t.Run("executes registration", func(t *testing.T) {
		err := handler.Execute(context.Background(), msg)
		require.NoError(t, err)

		stored, err := repo.Accounts().GetByEmail(context.Background(), "new@example.com")
		require.NoError(t, err)
		assert.Equal(t, identity.RoleViewer, stored.Role)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := handler.Execute(ctx, msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancelled")
	})
}

func TestRegisterAccountHashidProvisioning(t *testing.T) {
	ctx := context.Background()

	managerA, _ := newManager()
	managerB, _ := newManager()

	msg := identity.RegisterAccountMessage{
		Email:     "bulk@example.com",
		FullName:  "Bulk Provisioned",
		Password:  testPassword,
		UseHashid: true,
	}

	userA, err := managerA.Register(ctx, msg)
	require.NoError(t, err)
	userB, err := managerB.Register(ctx, msg)
	require.NoError(t, err)

	// the account ID is derived from the email, so provisioning the same
	// email on two stores yields the same ID
	assert.NotEqual(t, uuid.Nil, userA.ID)
	assert.Equal(t, userA.ID, userB.ID)
}

func TestAdminResetPasswordHandler(t *testing.T) {
	user := mkAccount("member@example.com", identity.RoleViewer, true)
	manager, repo := newManager(user)
	handler := identity.NewAdminResetPasswordHandler(manager)

	t.Run("resets the password", func(t *testing.T) {
		err := handler.Execute(context.Background(), identity.AdminResetPasswordMessage{
			TargetID:    user.ID.String(),
			NewPassword: "fresh-password-1",
		})
		require.NoError(t, err)

		stored, err := repo.Accounts().GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.NoError(t, identity.ComparePasswordAndHash("fresh-password-1", stored.PasswordHash))
	})

	t.Run("rejects malformed target id", func(t *testing.T) {
		err := handler.Execute(context.Background(), identity.AdminResetPasswordMessage{
			TargetID:    "not-a-uuid",
			NewPassword: "fresh-password-1",
		})
		assert.Error(t, err)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		err := handler.Execute(context.Background(), identity.AdminResetPasswordMessage{
			TargetID: user.ID.String(),
		})
		assert.Error(t, err)
	})
}
