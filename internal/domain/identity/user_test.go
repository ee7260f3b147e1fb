package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("  Owner@Shop.IN ", "secret123", "Asha", RoleMerchant)
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.in", u.Email)
	assert.True(t, u.VerifyPassword("secret123"))
	assert.False(t, u.VerifyPassword("wrong"))
	assert.True(t, u.CanLogin())

	tests := []struct {
		name, email, password, display string
		role                           Role
	}{
		{"bad email", "nope", "secret123", "A", RoleShopper},
		{"short password", "a@b.in", "abc1", "A", RoleShopper},
		{"password without digit", "a@b.in", "abcdefgh", "A", RoleShopper},
		{"empty name", "a@b.in", "secret123", " ", RoleShopper},
		{"bad role", "a@b.in", "secret123", "A", Role("admin")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.password, tt.display, tt.role)
			assert.Error(t, err)
		})
	}
}

func TestUser_LoginFailureLocks(t *testing.T) {
	u, err := NewUser("a@b.in", "secret123", "A", RoleShopper)
	require.NoError(t, err)

	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.IsLocked())
	assert.False(t, u.CanLogin())

	u.RecordLoginSuccess()
	assert.False(t, u.IsLocked())
	assert.NotNil(t, u.LastLoginAt)
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser("a@b.in", "secret123", "Asha", RoleShopper)
	require.NoError(t, err)

	assert.Error(t, u.ChangePassword("wrong123", "newpass99"))
	assert.Error(t, u.ChangePassword("secret123", "short"))
	require.NoError(t, u.ChangePassword("secret123", "newpass99"))
	assert.True(t, u.VerifyPassword("newpass99"))
	assert.False(t, u.VerifyPassword("secret123"))
}

func TestUser_UpdateProfile(t *testing.T) {
	u, err := NewUser("a@b.in", "secret123", "Asha", RoleShopper)
	require.NoError(t, err)

	assert.Error(t, u.UpdateProfile("  ", ""))
	require.NoError(t, u.UpdateProfile(" Asha Rao ", " 9876543210 "))
	assert.Equal(t, "Asha Rao", u.Name)
	assert.Equal(t, "9876543210", u.Phone)
}
