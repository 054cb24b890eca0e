package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{" Admin ", RoleAdmin},
		{"CUSTOMER", RoleCustomer},
		{"customer", RoleCustomer},
		{"", RoleCustomer},
		{"superuser", RoleCustomer},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRole(tt.raw), "raw=%q", tt.raw)
	}
}

func TestNewPrincipal(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id := uuid.New()
		p, err := NewPrincipal(id, "user@example.com", "admin", true)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, p.Role)
		assert.True(t, p.IsAdmin())
	})

	t.Run("nil user id rejected", func(t *testing.T) {
		_, err := NewPrincipal(uuid.Nil, "user@example.com", "customer", true)
		assert.Error(t, err)
	})
}

func TestPrincipalCanAccessResource(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	customer, err := NewPrincipal(owner, "c@example.com", "customer", true)
	require.NoError(t, err)
	admin, err := NewPrincipal(other, "a@example.com", "admin", true)
	require.NoError(t, err)

	assert.True(t, customer.CanAccessResource(owner))
	assert.False(t, customer.CanAccessResource(other))
	assert.True(t, admin.CanAccessResource(owner))
}
