package identity

import (
	"testing"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with normalized email", func(t *testing.T) {
		user, err := NewUser(" Jane Doe ", "  Jane@Example.COM ", "+1 555", access.RoleSupplier)

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", user.Name)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, "+1 555", user.Phone)
		assert.False(t, user.IsAdmin())
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		_, err := NewUser("Jane", "not-an-email", "", access.RoleSupplier)
		assert.Error(t, err)
	})

	t.Run("fails with empty email", func(t *testing.T) {
		_, err := NewUser("Jane", "", "", access.RoleSupplier)
		assert.Error(t, err)
	})

	t.Run("fails with unknown role", func(t *testing.T) {
		_, err := NewUser("Jane", "jane@example.com", "", access.RoleUnknown)
		assert.Error(t, err)
	})

	t.Run("admin role", func(t *testing.T) {
		user, err := NewUser("Root", "root@example.com", "", access.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a.b+c@d.io"))
	assert.True(t, ValidEmail(" A@B.CO "))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("@b.com"))
}
