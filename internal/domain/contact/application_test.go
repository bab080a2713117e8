package contact

import (
	"errors"
	"testing"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication(t *testing.T) {
	t.Run("trims fields", func(t *testing.T) {
		app, err := NewApplication(" a@b.co ", " Ann ", " hello ")
		require.NoError(t, err)
		assert.Equal(t, "a@b.co", app.Email)
		assert.Equal(t, "Ann", app.Name)
		assert.Equal(t, "hello", app.Message)
		assert.False(t, app.CreatedAt.IsZero())
	})

	t.Run("all fields are required", func(t *testing.T) {
		_, err := NewApplication(" ", "", "\t")
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Fields, 3)
	})
}
