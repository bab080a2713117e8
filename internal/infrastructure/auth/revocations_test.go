package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type revocationStore interface {
	RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID int64, issuedAt time.Time) (bool, error)
}

// exerciseStore runs the behaviour both stores share
func exerciseStore(t *testing.T, store revocationStore) {
	ctx := context.Background()

	t.Run("user", func(t *testing.T) {
		before := time.Now().Add(-time.Hour)

		revoked, err := store.IsUserRevoked(ctx, 7, before)
		require.NoError(t, err)
		assert.False(t, revoked, "no sign-out yet")

		require.NoError(t, store.RevokeUser(ctx, 7, time.Hour))

		revoked, err = store.IsUserRevoked(ctx, 7, before)
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = store.IsUserRevoked(ctx, 7, time.Now().Add(2*time.Second))
		require.NoError(t, err)
		assert.False(t, revoked, "tokens from a later sign-in stay valid")

		revoked, err = store.IsUserRevoked(ctx, 8, before)
		require.NoError(t, err)
		assert.False(t, revoked, "other users are unaffected")
	})
}

func TestMemoryRevocations(t *testing.T) {
	exerciseStore(t, NewMemoryRevocations())
}

func TestMemoryRevocations_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	store := NewMemoryRevocations()
	store.now = func() time.Time { return clock }

	require.NoError(t, store.RevokeUser(ctx, 7, time.Minute))
	require.NoError(t, store.RevokeUser(ctx, 8, 0))

	clock = clock.Add(2 * time.Minute)

	revoked, _ := store.IsUserRevoked(ctx, 7, clock.Add(-time.Hour))
	assert.False(t, revoked)
	revoked, _ = store.IsUserRevoked(ctx, 8, clock.Add(-time.Hour))
	assert.True(t, revoked, "zero ttl never expires")

	require.NoError(t, store.RevokeUser(ctx, 9, time.Minute))
	assert.NotContains(t, store.users, int64(7))
	assert.Contains(t, store.users, int64(8))
}

func TestRedisRevocations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocations(client)
	exerciseStore(t, store)

	ttl, err := client.TTL(ctx, store.userKey(7)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}
