package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoking a user rejects every token issued at or before the revocation
// second. The record's TTL matches the longest token lifetime, after which
// those tokens have expired on their own.

// RedisRevocations shares revocations between instances through Redis
type RedisRevocations struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisRevocations stores revocations on an existing client
func NewRedisRevocations(client redis.UniversalClient) *RedisRevocations {
	return &RedisRevocations{client: client, prefix: "eightysix:revoked:", now: time.Now}
}

func (r *RedisRevocations) userKey(userID int64) string {
	return r.prefix + "user:" + strconv.FormatInt(userID, 10)
}

// RevokeUser records the sign-out second of userID
func (r *RedisRevocations) RevokeUser(ctx context.Context, userID int64, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.userKey(userID), r.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked reports whether a token issued at issuedAt predates the
// user's last sign-out
func (r *RedisRevocations) IsUserRevoked(ctx context.Context, userID int64, issuedAt time.Time) (bool, error) {
	since, err := r.client.Get(ctx, r.userKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check user revocation: %w", err)
	}
	return issuedAt.Unix() <= since, nil
}

// MemoryRevocations keeps revocations in this process only. It serves
// single-instance deployments running without Redis.
type MemoryRevocations struct {
	mu    sync.Mutex
	now   func() time.Time
	users map[int64]userRevocation
}

type userRevocation struct {
	since   int64
	expires time.Time // zero never expires
}

// NewMemoryRevocations creates an empty in-process store
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		now:   time.Now,
		users: make(map[int64]userRevocation),
	}
}

// RevokeUser records the sign-out second of userID. A non-positive ttl keeps
// the record for the life of the process.
func (m *MemoryRevocations) RevokeUser(_ context.Context, userID int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	rec := userRevocation{since: now.Unix()}
	if ttl > 0 {
		rec.expires = now.Add(ttl)
	}
	m.users[userID] = rec
	return nil
}

// IsUserRevoked reports whether a token issued at issuedAt predates the
// user's last sign-out
func (m *MemoryRevocations) IsUserRevoked(_ context.Context, userID int64, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.users[userID]
	if !ok || (!rec.expires.IsZero() && !m.now().Before(rec.expires)) {
		return false, nil
	}
	return issuedAt.Unix() <= rec.since, nil
}

// sweep drops expired records; callers hold mu
func (m *MemoryRevocations) sweep(now time.Time) {
	for id, rec := range m.users {
		if !rec.expires.IsZero() && !now.Before(rec.expires) {
			delete(m.users, id)
		}
	}
}
