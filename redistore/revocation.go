// Package redistore backs the access-token blacklist with Redis. Entries
// carry the token's remaining lifetime as their key TTL, so Redis expires
// them on its own once a blacklisted token could no longer verify anyway.
package redistore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every transport-level Redis failure.
var ErrRedisUnavailable = errors.New("redis unavailable")

const blacklistKeyPrefix = "motorauth:blacklist:"

// RevocationStore is the Redis-backed token blacklist. Tokens are keyed by
// their SHA-256 digest so raw bearer tokens never land in Redis.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore wraps an already-connected client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

func blacklistKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}

// Add blacklists accessToken for ttl. A non-positive ttl still writes the
// entry with a one-second floor so the unconditional-blacklist contract
// holds even for already-expired tokens.
func (s *RevocationStore) Add(ctx context.Context, accessToken string, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, blacklistKey(accessToken), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsBlacklisted reports whether accessToken sits on the blacklist.
func (s *RevocationStore) IsBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(accessToken)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Remove drops accessToken from the blacklist. Removing an absent entry is
// a no-op.
func (s *RevocationStore) Remove(ctx context.Context, accessToken string) error {
	if err := s.client.Del(ctx, blacklistKey(accessToken)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping reports backend liveness for health checks.
func (s *RevocationStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
