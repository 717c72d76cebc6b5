package redistore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationStore(client), mr
}

func TestAddAndIsBlacklisted(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.IsBlacklisted(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if ok {
		t.Fatalf("fresh token must not be blacklisted")
	}

	if err := store.Add(ctx, "token-a", 15*time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ok, err = store.IsBlacklisted(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if !ok {
		t.Fatalf("token should be blacklisted after Add")
	}

	// Other tokens are unaffected.
	if ok, _ := store.IsBlacklisted(ctx, "token-b"); ok {
		t.Fatalf("unrelated token reported blacklisted")
	}
}

func TestEntryExpiresWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "token-a", time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	ok, err := store.IsBlacklisted(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if ok {
		t.Fatalf("entry should expire with its TTL")
	}
}

func TestNonPositiveTTLStillWrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "stale-token", 0); err != nil {
		t.Fatalf("Add with zero TTL: %v", err)
	}
	ok, err := store.IsBlacklisted(ctx, "stale-token")
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if !ok {
		t.Fatalf("zero-TTL add must still blacklist the token briefly")
	}
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, "token-a", time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Remove(ctx, "token-a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok, _ := store.IsBlacklisted(ctx, "token-a"); ok {
		t.Fatalf("token should be gone after Remove")
	}

	// Removing an absent entry is fine.
	if err := store.Remove(ctx, "never-added"); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
}

func TestRedisDownWrapsError(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Close()

	if err := store.Add(ctx, "token-a", time.Minute); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("Add: got %v, want ErrRedisUnavailable", err)
	}
	if _, err := store.IsBlacklisted(ctx, "token-a"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("IsBlacklisted: got %v, want ErrRedisUnavailable", err)
	}
	if err := store.Ping(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("Ping: got %v, want ErrRedisUnavailable", err)
	}
}
