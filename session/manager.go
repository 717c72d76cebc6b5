package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Manager enforces the session lifecycle invariants: the per-user
// concurrent cap, the active predicate, idempotent revocation, and the
// expired-row reaper. All persistence goes through the injected Store.
type Manager struct {
	store      Store
	ttl        time.Duration
	maxPerUser int
}

// NewManager wires a Manager. ttl is the absolute session lifetime.
// maxPerUser <= 0 disables the concurrent-session cap.
func NewManager(store Store, ttl time.Duration, maxPerUser int) *Manager {
	return &Manager{store: store, ttl: ttl, maxPerUser: maxPerUser}
}

// Create evicts over-cap sessions and persists a new session row. Eviction
// happens strictly before the insert, so the post-insert active count never
// exceeds the cap. When several sessions qualify, the oldest by creation
// time go first; ties keep the store's reported order (stable sort), which
// makes repeated runs reproducible for identical input ordering.
func (m *Manager) Create(ctx context.Context, userID, refreshToken string, device DeviceInfo, ipAddress string) (*Session, error) {
	if m.maxPerUser > 0 {
		if err := m.evictOverCap(ctx, userID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		RefreshToken:   refreshToken,
		Device:         device,
		IPAddress:      ipAddress,
		ExpiresAt:      now.Add(m.ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (m *Manager) evictOverCap(ctx context.Context, userID string) error {
	active, err := m.store.FindActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list active sessions: %w", err)
	}
	if len(active) < m.maxPerUser {
		return nil
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	// Leave max-1 active so the row about to be inserted lands exactly at
	// the cap.
	evict := len(active) - (m.maxPerUser - 1)
	now := time.Now().UTC()
	for _, victim := range active[:evict] {
		if err := m.store.Revoke(ctx, victim.ID, now); err != nil {
			return fmt.Errorf("evict session %s: %w", victim.ID, err)
		}
		slog.Info("evicted session over concurrent cap",
			"session_id", victim.ID,
			"user_id", userID,
			"created_at", victim.CreatedAt,
		)
	}
	return nil
}

// Validate resolves a refresh token to its session. Missing, revoked, and
// expired sessions all collapse to ErrNotFound; callers that need to
// distinguish the cause use Lookup and inspect the session state.
func (m *Manager) Validate(ctx context.Context, refreshToken string) (*Session, error) {
	sess, err := m.Lookup(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !sess.Active(time.Now()) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Lookup fetches the session keyed by refreshToken regardless of its
// revocation or expiry state. ErrNotFound only when no row exists.
func (m *Manager) Lookup(ctx context.Context, refreshToken string) (*Session, error) {
	sess, err := m.store.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if sess == nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// ListActive returns the user's active sessions, newest-created first.
func (m *Manager) ListActive(ctx context.Context, userID string) ([]*Session, error) {
	sessions, err := m.store.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	return sessions, nil
}

// Revoke marks one session revoked. Revoking an already-revoked session is
// a no-op, not an error.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if err := m.store.Revoke(ctx, sessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAll marks every active session of the user revoked.
func (m *Manager) RevokeAll(ctx context.Context, userID string) error {
	if err := m.store.RevokeAllForUser(ctx, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke all sessions: %w", err)
	}
	return nil
}

// Touch updates the session's last-activity timestamp. It never extends
// the expiry; there is no sliding expiration.
func (m *Manager) Touch(ctx context.Context, sessionID string) error {
	if err := m.store.UpdateLastActivity(ctx, sessionID, time.Now().UTC()); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// ReapExpired deletes every session whose expiry has passed, revoked or
// not, and returns the number of rows removed. Intended to run on a
// periodic background trigger.
func (m *Manager) ReapExpired(ctx context.Context) (int64, error) {
	n, err := m.store.CleanupExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", err)
	}
	return n, nil
}
