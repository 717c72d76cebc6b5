package motorauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sr198/motorghar-auth/password"
	"github.com/sr198/motorghar-auth/session"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*User

	updateLastLoginCalls int
	updatePasswordCalls  int
	lastLoginErr         error
}

func newFakeUserStore(users ...*User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateLastLoginCalls++
	if s.lastLoginErr != nil {
		return s.lastLoginErr
	}
	if u, ok := s.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatePasswordCalls++
	if u, ok := s.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (s *fakeUserStore) IsActive(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return false, nil
	}
	return u.IsActive, nil
}

func (s *fakeUserStore) GetRole(_ context.Context, id string) (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return "", nil
	}
	return u.Role, nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions []*session.Session
}

func (s *fakeSessionStore) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.RefreshToken == sess.RefreshToken {
			return errors.New("duplicate refresh token")
		}
	}
	cp := *sess
	s.sessions = append(s.sessions, &cp)
	return nil
}

func (s *fakeSessionStore) FindByRefreshToken(_ context.Context, refreshToken string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.RefreshToken == refreshToken {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeSessionStore) FindActiveByUser(_ context.Context, userID string) ([]*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	var out []*session.Session
	for i := len(s.sessions) - 1; i >= 0; i-- {
		sess := s.sessions[i]
		if sess.UserID == userID && sess.Active(now) {
			cp := *sess
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeSessionStore) Revoke(_ context.Context, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == sessionID && sess.RevokedAt == nil {
			t := at
			sess.RevokedAt = &t
		}
	}
	return nil
}

func (s *fakeSessionStore) RevokeAllForUser(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.RevokedAt == nil {
			t := at
			sess.RevokedAt = &t
		}
	}
	return nil
}

func (s *fakeSessionStore) UpdateLastActivity(_ context.Context, sessionID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == sessionID {
			sess.LastActivityAt = at
		}
	}
	return nil
}

func (s *fakeSessionStore) CleanupExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []*session.Session
	var n int64
	for _, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			n++
			continue
		}
		kept = append(kept, sess)
	}
	s.sessions = kept
	return n, nil
}

func (s *fakeSessionStore) get(refreshToken string) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.RefreshToken == refreshToken {
			return sess
		}
	}
	return nil
}

func (s *fakeSessionStore) expire(refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.RefreshToken == refreshToken {
			sess.ExpiresAt = time.Now().Add(-time.Minute)
		}
	}
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Duration

	addErr error
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{entries: make(map[string]time.Duration)}
}

func (s *fakeRevocationStore) Add(_ context.Context, accessToken string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	s.entries[accessToken] = ttl
	return nil
}

func (s *fakeRevocationStore) IsBlacklisted(_ context.Context, accessToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[accessToken]
	return ok, nil
}

func (s *fakeRevocationStore) Remove(_ context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, accessToken)
	return nil
}

type testFixture struct {
	engine     *Engine
	users      *fakeUserStore
	sessions   *fakeSessionStore
	revocation *fakeRevocationStore
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Secret = "test-secret-at-least-32-bytes-long!!"
	cfg.BcryptCost = 4
	return cfg
}

func newTestFixture(t *testing.T, cfg Config, users ...*User) *testFixture {
	t.Helper()

	us := newFakeUserStore(users...)
	ss := &fakeSessionStore{}
	rs := newFakeRevocationStore()

	engine, err := New().
		WithConfig(cfg).
		WithUserStore(us).
		WithSessionStore(ss).
		WithRevocationStore(rs).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	return &testFixture{engine: engine, users: us, sessions: ss, revocation: rs}
}

func testUser(t *testing.T, id, email string, role Role, plainPassword string) *User {
	t.Helper()
	hash, err := password.NewHasher(4).Hash(plainPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
