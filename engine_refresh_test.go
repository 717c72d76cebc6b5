package motorauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRefreshMintsNewAccessTokenWithoutRotation(t *testing.T) {
	user := testUser(t, "u1", "owner@motorghar.com", RoleOwner, "hunter2secret")
	fx := newTestFixture(t, testConfig(), user)
	ctx := context.Background()

	login, err := fx.engine.Login(ctx, "owner@motorghar.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	res, err := fx.engine.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatalf("expected a new access token")
	}
	if res.ExpiresIn != 900 {
		t.Fatalf("ExpiresIn = %d, want 900", res.ExpiresIn)
	}

	// No rotation: the same refresh token keeps working.
	if _, err := fx.engine.Refresh(ctx, login.RefreshToken); err != nil {
		t.Fatalf("second refresh with same token: %v", err)
	}

	payload, err := fx.engine.VerifyAccessToken(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken on refreshed token: %v", err)
	}
	if payload.UserID != "u1" {
		t.Fatalf("payload user = %q", payload.UserID)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	fx := newTestFixture(t, testConfig())

	_, err := fx.engine.Refresh(context.Background(), "not.a.jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshUnknownSession(t *testing.T) {
	user := testUser(t, "u1", "owner@motorghar.com", RoleOwner, "hunter2secret")
	fx := newTestFixture(t, testConfig(), user)
	ctx := context.Background()

	login, err := fx.engine.Login(ctx, "owner@motorghar.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A well-signed token whose session row vanished.
	fx.sessions.sessions = nil

	_, err = fx.engine.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestRefreshRevokedSession(t *testing.T) {
	user := testUser(t, "u1", "owner@motorghar.com", RoleOwner, "hunter2secret")
	fx := newTestFixture(t, testConfig(), user)
	ctx := context.Background()

	login, err := fx.engine.Login(ctx, "owner@motorghar.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := fx.engine.Logout(ctx, "u1", login.AccessToken, login.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err = fx.engine.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, ErrSessionRevoked) {
		t.Fatalf("got %v, want ErrSessionRevoked", err)
	}
}

func TestRefreshExpiredSession(t *testing.T) {
	user := testUser(t, "u1", "owner@motorghar.com", RoleOwner, "hunter2secret")
	fx := newTestFixture(t, testConfig(), user)
	ctx := context.Background()

	login, err := fx.engine.Login(ctx, "owner@motorghar.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	fx.sessions.expire(login.RefreshToken)

	_, err = fx.engine.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("got %v, want ErrSessionExpired", err)
	}
}

func TestRefreshDeactivatedAccount(t *testing.T) {
	user := testUser(t, "u1", "owner@motorghar.com", RoleOwner, "hunter2secret")
	fx := newTestFixture(t, testConfig(), user)
	ctx := context.Background()

	login, err := fx.engine.Login(ctx, "owner@motorghar.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	fx.users.mu.Lock()
	fx.users.users["u1"].IsActive = false
	fx.users.mu.Unlock()

	_, err = fx.engine.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("got %v, want ErrAccountInactive", err)
	}
}

func TestRefreshTouchesLastActivity(t *testing.T) {
	user := testUser(t, "u1", "owner@motorghar.com", RoleOwner, "hunter2secret")
	fx := newTestFixture(t, testConfig(), user)
	ctx := context.Background()

	login, err := fx.engine.Login(ctx, "owner@motorghar.com", "hunter2secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	sess := fx.sessions.get(login.RefreshToken)
	before := sess.LastActivityAt
	expiry := sess.ExpiresAt

	time.Sleep(10 * time.Millisecond)
	if _, err := fx.engine.Refresh(ctx, login.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	sess = fx.sessions.get(login.RefreshToken)
	if !sess.LastActivityAt.After(before) {
		t.Fatalf("refresh should advance last activity")
	}
	if !sess.ExpiresAt.Equal(expiry) {
		t.Fatalf("refresh must not extend session expiry")
	}
}
