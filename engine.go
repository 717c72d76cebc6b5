package motorauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sr198/motorghar-auth/metrics"
	"github.com/sr198/motorghar-auth/password"
	"github.com/sr198/motorghar-auth/session"
	"github.com/sr198/motorghar-auth/token"
)

// Engine is the authentication core. It owns credential checks, token
// issuance and verification, session lifecycle, and logout blacklisting.
// Construct one with the builder in builder.go and share it; all methods
// are safe for concurrent use.
type Engine struct {
	users      UserStore
	sessions   *session.Manager
	revocation RevocationStore
	codec      *token.Codec
	hasher     *password.Hasher
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

// Login verifies credentials and opens a session. A missing account and a
// wrong password return the same ErrInvalidCredentials; an inactive account
// is only reported after the password checks out. The session records the
// client IP and device descriptor when the caller attached them to ctx via
// WithClientIP and WithUserAgent.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !e.hasher.Verify(plainPassword, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		return nil, ErrAccountInactive
	}

	payload := token.Payload{UserID: user.ID, Email: user.Email, Role: user.Role}
	accessToken, err := e.codec.Issue(payload, e.accessTTL)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := e.codec.Issue(payload, e.refreshTTL)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	device := session.SniffDevice(userAgentFromContext(ctx))
	if _, err := e.sessions.Create(ctx, user.ID, refreshToken, device, clientIPFromContext(ctx)); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Last-login is bookkeeping; a failure here must not undo the login.
	if err := e.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		e.logger.Warn("failed to record last login",
			"user_id", user.ID,
			"error", err,
		)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	e.logger.Info("user logged in",
		"user_id", user.ID,
		"device", device.Type,
		"ip", clientIPFromContext(ctx),
	)

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    token.Seconds(e.accessTTL),
		User:         user.Public(),
	}, nil
}

// Refresh mints a new access token against a live session. The presented
// refresh token is not rotated: it stays valid until its own expiry or an
// explicit logout. Unlike access-token verification, refresh distinguishes
// a revoked session (ErrSessionRevoked) from an expired one
// (ErrSessionExpired) so clients can tell "log in again" from "you were
// signed out".
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	payload, err := e.codec.Verify(refreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("denied").Inc()
		return nil, ErrInvalidToken
	}

	sess, err := e.sessions.Lookup(ctx, refreshToken)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("denied").Inc()
		return nil, err
	}
	if sess.RevokedAt != nil {
		metrics.RefreshesTotal.WithLabelValues("denied").Inc()
		return nil, ErrSessionRevoked
	}
	if time.Now().After(sess.ExpiresAt) {
		metrics.RefreshesTotal.WithLabelValues("denied").Inc()
		return nil, ErrSessionExpired
	}

	active, err := e.users.IsActive(ctx, payload.UserID)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("check account state: %w", err)
	}
	if !active {
		metrics.RefreshesTotal.WithLabelValues("denied").Inc()
		return nil, ErrAccountInactive
	}

	accessToken, err := e.codec.Issue(payload, e.accessTTL)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	if err := e.sessions.Touch(ctx, sess.ID); err != nil {
		e.logger.Warn("failed to touch session",
			"session_id", sess.ID,
			"error", err,
		)
	}

	metrics.RefreshesTotal.WithLabelValues("ok").Inc()
	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   token.Seconds(e.accessTTL),
	}, nil
}

// Logout revokes the session behind refreshToken when it belongs to userID
// and blacklists accessToken for its remaining configured lifetime. The
// blacklist write happens unconditionally: a missing session, an
// already-revoked session, or a refresh token owned by someone else never
// leaves the access token usable. A cross-user refresh token is skipped
// silently rather than reported, so the call leaks nothing about other
// users' sessions.
func (e *Engine) Logout(ctx context.Context, userID, accessToken, refreshToken string) error {
	var revokeErr error
	sess, err := e.sessions.Lookup(ctx, refreshToken)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		// Nothing to revoke.
	case err != nil:
		revokeErr = err
	case sess.UserID == userID:
		if err := e.sessions.Revoke(ctx, sess.ID); err != nil {
			revokeErr = err
		} else {
			metrics.SessionsRevokedTotal.WithLabelValues("logout").Inc()
		}
	}

	blacklistErr := e.revocation.Add(ctx, accessToken, e.accessTTL)
	if blacklistErr != nil {
		blacklistErr = fmt.Errorf("blacklist access token: %w", blacklistErr)
	} else {
		metrics.TokensBlacklistedTotal.Inc()
	}

	metrics.LogoutsTotal.Inc()
	e.logger.Info("user logged out", "user_id", userID)
	return errors.Join(revokeErr, blacklistErr)
}

// LogoutAll revokes every active session of the user. It does not
// blacklist any outstanding access token: those stay valid until their
// natural expiry, only their refresh path is cut off. Callers that also
// hold a token to kill pair this with Logout.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if err := e.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.WithLabelValues("logout_all").Inc()
	metrics.LogoutsTotal.Inc()
	e.logger.Info("user logged out everywhere", "user_id", userID)
	return nil
}

// VerifyAccessToken authenticates a bearer token: blacklist first, then
// signature and registered claims, then the live account flag. The
// blacklist check runs before cryptographic verification so a logged-out
// token is reported as revoked even after it expires.
func (e *Engine) VerifyAccessToken(ctx context.Context, accessToken string) (token.Payload, error) {
	blacklisted, err := e.revocation.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return token.Payload{}, fmt.Errorf("check blacklist: %w", err)
	}
	if blacklisted {
		return token.Payload{}, ErrTokenRevoked
	}

	// Expiry, signature, and payload-shape failures are deliberately
	// indistinguishable to callers.
	payload, err := e.codec.Verify(accessToken)
	if err != nil {
		return token.Payload{}, ErrInvalidToken
	}

	active, err := e.users.IsActive(ctx, payload.UserID)
	if err != nil {
		return token.Payload{}, fmt.Errorf("check account state: %w", err)
	}
	if !active {
		return token.Payload{}, ErrAccountInactive
	}
	return payload, nil
}

// GetActiveSessions lists the user's live sessions, newest first.
func (e *Engine) GetActiveSessions(ctx context.Context, userID string) ([]*session.Session, error) {
	return e.sessions.ListActive(ctx, userID)
}

// RevokeSession revokes one session by ID when it belongs to userID. A
// session owned by someone else is treated as not found.
func (e *Engine) RevokeSession(ctx context.Context, userID, sessionID string) error {
	sessions, err := e.sessions.ListActive(ctx, userID)
	if err != nil {
		return err
	}
	for _, sess := range sessions {
		if sess.ID == sessionID {
			if err := e.sessions.Revoke(ctx, sessionID); err != nil {
				return err
			}
			metrics.SessionsRevokedTotal.WithLabelValues("manual").Inc()
			return nil
		}
	}
	return ErrSessionNotFound
}

// ChangePassword replaces the user's password after verifying the current
// one, then revokes every session so all devices must log in again with
// the new credential.
func (e *Engine) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !e.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := e.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := e.sessions.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions after password change: %w", err)
	}
	metrics.SessionsRevokedTotal.WithLabelValues("password_change").Inc()

	e.logger.Info("password changed", "user_id", userID)
	return nil
}

// HashPassword hashes a plaintext password with the engine's configured
// cost. Hosts use it when seeding or creating accounts outside the engine.
func (e *Engine) HashPassword(plaintext string) (string, error) {
	return e.hasher.Hash(plaintext)
}

// Sessions exposes the session manager for background maintenance such as
// the expired-row reaper.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}
