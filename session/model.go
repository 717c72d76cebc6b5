// Package session owns the session lifecycle: one record per authenticated
// device binding, revocable independently of the refresh token's own
// cryptographic validity.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no usable session matches a lookup.
var ErrNotFound = errors.New("session not found")

// DeviceType is a coarse classification of the logging-in client.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

// DeviceInfo describes the client a session was created from.
type DeviceInfo struct {
	UserAgent string
	Type      DeviceType
	OS        string
	Browser   string
}

// Session binds a refresh token to a user, device, and expiry.
type Session struct {
	ID             string
	UserID         string
	RefreshToken   string
	Device         DeviceInfo
	IPAddress      string
	ExpiresAt      time.Time
	LastActivityAt time.Time
	CreatedAt      time.Time
	RevokedAt      *time.Time
}

// Active reports whether the session is usable at now: not revoked and not
// past its expiry.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// Store is the persistence contract the Manager runs against. Missing rows
// are reported as (nil, nil), not as errors. FindActiveByUser returns only
// sessions satisfying the Active predicate, newest-created first.
type Store interface {
	Create(ctx context.Context, s *Session) error
	FindByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	FindActiveByUser(ctx context.Context, userID string) ([]*Session, error)
	Revoke(ctx context.Context, sessionID string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) error
	UpdateLastActivity(ctx context.Context, sessionID string, at time.Time) error
	CleanupExpired(ctx context.Context, now time.Time) (int64, error)
}
