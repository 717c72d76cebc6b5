package motorauth

import (
	"errors"

	"github.com/sr198/motorghar-auth/session"
	"github.com/sr198/motorghar-auth/token"
)

var (
	// ErrInvalidCredentials merges "user not found" and "wrong password";
	// the message must never reveal which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive is returned when credentials check out but the
	// account is deactivated.
	ErrAccountInactive = errors.New("account inactive")
	// ErrInvalidToken covers expired, malformed, and badly signed tokens;
	// the causes are intentionally indistinguishable externally.
	ErrInvalidToken = token.ErrInvalidToken
	// ErrTokenRevoked is returned for blacklisted access tokens.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrSessionNotFound is returned when no session matches a refresh token.
	ErrSessionNotFound = session.ErrNotFound
	// ErrSessionRevoked is returned on refresh against a revoked session.
	ErrSessionRevoked = errors.New("session revoked")
	// ErrSessionExpired is returned on refresh against a session past its
	// expiry, independent of the refresh token's own exp claim.
	ErrSessionExpired = errors.New("session expired")
	// ErrConfiguration covers invalid engine configuration, including bad
	// TTL literals.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrUserNotFound is returned by operations that require an existing
	// account outside the credential-check path.
	ErrUserNotFound = errors.New("user not found")
)
