package motorauth

import (
	"errors"
	"fmt"

	"github.com/sr198/motorghar-auth/token"
)

// Config is the host-supplied engine configuration. Durations for the two
// token kinds are literals of the form <integer><s|m|h|d> (or a bare
// integer second count); everything returned across the API boundary is
// normalized to whole seconds.
//
// Validate once at process start and fail fast.
type Config struct {
	// Secret signs both token kinds (HS256).
	Secret string
	// AccessTokenTTL is the short access-token lifetime literal, e.g. "15m".
	AccessTokenTTL string
	// RefreshTokenTTL is the long refresh-token lifetime literal, e.g. "7d".
	RefreshTokenTTL string
	// Issuer and Audience are embedded in and enforced on every token when
	// non-empty.
	Issuer   string
	Audience string
	// MaxSessionsPerUser caps concurrent sessions per user. Zero or
	// negative disables the cap.
	MaxSessionsPerUser int
	// SessionTTLSeconds is the absolute session lifetime.
	SessionTTLSeconds int
	// BcryptCost is the password-hash cost factor (10–15 is typical).
	BcryptCost int
}

// DefaultConfig returns the baseline configuration. The signing secret has
// no default and must be supplied by the host.
func DefaultConfig() Config {
	return Config{
		AccessTokenTTL:     "15m",
		RefreshTokenTTL:    "7d",
		Issuer:             "motorghar",
		MaxSessionsPerUser: 5,
		SessionTTLSeconds:  7 * 24 * 3600,
		BcryptCost:         12,
	}
}

// Validate checks every field and reports all problems at once, wrapped in
// ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error

	if c.Secret == "" {
		errs = append(errs, errors.New("Secret is required"))
	}
	if _, err := token.ParseTTL(c.AccessTokenTTL); err != nil {
		errs = append(errs, fmt.Errorf("AccessTokenTTL: %v", err))
	}
	if _, err := token.ParseTTL(c.RefreshTokenTTL); err != nil {
		errs = append(errs, fmt.Errorf("RefreshTokenTTL: %v", err))
	}
	if c.SessionTTLSeconds <= 0 {
		errs = append(errs, errors.New("SessionTTLSeconds must be > 0"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, errors.New("BcryptCost must be between 4 and 31"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}
	return nil
}
