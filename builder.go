package motorauth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sr198/motorghar-auth/password"
	"github.com/sr198/motorghar-auth/session"
	"github.com/sr198/motorghar-auth/token"
)

// Builder assembles an Engine from a Config and the three store
// implementations. Configure it during initialization and call Build once.
type Builder struct {
	config Config

	users      UserStore
	sessions   session.Store
	revocation RevocationStore
	logger     *slog.Logger

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithUserStore sets the user lookup backend.
func (b *Builder) WithUserStore(us UserStore) *Builder {
	b.users = us
	return b
}

// WithSessionStore sets the session persistence backend.
func (b *Builder) WithSessionStore(ss session.Store) *Builder {
	b.sessions = ss
	return b
}

// WithRevocationStore sets the access-token blacklist backend.
func (b *Builder) WithRevocationStore(rs RevocationStore) *Builder {
	b.revocation = rs
	return b
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Build validates the configuration, parses the TTL literals, and wires
// the Engine. A Builder can build at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, fmt.Errorf("%w: user store required", ErrConfiguration)
	}
	if b.sessions == nil {
		return nil, fmt.Errorf("%w: session store required", ErrConfiguration)
	}
	if b.revocation == nil {
		return nil, fmt.Errorf("%w: revocation store required", ErrConfiguration)
	}

	accessTTL, err := token.ParseTTL(b.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: AccessTokenTTL: %v", ErrConfiguration, err)
	}
	refreshTTL, err := token.ParseTTL(b.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: RefreshTokenTTL: %v", ErrConfiguration, err)
	}

	codec, err := token.NewCodec([]byte(b.config.Secret), b.config.Issuer, b.config.Audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	sessionTTL := time.Duration(b.config.SessionTTLSeconds) * time.Second
	b.built = true

	return &Engine{
		users:      b.users,
		sessions:   session.NewManager(b.sessions, sessionTTL, b.config.MaxSessionsPerUser),
		revocation: b.revocation,
		codec:      codec,
		hasher:     password.NewHasher(b.config.BcryptCost),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     logger,
	}, nil
}
