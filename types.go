package motorauth

import (
	"context"
	"time"

	"github.com/sr198/motorghar-auth/token"
)

// Role is the single privilege level of a user account. Re-exported from
// the token package, which owns the claim shape.
type Role = token.Role

const (
	RoleOwner = token.RoleOwner
	RoleAdmin = token.RoleAdmin
)

// User is the identity record owned by the UserStore. The engine reads it
// and updates last-login; it never creates or deletes users.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the projection of a User safe to return to clients. It
// never carries the password hash.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Public returns the client-safe projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// LoginResult is returned by Engine.Login. ExpiresIn is the access-token
// lifetime in whole seconds.
type LoginResult struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresIn    int64      `json:"expiresIn"`
	User         PublicUser `json:"user"`
}

// RefreshResult is returned by Engine.Refresh. Only a new access token is
// minted; the presented refresh token stays valid until its own expiry or
// an explicit logout.
type RefreshResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// UserStore is the user-lookup contract the engine and authorizer consume.
// Lookups report a missing user as (nil, nil); IsActive and GetRole report
// a missing user as (false, nil) and ("", nil) respectively.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	IsActive(ctx context.Context, id string) (bool, error)
	GetRole(ctx context.Context, id string) (Role, error)
}

// RevocationStore is a TTL-bounded set of blacklisted access tokens.
// Writes must be visible to reads from any process within the TTL window;
// back it with a fast shared key-value system, not a file.
type RevocationStore interface {
	Add(ctx context.Context, accessToken string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, accessToken string) (bool, error)
	Remove(ctx context.Context, accessToken string) error
}
