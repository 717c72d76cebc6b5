package motorauth

import (
	"context"
	"fmt"
	"log/slog"
)

// Authorizer answers role questions against the live user store, never
// against token claims. A role change or deactivation takes effect on the
// next check even while old tokens are still in flight.
type Authorizer struct {
	users  UserStore
	logger *slog.Logger
}

// NewAuthorizer wires an Authorizer over the same user store the engine
// uses.
func NewAuthorizer(users UserStore, logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{users: users, logger: logger}
}

// GetUserRole fetches the user's current role. ErrUserNotFound when no
// such account exists.
func (a *Authorizer) GetUserRole(ctx context.Context, userID string) (Role, error) {
	role, err := a.users.GetRole(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}
	if role == "" {
		return "", ErrUserNotFound
	}
	return role, nil
}

// HasRole reports whether the user currently holds exactly the given role.
func (a *Authorizer) HasRole(ctx context.Context, userID string, role Role) (bool, error) {
	current, err := a.GetUserRole(ctx, userID)
	if err != nil {
		return false, err
	}
	return current == role, nil
}

// HasAnyRole reports whether the user's role is one of the given set. An
// empty set matches nothing.
func (a *Authorizer) HasAnyRole(ctx context.Context, userID string, roles ...Role) (bool, error) {
	current, err := a.GetUserRole(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range roles {
		if current == r {
			return true, nil
		}
	}
	return false, nil
}

// HasAllRoles reports whether the user holds every given role. Users carry
// exactly one role, so this is only satisfiable for a single-element set;
// an empty set is unsatisfiable rather than vacuously true.
func (a *Authorizer) HasAllRoles(ctx context.Context, userID string, roles ...Role) (bool, error) {
	if len(roles) != 1 {
		return false, nil
	}
	return a.HasRole(ctx, userID, roles[0])
}

// IsAdmin reports whether the user currently holds the ADMIN role.
func (a *Authorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return a.HasRole(ctx, userID, RoleAdmin)
}

// IsOwner reports whether the user currently holds the OWNER role.
func (a *Authorizer) IsOwner(ctx context.Context, userID string) (bool, error) {
	return a.HasRole(ctx, userID, RoleOwner)
}

// IsActive reports whether the account exists and is active. A missing
// account is inactive, not an error.
func (a *Authorizer) IsActive(ctx context.Context, userID string) (bool, error) {
	active, err := a.users.IsActive(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check account state: %w", err)
	}
	return active, nil
}
