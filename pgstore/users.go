package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	motorauth "github.com/sr198/motorghar-auth"
)

// UserStore reads and updates account rows. Missing rows are reported as
// the zero result, never as an error.
type UserStore struct {
	db *sql.DB
}

// NewUserStore wraps an open database handle.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, name, role, is_active, last_login_at, created_at, updated_at`

func scanUser(row *sql.Row) (*motorauth.User, error) {
	var u motorauth.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*motorauth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*motorauth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *UserStore) IsActive(ctx context.Context, id string) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx,
		`SELECT is_active FROM users WHERE id = $1`, id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query account state: %w", err)
	}
	return active, nil
}

func (s *UserStore) GetRole(ctx context.Context, id string) (motorauth.Role, error) {
	var role motorauth.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query role: %w", err)
	}
	return role, nil
}

// Create inserts a new account row. Host tooling such as the seed command
// uses it; the auth engine itself never creates users.
func (s *UserStore) Create(ctx context.Context, u *motorauth.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

var _ motorauth.UserStore = (*UserStore)(nil)
