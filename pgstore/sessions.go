package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sr198/motorghar-auth/session"
)

// SessionStore persists session rows. Active means not revoked and not
// past expiry; the queries encode the same predicate the domain uses.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore wraps an open database handle.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

const sessionColumns = `id, user_id, refresh_token, user_agent, device_type, device_os,
	device_browser, ip_address, expires_at, last_activity_at, created_at, revoked_at`

func (s *SessionStore) Create(ctx context.Context, sess *session.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, refresh_token, user_agent, device_type, device_os,
		   device_browser, ip_address, expires_at, last_activity_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sess.ID, sess.UserID, sess.RefreshToken,
		sess.Device.UserAgent, sess.Device.Type, sess.Device.OS, sess.Device.Browser,
		sess.IPAddress, sess.ExpiresAt, sess.LastActivityAt, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func scanSession(scan func(dest ...any) error) (*session.Session, error) {
	var sess session.Session
	var revoked sql.NullTime
	err := scan(&sess.ID, &sess.UserID, &sess.RefreshToken,
		&sess.Device.UserAgent, &sess.Device.Type, &sess.Device.OS, &sess.Device.Browser,
		&sess.IPAddress, &sess.ExpiresAt, &sess.LastActivityAt, &sess.CreatedAt, &revoked)
	if err != nil {
		return nil, err
	}
	if revoked.Valid {
		t := revoked.Time
		sess.RevokedAt = &t
	}
	return &sess, nil
}

func (s *SessionStore) FindByRefreshToken(ctx context.Context, refreshToken string) (*session.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token = $1`, refreshToken)
	sess, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) FindActiveByUser(ctx context.Context, userID string) ([]*session.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > now()
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query active sessions: %w", err)
	}
	defer rows.Close()

	var out []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		sessionID, at)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *SessionStore) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID, at)
	if err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) UpdateLastActivity(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_activity_at = $2 WHERE id = $1`, sessionID, at)
	if err != nil {
		return fmt.Errorf("update last activity: %w", err)
	}
	return nil
}

func (s *SessionStore) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted sessions: %w", err)
	}
	return n, nil
}

var _ session.Store = (*SessionStore)(nil)
