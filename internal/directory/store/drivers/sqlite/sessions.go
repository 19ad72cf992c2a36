package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/domain"
)

type sessionsRepo struct {
	q querier
}

// sqliteTime formats a time the way SQLite's CURRENT_TIMESTAMP does, so text
// comparisons between the two stay correct.
func sqliteTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)`,
		s.ID, s.UserID, sqliteTime(s.ExpiresAt))
	return err
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	var (
		s       domain.Session
		revoked sql.NullTime
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, revoked_at, expires_at, created_at, updated_at
		 FROM sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.UserID, &revoked, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	if revoked.Valid {
		t := revoked.Time.UTC()
		s.RevokedAt = &t
	}
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND revoked_at IS NULL`, id)
	return err
}

func (r *sessionsRepo) RevokeAllUserSessions(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = ? AND revoked_at IS NULL`, userID)
	return err
}

func (r *sessionsRepo) ExtendSession(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		sqliteTime(expiresAt), id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`)
	return err
}
