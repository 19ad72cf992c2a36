package sqlite

import (
	"context"
)

type profilesRepo struct {
	q querier
}

func (r *profilesRepo) GetPortal(ctx context.Context, userID string) (string, error) {
	var portal string
	err := r.q.QueryRowContext(ctx,
		`SELECT portal FROM profiles WHERE user_id = ?`, userID).Scan(&portal)
	if err != nil {
		return "", mapNotFound(err)
	}
	return portal, nil
}

func (r *profilesRepo) UpsertPortal(ctx context.Context, userID, portal string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO profiles (user_id, portal) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET portal = excluded.portal, updated_at = CURRENT_TIMESTAMP`,
		userID, portal)
	return err
}

func (r *profilesRepo) DeleteProfile(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID)
	return err
}
