package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

func (s *Store) CreateRefreshToken(ctx context.Context, rt *core.RefreshToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token, user_id, created_at, expires_at)
		VALUES ($1,$2,$3,$4)`,
		rt.Token, rt.UserID, rt.CreatedAt, rt.ExpiresAt,
	)
	return mapErr(err)
}

// ConsumeRefreshToken borra y devuelve el registro en un solo statement
// (DELETE ... RETURNING). Postgres garantiza que de dos consumos
// concurrentes del mismo token exactamente uno ve la fila; el otro recibe
// ErrNotFound. De esto depende la semántica single-use de la rotación.
func (s *Store) ConsumeRefreshToken(ctx context.Context, token string) (*core.RefreshToken, error) {
	var rt core.RefreshToken
	err := s.pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens WHERE token=$1
		RETURNING token, user_id, created_at, expires_at`, token,
	).Scan(&rt.Token, &rt.UserID, &rt.CreatedAt, &rt.ExpiresAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rt, nil
}

func (s *Store) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id=$1 AND token=$2`, userID, token)
	return mapErr(err)
}

func (s *Store) DeleteRefreshTokensByUser(ctx context.Context, userID string) (int64, error) {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id=$1`, userID)
	if err != nil {
		return 0, mapErr(err)
	}
	return ct.RowsAffected(), nil
}

func (s *Store) DeleteExpiredRefreshTokens(ctx context.Context, userID string, now time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id=$1 AND expires_at < $2`, userID, now)
	if err != nil {
		return 0, mapErr(err)
	}
	return ct.RowsAffected(), nil
}
