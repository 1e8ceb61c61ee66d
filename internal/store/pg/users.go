package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

const userCols = `id, telegram_id, email, password_hash, first_name, last_name, username, photo_url, is_admin, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*core.User, error) {
	var u core.User
	err := row.Scan(
		&u.ID, &u.TelegramID, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Username, &u.PhotoURL,
		&u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (s *Store) GetUserByTelegramID(ctx context.Context, telegramID int64) (*core.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE telegram_id=$1`, telegramID))
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, telegram_id, email, password_hash, first_name, last_name, username, photo_url, is_admin, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		u.ID, u.TelegramID, u.Email, u.PasswordHash,
		u.FirstName, u.LastName, u.Username, u.PhotoURL,
		u.IsAdmin, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err)
}

// SetUserPassword reemplaza el hash de password. Lo usa el seed; el core de
// auth nunca escribe passwords.
func (s *Store) SetUserPassword(ctx context.Context, id, hash string) error {
	ct, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash=$2, updated_at=$3 WHERE id=$1`,
		id, hash, time.Now().UTC(),
	)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// UpdateUserProfile actualiza sólo campos de perfil; identidad y flags
// quedan intactos.
func (s *Store) UpdateUserProfile(ctx context.Context, u *core.User) error {
	u.UpdatedAt = time.Now().UTC()
	ct, err := s.pool.Exec(ctx, `
		UPDATE users SET first_name=$2, last_name=$3, username=$4, photo_url=$5, updated_at=$6
		WHERE id=$1`,
		u.ID, u.FirstName, u.LastName, u.Username, u.PhotoURL, u.UpdatedAt,
	)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
