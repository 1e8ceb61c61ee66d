package pg

import (
	"context"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

func (s *Store) ListChannels(ctx context.Context) ([]core.Channel, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, chat_id, title, username, required, created_at FROM channels ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Channel
	for rows.Next() {
		var c core.Channel
		if err := rows.Scan(&c.ID, &c.ChatID, &c.Title, &c.Username, &c.Required, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateChannel(ctx context.Context, c *core.Channel) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO channels (id, chat_id, title, username, required, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.ChatID, c.Title, c.Username, c.Required, c.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) DeleteChannel(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM channels WHERE id=$1`, id)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) UpsertAIConfig(ctx context.Context, c *core.AIConfig) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ai_configs (user_id, provider, model, api_key_cipher, api_key_iv, api_key_tag, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_id) DO UPDATE SET
			provider=EXCLUDED.provider, model=EXCLUDED.model,
			api_key_cipher=EXCLUDED.api_key_cipher, api_key_iv=EXCLUDED.api_key_iv,
			api_key_tag=EXCLUDED.api_key_tag, updated_at=EXCLUDED.updated_at`,
		c.UserID, c.Provider, c.Model, c.APIKeyCipher, c.APIKeyIV, c.APIKeyTag, c.UpdatedAt,
	)
	return mapErr(err)
}

func (s *Store) GetAIConfig(ctx context.Context, userID string) (*core.AIConfig, error) {
	var c core.AIConfig
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, provider, model, api_key_cipher, api_key_iv, api_key_tag, updated_at
		FROM ai_configs WHERE user_id=$1`, userID,
	).Scan(&c.UserID, &c.Provider, &c.Model, &c.APIKeyCipher, &c.APIKeyIV, &c.APIKeyTag, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}
