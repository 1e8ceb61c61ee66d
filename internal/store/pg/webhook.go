package pg

import (
	"context"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

func (s *Store) AppendWebhookLog(ctx context.Context, l *core.WebhookLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO webhook_logs (id, event, payload, status, error, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		l.ID, l.Event, l.Payload, l.Status, l.Error, l.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) CreateSavedMedia(ctx context.Context, m *core.SavedMedia) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO saved_media (id, user_id, media_type, original_chat_id, original_msg_id, saved_msg_id,
			file_name, file_path, file_size, mime_type, caption, sender_username, sender_name, is_view_once, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		m.ID, m.UserID, m.MediaType, m.OriginalChatID, m.OriginalMsgID, m.SavedMsgID,
		m.FileName, m.FilePath, m.FileSize, m.MimeType, m.Caption, m.SenderUsername,
		m.SenderName, m.IsViewOnce, m.Metadata, m.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) CreateStoryLog(ctx context.Context, st *core.StoryLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO story_logs (id, user_id, target_username, story_id, media_type, file_path, file_size,
			caption, view_count, expires_at, metadata, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		st.ID, st.UserID, st.TargetUsername, st.StoryID, st.MediaType, st.FilePath,
		st.FileSize, st.Caption, st.ViewCount, st.ExpiresAt, st.Metadata, st.CreatedAt,
	)
	return mapErr(err)
}

func (s *Store) UpsertBotSession(ctx context.Context, userID string, active bool, at time.Time) (*core.BotSession, error) {
	var sess core.BotSession
	err := s.pool.QueryRow(ctx, `
		INSERT INTO bot_sessions (user_id, is_active, last_active)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET is_active=EXCLUDED.is_active, last_active=EXCLUDED.last_active
		RETURNING user_id, is_active, last_active`, userID, active, at,
	).Scan(&sess.UserID, &sess.IsActive, &sess.LastActive)
	if err != nil {
		return nil, mapErr(err)
	}
	return &sess, nil
}

func (s *Store) ListSavedMedia(ctx context.Context, limit, offset int) ([]core.SavedMedia, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, media_type, original_chat_id, original_msg_id, saved_msg_id,
			file_name, file_path, file_size, mime_type, caption, sender_username, sender_name,
			is_view_once, metadata, created_at
		FROM saved_media ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.SavedMedia
	for rows.Next() {
		var m core.SavedMedia
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.MediaType, &m.OriginalChatID, &m.OriginalMsgID, &m.SavedMsgID,
			&m.FileName, &m.FilePath, &m.FileSize, &m.MimeType, &m.Caption, &m.SenderUsername,
			&m.SenderName, &m.IsViewOnce, &m.Metadata, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListStoryLogs(ctx context.Context, limit, offset int) ([]core.StoryLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, target_username, story_id, media_type, file_path, file_size,
			caption, view_count, expires_at, metadata, created_at
		FROM story_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.StoryLog
	for rows.Next() {
		var st core.StoryLog
		if err := rows.Scan(
			&st.ID, &st.UserID, &st.TargetUsername, &st.StoryID, &st.MediaType, &st.FilePath,
			&st.FileSize, &st.Caption, &st.ViewCount, &st.ExpiresAt, &st.Metadata, &st.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) ListBotSessions(ctx context.Context) ([]core.BotSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, is_active, last_active FROM bot_sessions ORDER BY last_active DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.BotSession
	for rows.Next() {
		var sess core.BotSession
		if err := rows.Scan(&sess.UserID, &sess.IsActive, &sess.LastActive); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
