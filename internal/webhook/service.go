package webhook

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/tgsecret/internal/audit"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

// MediaPayload es el cuerpo de POST /webhook/media (nombres según el
// userbot).
type MediaPayload struct {
	UserID         string          `json:"userId"`
	MediaType      string          `json:"media_type"`
	OriginalChatID int64           `json:"original_chat_id"`
	OriginalMsgID  int64           `json:"original_msg_id"`
	SavedMsgID     int64           `json:"saved_msg_id"`
	FileName       string          `json:"file_name,omitempty"`
	FilePath       string          `json:"file_path,omitempty"`
	FileSize       int64           `json:"file_size,omitempty"`
	MimeType       string          `json:"mime_type,omitempty"`
	Caption        string          `json:"caption,omitempty"`
	SenderUsername string          `json:"sender_username,omitempty"`
	SenderName     string          `json:"sender_name,omitempty"`
	IsViewOnce     bool            `json:"is_view_once,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// StoryPayload es el cuerpo de POST /webhook/story.
type StoryPayload struct {
	UserID         string          `json:"userId"`
	TargetUsername string          `json:"target_username"`
	StoryID        int64           `json:"story_id"`
	MediaType      string          `json:"media_type"`
	FilePath       string          `json:"file_path,omitempty"`
	FileSize       int64           `json:"file_size,omitempty"`
	Caption        string          `json:"caption,omitempty"`
	ViewCount      int64           `json:"view_count,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
}

// Service persiste los eventos del userbot y deja rastro en el audit log.
// El audit es best-effort y nunca hace fallar el write primario.
type Service struct {
	store core.WebhookRepository
	audit *audit.Recorder
}

func NewService(store core.WebhookRepository, rec *audit.Recorder) *Service {
	return &Service{store: store, audit: rec}
}

func normalizeMediaType(t, def string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return def
	}
	return t
}

// LogMedia registra una media guardada. Devuelve el id generado.
func (s *Service) LogMedia(ctx context.Context, p MediaPayload) (string, error) {
	m := &core.SavedMedia{
		ID:             uuid.NewString(),
		UserID:         p.UserID,
		MediaType:      normalizeMediaType(p.MediaType, "DOCUMENT"),
		OriginalChatID: p.OriginalChatID,
		OriginalMsgID:  p.OriginalMsgID,
		SavedMsgID:     p.SavedMsgID,
		FileName:       p.FileName,
		FilePath:       p.FilePath,
		FileSize:       p.FileSize,
		MimeType:       p.MimeType,
		Caption:        p.Caption,
		SenderUsername: p.SenderUsername,
		SenderName:     p.SenderName,
		IsViewOnce:     p.IsViewOnce,
		Metadata:       metadataOrEmpty(p.Metadata),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateSavedMedia(ctx, m); err != nil {
		s.audit.Record(ctx, "media_saved", p, "error", err.Error())
		return "", err
	}
	s.audit.Record(ctx, "media_saved", p, "success", "")
	return m.ID, nil
}

// LogStory registra una story descargada. Devuelve el id generado.
func (s *Service) LogStory(ctx context.Context, p StoryPayload) (string, error) {
	st := &core.StoryLog{
		ID:             uuid.NewString(),
		UserID:         p.UserID,
		TargetUsername: p.TargetUsername,
		StoryID:        p.StoryID,
		MediaType:      normalizeMediaType(p.MediaType, "PHOTO"),
		FilePath:       p.FilePath,
		FileSize:       p.FileSize,
		Caption:        p.Caption,
		ViewCount:      p.ViewCount,
		ExpiresAt:      p.ExpiresAt,
		Metadata:       metadataOrEmpty(p.Metadata),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.CreateStoryLog(ctx, st); err != nil {
		s.audit.Record(ctx, "story_saved", p, "error", err.Error())
		return "", err
	}
	s.audit.Record(ctx, "story_saved", p, "success", "")
	return st.ID, nil
}

// UpdateSessionStatus actualiza el estado activo/inactivo del userbot.
func (s *Service) UpdateSessionStatus(ctx context.Context, userID string, active bool) (*core.BotSession, error) {
	sess, err := s.store.UpsertBotSession(ctx, userID, active, time.Now().UTC())
	payload := map[string]any{"userId": userID, "isActive": active}
	if err != nil {
		s.audit.Record(ctx, "session_status", payload, "error", err.Error())
		return nil, err
	}
	s.audit.Record(ctx, "session_status", payload, "success", "")
	return sess, nil
}

func metadataOrEmpty(m json.RawMessage) []byte {
	if len(m) == 0 {
		return []byte(`{}`)
	}
	return m
}
