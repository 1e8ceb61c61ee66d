package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

type savedMediaDTO struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	MediaType      string          `json:"media_type"`
	OriginalChatID int64           `json:"original_chat_id"`
	OriginalMsgID  int64           `json:"original_msg_id"`
	SavedMsgID     int64           `json:"saved_msg_id"`
	FileName       string          `json:"file_name,omitempty"`
	FileSize       int64           `json:"file_size,omitempty"`
	MimeType       string          `json:"mime_type,omitempty"`
	Caption        string          `json:"caption,omitempty"`
	SenderUsername string          `json:"sender_username,omitempty"`
	SenderName     string          `json:"sender_name,omitempty"`
	IsViewOnce     bool            `json:"is_view_once"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func savedMediaDTOs(ms []core.SavedMedia) []savedMediaDTO {
	out := make([]savedMediaDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, savedMediaDTO{
			ID:             m.ID,
			UserID:         m.UserID,
			MediaType:      m.MediaType,
			OriginalChatID: m.OriginalChatID,
			OriginalMsgID:  m.OriginalMsgID,
			SavedMsgID:     m.SavedMsgID,
			FileName:       m.FileName,
			FileSize:       m.FileSize,
			MimeType:       m.MimeType,
			Caption:        m.Caption,
			SenderUsername: m.SenderUsername,
			SenderName:     m.SenderName,
			IsViewOnce:     m.IsViewOnce,
			Metadata:       m.Metadata,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out
}

// NewAdminMediaHandler maneja GET /admin/media?limit=&offset=: listado
// paginado (más reciente primero) para el dashboard.
func NewAdminMediaHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		ms, err := c.Store.ListSavedMedia(r.Context(), limit, offset)
		if err != nil {
			logger.From(r.Context()).Error("media list failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo listar la media", httpx.CodeInternal)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items":  savedMediaDTOs(ms),
			"limit":  limit,
			"offset": offset,
		})
	}
}
