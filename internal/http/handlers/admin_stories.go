package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

type storyLogDTO struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	TargetUsername string          `json:"target_username"`
	StoryID        int64           `json:"story_id"`
	MediaType      string          `json:"media_type"`
	FileSize       int64           `json:"file_size,omitempty"`
	Caption        string          `json:"caption,omitempty"`
	ViewCount      int64           `json:"view_count,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func storyLogDTOs(ss []core.StoryLog) []storyLogDTO {
	out := make([]storyLogDTO, 0, len(ss))
	for _, s := range ss {
		out = append(out, storyLogDTO{
			ID:             s.ID,
			UserID:         s.UserID,
			TargetUsername: s.TargetUsername,
			StoryID:        s.StoryID,
			MediaType:      s.MediaType,
			FileSize:       s.FileSize,
			Caption:        s.Caption,
			ViewCount:      s.ViewCount,
			ExpiresAt:      s.ExpiresAt,
			Metadata:       s.Metadata,
			CreatedAt:      s.CreatedAt,
		})
	}
	return out
}

// NewAdminStoriesHandler maneja GET /admin/stories?limit=&offset=.
func NewAdminStoriesHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pageParams(r)
		ss, err := c.Store.ListStoryLogs(r.Context(), limit, offset)
		if err != nil {
			logger.From(r.Context()).Error("stories list failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudieron listar las stories", httpx.CodeInternal)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"items":  storyLogDTOs(ss),
			"limit":  limit,
			"offset": offset,
		})
	}
}
