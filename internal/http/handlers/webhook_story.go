package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/webhook"
)

// NewWebhookStoryHandler maneja POST /webhook/story: descarga de story
// reportada por el userbot.
func NewWebhookStoryHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p webhook.StoryPayload
		if !httpx.ReadJSON(w, r, &p) {
			return
		}
		if p.UserID == "" || p.TargetUsername == "" {
			httpx.RecordWebhookEvent("story", "error")
			httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "faltan userId o target_username", httpx.CodeInvalidPayload)
			return
		}

		id, err := c.Webhooks.LogStory(r.Context(), p)
		if err != nil {
			logger.From(r.Context()).Error("story webhook failed", logger.UserID(p.UserID), logger.Err(err))
			httpx.RecordWebhookEvent("story", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo guardar la story", httpx.CodeInternal)
			return
		}

		httpx.RecordWebhookEvent("story", "ok")
		httpx.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "id": id})
	}
}
