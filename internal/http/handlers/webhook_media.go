package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/webhook"
)

// NewWebhookMediaHandler maneja POST /webhook/media: el userbot reporta una
// media guardada. La ruta ya pasó por RequireWebhookSecret.
func NewWebhookMediaHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p webhook.MediaPayload
		if !httpx.ReadJSON(w, r, &p) {
			return
		}
		if p.UserID == "" || p.SavedMsgID == 0 {
			httpx.RecordWebhookEvent("media", "error")
			httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "faltan userId o saved_msg_id", httpx.CodeInvalidPayload)
			return
		}

		id, err := c.Webhooks.LogMedia(r.Context(), p)
		if err != nil {
			logger.From(r.Context()).Error("media webhook failed", logger.UserID(p.UserID), logger.Err(err))
			httpx.RecordWebhookEvent("media", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo guardar la media", httpx.CodeInternal)
			return
		}

		httpx.RecordWebhookEvent("media", "ok")
		httpx.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "id": id})
	}
}
