package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

// El userbot manda el heartbeat en camelCase (userId/isActive).
type sessionStatusRequest struct {
	UserID   string `json:"userId"`
	IsActive bool   `json:"isActive"`
}

// NewWebhookStatusHandler maneja POST /webhook/status: heartbeat de sesión
// del userbot (upsert por usuario).
func NewWebhookStatusHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionStatusRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		if req.UserID == "" {
			httpx.RecordWebhookEvent("status", "error")
			httpx.WriteError(w, http.StatusBadRequest, "invalid_payload", "falta userId", httpx.CodeInvalidPayload)
			return
		}

		sess, err := c.Webhooks.UpdateSessionStatus(r.Context(), req.UserID, req.IsActive)
		if err != nil {
			logger.From(r.Context()).Error("status webhook failed", logger.UserID(req.UserID), logger.Err(err))
			httpx.RecordWebhookEvent("status", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo actualizar el estado", httpx.CodeInternal)
			return
		}

		httpx.RecordWebhookEvent("status", "ok")
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"userId":     sess.UserID,
			"isActive":   sess.IsActive,
			"lastActive": sess.LastActive,
		})
	}
}
