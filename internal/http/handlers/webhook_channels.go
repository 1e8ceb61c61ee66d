package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

type channelDTO struct {
	ID       string `json:"id"`
	ChatID   int64  `json:"chat_id"`
	Title    string `json:"title"`
	Username string `json:"username,omitempty"`
	Required bool   `json:"required"`
}

func channelDTOs(cs []core.Channel) []channelDTO {
	out := make([]channelDTO, 0, len(cs))
	for _, ch := range cs {
		out = append(out, channelDTO{
			ID:       ch.ID,
			ChatID:   ch.ChatID,
			Title:    ch.Title,
			Username: ch.Username,
			Required: ch.Required,
		})
	}
	return out
}

// NewWebhookChannelsHandler maneja GET /webhook/channels: la lista de
// canales de suscripción forzada que el userbot consulta en cada mensaje
// (de ahí el cache de 60s).
func NewWebhookChannelsHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := c.Channels.List(r.Context())
		if err != nil {
			logger.From(r.Context()).Error("channels fetch failed", logger.Err(err))
			httpx.RecordWebhookEvent("channels", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudieron leer los canales", httpx.CodeInternal)
			return
		}
		httpx.RecordWebhookEvent("channels", "ok")
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"channels": channelDTOs(cs)})
	}
}
