package handlers

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

type botSessionDTO struct {
	UserID     string    `json:"userId"`
	IsActive   bool      `json:"isActive"`
	LastActive time.Time `json:"lastActive"`
}

// NewAdminSessionsHandler maneja GET /admin/sessions: estado de los
// userbots conectados.
func NewAdminSessionsHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ss, err := c.Store.ListBotSessions(r.Context())
		if err != nil {
			logger.From(r.Context()).Error("sessions list failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudieron listar las sesiones", httpx.CodeInternal)
			return
		}
		out := make([]botSessionDTO, 0, len(ss))
		for _, s := range ss {
			out = append(out, botSessionDTO{UserID: s.UserID, IsActive: s.IsActive, LastActive: s.LastActive})
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
	}
}
