package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/http/middlewares"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

type logoutRequest struct {
	// RefreshToken vacío revoca TODAS las sesiones del usuario.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// NewLogoutHandler maneja POST /auth/logout. Requiere access token válido
// (RequireAuth); con body vacío es logout en todos los dispositivos.
func NewLogoutHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middlewares.GetIdentity(r.Context())
		if id == nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "no autenticado", httpx.CodeTokenMissing)
			return
		}

		var req logoutRequest
		if r.ContentLength > 0 {
			if !httpx.ReadJSON(w, r, &req) {
				return
			}
		}

		if err := c.Auth.Logout(r.Context(), id.Subject, req.RefreshToken); err != nil {
			logger.From(r.Context()).Error("logout failed", logger.UserID(id.Subject), logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", httpx.CodeInternal)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
