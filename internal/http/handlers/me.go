package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/tgsecret/internal/app"
	"github.com/dropDatabas3/tgsecret/internal/auth"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

// NewMeHandler maneja GET /auth/me: resuelve el access token a la identidad
// pública. Valida además que el usuario siga existiendo y activo (un token
// firmado de un usuario desactivado no sirve).
func NewMeHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ah := strings.TrimSpace(r.Header.Get("Authorization"))
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "token_missing", "falta Authorization: Bearer <token>", httpx.CodeTokenMissing)
			return
		}
		raw := strings.TrimSpace(ah[len("Bearer "):])

		u, err := c.Auth.CurrentUser(r.Context(), raw)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "token inválido o expirado", httpx.CodeInvalidToken)
				return
			}
			logger.From(r.Context()).Error("me lookup failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", httpx.CodeInternal)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, u)
	}
}
