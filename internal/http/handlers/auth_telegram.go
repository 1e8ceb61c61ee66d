package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	"github.com/dropDatabas3/tgsecret/internal/auth"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

// NewTelegramLoginHandler maneja POST /auth/telegram: el handshake del
// Login Widget. El body es el objeto tal cual lo entrega el widget.
func NewTelegramLoginHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d auth.TelegramAuthData
		if !httpx.ReadJSON(w, r, &d) {
			return
		}
		if d.ID == 0 || d.Hash == "" || d.AuthDate == 0 {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "faltan id, hash o auth_date", httpx.CodeMissingFields)
			return
		}

		res, err := c.Auth.TelegramLogin(r.Context(), d)
		if err != nil {
			if errors.Is(err, auth.ErrAuthentication) {
				httpx.RecordLogin("telegram", "denied")
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_telegram_auth", "datos de autenticación de Telegram inválidos o vencidos", httpx.CodeInvalidCredentials)
				return
			}
			logger.From(r.Context()).Error("telegram login failed", logger.Err(err))
			httpx.RecordLogin("telegram", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", httpx.CodeInternal)
			return
		}

		httpx.RecordLogin("telegram", "ok")
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}
