package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	"github.com/dropDatabas3/tgsecret/internal/auth"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// NewRefreshHandler maneja POST /auth/refresh: rotación single-use. Un
// refresh token ya canjeado (o robado y canjeado por otro) responde 401.
func NewRefreshHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		if req.RefreshToken == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "falta refreshToken", httpx.CodeMissingFields)
			return
		}

		res, err := c.Auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				httpx.RecordLogin("refresh", "denied")
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "refresh token inválido, vencido o ya usado", httpx.CodeInvalidToken)
				return
			}
			logger.From(r.Context()).Error("refresh failed", logger.Err(err))
			httpx.RecordLogin("refresh", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", httpx.CodeInternal)
			return
		}

		httpx.RecordLogin("refresh", "ok")
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}
