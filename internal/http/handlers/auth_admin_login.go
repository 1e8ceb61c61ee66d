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

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewAdminLoginHandler maneja POST /auth/admin/login (email + password).
// Cualquier falla de credenciales responde el mismo 401 sin distinguir
// causa.
func NewAdminLoginHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminLoginRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "faltan email o password", httpx.CodeMissingFields)
			return
		}

		res, err := c.Auth.AdminLogin(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				httpx.RecordLogin("admin", "denied")
				httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "credenciales inválidas", httpx.CodeInvalidCredentials)
				return
			}
			logger.From(r.Context()).Error("admin login failed", logger.Err(err))
			httpx.RecordLogin("admin", "error")
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno", httpx.CodeInternal)
			return
		}

		httpx.RecordLogin("admin", "ok")
		httpx.WriteJSON(w, http.StatusOK, res)
	}
}
