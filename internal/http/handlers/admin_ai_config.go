package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
)

type putAIConfigRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"apiKey"`
}

// NewAdminAIConfigPutHandler maneja PUT /admin/ai-config/{userID}: cifra la
// API key y la guarda. La key nunca vuelve en claro por esta superficie.
func NewAdminAIConfigPutHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		var req putAIConfigRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		if userID == "" || req.Provider == "" || req.APIKey == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "faltan userID, provider o apiKey", httpx.CodeMissingFields)
			return
		}

		if err := c.AIConfig.Put(r.Context(), userID, req.Provider, req.Model, req.APIKey); err != nil {
			logger.From(r.Context()).Error("ai config put failed", logger.UserID(userID), logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo guardar la configuración", httpx.CodeInternal)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// NewAdminAIConfigGetHandler maneja GET /admin/ai-config/{userID}: la vista
// enmascarada para el dashboard.
func NewAdminAIConfigGetHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "falta userID", httpx.CodeMissingFields)
			return
		}

		m, err := c.AIConfig.GetMasked(r.Context(), userID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "not_found", "el usuario no tiene configuración de IA", httpx.CodeNotFound)
				return
			}
			logger.From(r.Context()).Error("ai config get failed", logger.UserID(userID), logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo leer la configuración", httpx.CodeInternal)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, m)
	}
}
