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

// NewWebhookAIConfigHandler maneja GET /webhook/ai-config/{userID}: la
// configuración de IA DESCIFRADA para el userbot. Sólo esta ruta (protegida
// por el secreto de webhook) ve la API key en claro.
func NewWebhookAIConfigHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "falta userID", httpx.CodeMissingFields)
			return
		}

		cfg, err := c.AIConfig.Get(r.Context(), userID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "not_found", "el usuario no tiene configuración de IA", httpx.CodeNotFound)
				return
			}
			logger.From(r.Context()).Error("ai config fetch failed", logger.UserID(userID), logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo leer la configuración", httpx.CodeInternal)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, cfg)
	}
}
