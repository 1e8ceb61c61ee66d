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

// NewAdminChannelsListHandler maneja GET /admin/channels.
func NewAdminChannelsListHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := c.Channels.List(r.Context())
		if err != nil {
			logger.From(r.Context()).Error("channels list failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudieron listar los canales", httpx.CodeInternal)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"channels": channelDTOs(cs)})
	}
}

type createChannelRequest struct {
	ChatID   int64  `json:"chat_id"`
	Title    string `json:"title"`
	Username string `json:"username,omitempty"`
	Required *bool  `json:"required,omitempty"` // default true
}

// NewAdminChannelsCreateHandler maneja POST /admin/channels.
func NewAdminChannelsCreateHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createChannelRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		if req.ChatID == 0 || req.Title == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "faltan chat_id o title", httpx.CodeMissingFields)
			return
		}
		required := true
		if req.Required != nil {
			required = *req.Required
		}

		ch, err := c.Channels.Create(r.Context(), req.ChatID, req.Title, req.Username, required)
		if err != nil {
			logger.From(r.Context()).Error("channel create failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo crear el canal", httpx.CodeInternal)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, channelDTO{
			ID:       ch.ID,
			ChatID:   ch.ChatID,
			Title:    ch.Title,
			Username: ch.Username,
			Required: ch.Required,
		})
	}
}

// NewAdminChannelsDeleteHandler maneja DELETE /admin/channels/{id}.
func NewAdminChannelsDeleteHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			httpx.WriteError(w, http.StatusBadRequest, "missing_fields", "falta id", httpx.CodeMissingFields)
			return
		}
		if err := c.Channels.Delete(r.Context(), id); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "not_found", "canal inexistente", httpx.CodeNotFound)
				return
			}
			logger.From(r.Context()).Error("channel delete failed", logger.Err(err))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo borrar el canal", httpx.CodeInternal)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}
