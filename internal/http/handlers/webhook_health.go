package handlers

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
)

// NewWebhookHealthHandler maneja GET /webhook/health: le confirma al
// userbot que el backend está vivo. Sin guard: no recibe input y nunca
// falla.
func NewWebhookHealthHandler(_ *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"service":   "tgsecret",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
