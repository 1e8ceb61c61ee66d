package middlewares

import (
	"net/http"

	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/webhook"
)

// RequireWebhookSecret valida el header X-Webhook-Secret del userbot antes
// de dejar pasar cualquier callback. El rechazo es 401 sin detalle.
func RequireWebhookSecret(guard *webhook.Guard) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := guard.Authorize(r.Header.Get("X-Webhook-Secret")); err != nil {
				logger.From(r.Context()).Warn("webhook rejected",
					logger.Path(r.URL.Path),
					logger.Event("bad_secret"),
				)
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "secreto de webhook inválido", httpx.CodeWebhookUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
