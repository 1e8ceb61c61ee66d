package middlewares

import (
	"net/http"

	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

// WithRecover atrapa pánicos del handler, loggea el stack y responde 500.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic recovered",
						logger.Any("panic", rec),
						logger.Path(r.URL.Path),
					)
					httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "error interno del servidor", httpx.CodeInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
