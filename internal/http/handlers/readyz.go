package handlers

import (
	"net/http"

	"github.com/dropDatabas3/tgsecret/internal/app"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

// NewReadyzHandler chequea las dependencias duras: store y cache. Un 503
// acá saca la instancia del balanceador.
func NewReadyzHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Store.Ping(r.Context()); err != nil {
			logger.From(r.Context()).Error("readyz: store unavailable", logger.Err(err))
			httpx.WriteError(w, http.StatusServiceUnavailable, "db_unavailable", "database unavailable", httpx.CodeInternal)
			return
		}
		if c.Cache != nil {
			if err := c.Cache.Ping(r.Context()); err != nil {
				logger.From(r.Context()).Error("readyz: cache unavailable", logger.Err(err))
				httpx.WriteError(w, http.StatusServiceUnavailable, "cache_unavailable", "cache unavailable", httpx.CodeInternal)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
