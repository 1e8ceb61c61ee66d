package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/tgsecret/internal/app"
	"github.com/dropDatabas3/tgsecret/internal/http/handlers"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	mw "github.com/dropDatabas3/tgsecret/internal/http/middlewares"
)

// NewRouter arma el router completo. Tres superficies:
//
//   - /auth/*     público (con rate limit)
//   - /webhook/*  userbot, protegido por X-Webhook-Secret
//   - /admin/*    dashboard, requiere access token con isAdmin
func NewRouter(c *app.Container, metricsHandler stdhttp.Handler) stdhttp.Handler {
	r := chi.NewRouter()

	// Health
	r.Get("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", handlers.NewReadyzHandler(c))
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	// Auth
	r.Route("/auth", func(r chi.Router) {
		r.Post("/telegram", handlers.NewTelegramLoginHandler(c))
		r.Post("/admin/login", handlers.NewAdminLoginHandler(c))
		r.Post("/refresh", handlers.NewRefreshHandler(c))
		r.Get("/me", handlers.NewMeHandler(c))
		r.With(mw.RequireAuth(c.Issuer)).Post("/logout", handlers.NewLogoutHandler(c))
	})

	// Webhooks del userbot. El health check queda fuera del guard: no
	// recibe input y el userbot lo usa para sondear antes de autenticarse.
	r.Route("/webhook", func(r chi.Router) {
		r.Get("/health", handlers.NewWebhookHealthHandler(c))
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireWebhookSecret(c.Guard))
			r.Post("/media", handlers.NewWebhookMediaHandler(c))
			r.Post("/story", handlers.NewWebhookStoryHandler(c))
			r.Post("/status", handlers.NewWebhookStatusHandler(c))
			r.Get("/channels", handlers.NewWebhookChannelsHandler(c))
			r.Get("/ai-config/{userID}", handlers.NewWebhookAIConfigHandler(c))
		})
	})

	// Admin (dashboard)
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.RequireAuth(c.Issuer))
		r.Use(mw.RequireAdmin())
		r.Get("/media", handlers.NewAdminMediaHandler(c))
		r.Get("/stories", handlers.NewAdminStoriesHandler(c))
		r.Get("/sessions", handlers.NewAdminSessionsHandler(c))
		r.Get("/channels", handlers.NewAdminChannelsListHandler(c))
		r.Post("/channels", handlers.NewAdminChannelsCreateHandler(c))
		r.Delete("/channels/{id}", handlers.NewAdminChannelsDeleteHandler(c))
		r.Get("/ai-config/{userID}", handlers.NewAdminAIConfigGetHandler(c))
		r.Put("/ai-config/{userID}", handlers.NewAdminAIConfigPutHandler(c))
	})

	// Cadena externa: request id primero, luego logging, recover, CORS,
	// security headers, métricas y rate limit.
	return mw.Chain(httpx.WithMetrics(r),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithCORS(c.Cfg.Server.CORSAllowedOrigins),
		mw.WithSecurityHeaders(),
		mw.WithRateLimit(c.Limiter),
	)
}
