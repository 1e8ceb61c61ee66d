// Package app arma el grafo de dependencias del servicio a partir de la
// configuración. Los handlers reciben el Container y sacan de ahí lo que
// necesitan.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tgsecret/internal/aiconfig"
	"github.com/dropDatabas3/tgsecret/internal/audit"
	"github.com/dropDatabas3/tgsecret/internal/auth"
	"github.com/dropDatabas3/tgsecret/internal/cache"
	"github.com/dropDatabas3/tgsecret/internal/channels"
	"github.com/dropDatabas3/tgsecret/internal/config"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
	"github.com/dropDatabas3/tgsecret/internal/rate"
	"github.com/dropDatabas3/tgsecret/internal/security/cryptobox"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
	"github.com/dropDatabas3/tgsecret/internal/store/memory"
	"github.com/dropDatabas3/tgsecret/internal/store/pg"
	"github.com/dropDatabas3/tgsecret/internal/webhook"
	migrations "github.com/dropDatabas3/tgsecret/migrations/postgres"
)

type Container struct {
	Cfg   *config.Config
	Store core.Repository
	Cache cache.Client

	Auth     *auth.Service
	Issuer   *auth.Issuer
	Guard    *webhook.Guard
	Webhooks *webhook.Service
	Channels *channels.Service
	AIConfig *aiconfig.Service
	Limiter  rate.Limiter

	// Pool es nil con el store en memoria; sólo lo usa el collector de
	// métricas.
	Pool *pgxpool.Pool

	closers []func()
}

// Build construye el Container completo: store (pg o memoria según DSN),
// cache, limiter y servicios.
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Cfg: cfg}

	if cfg.Storage.DSN != "" {
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("app: init postgres: %w", err)
		}
		applied, err := pg.RunMigrations(ctx, st.Pool(), migrations.FS, migrations.Dir)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("app: migrations: %w", err)
		}
		if applied > 0 {
			logger.L().Info("migrations applied", logger.Any("count", applied))
		}
		c.Store = st
		c.Pool = st.Pool()
		c.closers = append(c.closers, st.Close)
	} else {
		logger.L().Warn("DATABASE_URL vacío, usando store en memoria (sólo dev)")
		c.Store = memory.New()
	}

	cc, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("app: init cache: %w", err)
	}
	c.Cache = cc
	c.closers = append(c.closers, func() { _ = cc.Close() })

	if cfg.Rate.Enabled {
		window, err := time.ParseDuration(cfg.Rate.Window)
		if err != nil || window <= 0 {
			window = time.Minute
		}
		if rc, ok := cache.Redis(cc); ok {
			c.Limiter = rate.NewRedisLimiter(rc, "rl:", cfg.Rate.MaxRequests, window)
		} else {
			c.Limiter = rate.NewMemoryLimiter(cfg.Rate.MaxRequests, window)
		}
	}

	box, err := cryptobox.New(cfg.Security.EncryptionKey)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("app: encryption key: %w", err)
	}

	issuer := auth.NewIssuer(cfg.Security.JWTSecret, cfg.Security.JWTRefreshSecret, c.Store)
	verifier := auth.NewTelegramVerifier(cfg.Security.TelegramBotToken)
	creds := auth.NewCredentialAuthenticator(c.Store)

	rec := audit.NewRecorder(c.Store)

	c.Issuer = issuer
	c.Auth = auth.NewService(verifier, creds, issuer, c.Store)
	c.Guard = webhook.NewGuard(cfg.Security.WebhookSecret)
	c.Webhooks = webhook.NewService(c.Store, rec)
	c.Channels = channels.NewService(c.Store, cc)
	c.AIConfig = aiconfig.NewService(c.Store, box)

	return c, nil
}

// Close libera recursos en orden inverso al de creación.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
