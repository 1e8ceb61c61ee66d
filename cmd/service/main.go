package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/tgsecret/internal/app"
	"github.com/dropDatabas3/tgsecret/internal/config"
	httpapi "github.com/dropDatabas3/tgsecret/internal/http"
	httpx "github.com/dropDatabas3/tgsecret/internal/http/helpers"
	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

func main() {
	var (
		flagConfig  = flag.String("config", "config.yaml", "ruta a config.yaml")
		flagEnvFile = flag.String("env-file", ".env", "ruta a .env (opcional)")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		// logger todavía no inicializado
		println("config:", err.Error())
		os.Exit(1)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "tgsecret"})
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal("bootstrap failed", logger.Err(err))
	}
	defer c.Close()

	metricsCfg := httpx.MetricsConfig{}
	if c.Pool != nil {
		metricsCfg.Pool = func() *pgxpool.Pool { return c.Pool }
	}
	metricsHandler, err := httpx.RegisterMetrics(metricsCfg)
	if err != nil {
		log.Fatal("metrics init failed", logger.Err(err))
	}

	handler := httpapi.NewRouter(c, metricsHandler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", logger.Any("addr", cfg.Server.Addr))
		return httpapi.Serve(gctx, cfg.Server.Addr, handler)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", logger.Err(err))
	}
}
