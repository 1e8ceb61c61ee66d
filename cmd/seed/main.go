// seed crea (o actualiza) la cuenta admin inicial directamente contra la
// base. Pensado para el primer deploy:
//
//	go run ./cmd/seed -email admin@example.com -password 'S3creta!'
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/tgsecret/internal/auth"
	"github.com/dropDatabas3/tgsecret/internal/config"
	"github.com/dropDatabas3/tgsecret/internal/store/core"
	"github.com/dropDatabas3/tgsecret/internal/store/pg"
	migrations "github.com/dropDatabas3/tgsecret/migrations/postgres"
)

func main() {
	var (
		flagEnvFile  = flag.String("env-file", ".env", "ruta a .env")
		flagConfig   = flag.String("config", "config.yaml", "ruta a config.yaml")
		flagEmail    = flag.String("email", "", "email del admin (requerido)")
		flagPassword = flag.String("password", "", "password del admin (requerido)")
		flagName     = flag.String("name", "Admin", "nombre visible")
	)
	flag.Parse()

	if *flagEnvFile != "" {
		_ = godotenv.Load(*flagEnvFile)
	}

	email := strings.TrimSpace(strings.ToLower(*flagEmail))
	if email == "" || *flagPassword == "" {
		log.Fatal("seed: -email y -password son requeridos")
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		log.Fatalf("seed: config: %v", err)
	}
	if cfg.Storage.DSN == "" {
		log.Fatal("seed: DATABASE_URL es requerido")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := pg.New(ctx, cfg.Storage.DSN, pg.PoolConfig{})
	if err != nil {
		log.Fatalf("seed: postgres: %v", err)
	}
	defer st.Close()

	if _, err := pg.RunMigrations(ctx, st.Pool(), migrations.FS, migrations.Dir); err != nil {
		log.Fatalf("seed: migrations: %v", err)
	}

	hash, err := auth.HashPassword(*flagPassword)
	if err != nil {
		log.Fatalf("seed: hash: %v", err)
	}

	u, err := st.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, core.ErrNotFound):
		u = &core.User{
			Email:        &email,
			PasswordHash: &hash,
			FirstName:    *flagName,
			IsAdmin:      true,
			IsActive:     true,
		}
		if err := st.CreateUser(ctx, u); err != nil {
			log.Fatalf("seed: create: %v", err)
		}
		log.Printf("seed: admin creado id=%s email=%s", u.ID, email)
	case err != nil:
		log.Fatalf("seed: lookup: %v", err)
	default:
		if err := st.SetUserPassword(ctx, u.ID, hash); err != nil {
			log.Fatalf("seed: update password: %v", err)
		}
		log.Printf("seed: password actualizado id=%s email=%s", u.ID, email)
	}
}
