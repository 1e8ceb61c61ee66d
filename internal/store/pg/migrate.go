package pg

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/binary"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/tgsecret/internal/observability/logger"
)

// migrationLockID deriva un ID estable para pg_advisory_lock.
func migrationLockID() int64 {
	h := sha256.Sum256([]byte("tgsecret_migrations"))
	return int64(binary.BigEndian.Uint64(h[:8]))
}

// RunMigrations aplica los *_up.sql embebidos en orden lexicográfico bajo un
// advisory lock, para que dos instancias arrancando a la vez no corran la
// misma migración. El lock es a nivel de sesión, así que TODO corre sobre
// una única conexión dedicada del pool: tomar y soltar el lock en conexiones
// distintas lo dejaría colgado en una sesión reciclada. Devuelve cuántos
// scripts aplicó.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, fsys embed.FS, dir string) (int, error) {
	lockID := migrationLockID()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations: acquire conn: %w", err)
	}
	defer conn.Release()

	lockCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := conn.Exec(lockCtx, "SELECT pg_advisory_lock($1)", lockID); err != nil {
		return 0, fmt.Errorf("migrations: acquire lock: %w", err)
	}
	// liberar siempre en la MISMA conexión que lo tomó
	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockID); err != nil {
			logger.L().Warn("migrations: release lock failed", logger.Err(err))
		}
	}()

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		return 0, err
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "_up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var applied int
	for _, name := range files {
		var done bool
		if err := conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name=$1)`, name,
		).Scan(&done); err != nil {
			return applied, err
		}
		if done {
			continue
		}
		b, err := fsys.ReadFile(path.Join(dir, name))
		if err != nil {
			return applied, err
		}
		if _, err := conn.Exec(ctx, string(b)); err != nil {
			return applied, fmt.Errorf("migrations: exec %s: %w", name, err)
		}
		if _, err := conn.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			return applied, err
		}
		applied++
		logger.L().Info("migration applied", logger.Any("file", name))
	}
	return applied, nil
}
