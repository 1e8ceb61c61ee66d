package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setRequiredEnv deja el entorno mínimo para que Validate pase.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:ABC-DEF")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("SERVER_ENCRYPTION_KEY", strings.Repeat("ab", 32))
	t.Setenv("USERBOT_WEBHOOK_SECRET", "hook-secret")
	// Neutraliza overrides que pueda traer el entorno del runner.
	t.Setenv("APP_ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SERVER_ADDR", "")
	t.Setenv("DATABASE_URL", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.App.Env != "dev" || c.Server.Addr != ":8080" {
		t.Fatalf("defaults inesperados: env=%q addr=%q", c.App.Env, c.Server.Addr)
	}
	if !c.Rate.Enabled || c.Rate.MaxRequests != 60 || c.Rate.Window != "1m" {
		t.Fatalf("defaults de rate inesperados: %+v", c.Rate)
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("USERBOT_WEBHOOK_SECRET", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("esperaba error por variables faltantes")
	}
	// El error tiene que nombrar todo lo que falta, no sólo lo primero.
	for _, want := range []string{"JWT_SECRET", "USERBOT_WEBHOOK_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q no menciona %s", err, want)
		}
	}
}

func TestLoad_EncryptionKeyFormat(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"corta", "abcd"},
		{"63 chars", strings.Repeat("a", 63)},
		{"no hex", strings.Repeat("z", 64)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("SERVER_ENCRYPTION_KEY", tc.key)
			if _, err := Load(""); err == nil {
				t.Fatalf("key %q aceptada, esperaba error", tc.key)
			}
		})
	}
}

func TestLoad_YAMLThenEnvWins(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  env: prod
  log_level: debug
server:
  addr: ":9090"
rate:
  enabled: true
  max_requests: 10
  window: 30s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	// El entorno pisa al YAML.
	t.Setenv("SERVER_ADDR", ":7070")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if c.App.Env != "prod" || c.App.LogLevel != "debug" {
		t.Fatalf("YAML no aplicado: %+v", c.App)
	}
	if c.Server.Addr != ":7070" {
		t.Fatalf("addr = %q, el entorno debería ganar sobre el YAML", c.Server.Addr)
	}
	if c.Rate.MaxRequests != 10 || c.Rate.Window != "30s" {
		t.Fatalf("rate del YAML no aplicado: %+v", c.Rate)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	setRequiredEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "no-existe.yaml")); err != nil {
		t.Fatalf("un path inexistente no debería ser error: %v", err)
	}
}
