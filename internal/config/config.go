// Package config carga la configuración del servicio: YAML opcional para
// settings no sensibles + variables de entorno (el entorno siempre gana).
// Todo el material de claves es obligatorio al arranque; ausencia o formato
// inválido es fatal y el proceso no acepta tráfico.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Storage struct {
		// dsn vacío habilita el store en memoria (sólo dev/tests)
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Driver string `yaml:"driver"` // memory | redis
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Rate struct {
		Enabled     bool   `yaml:"enabled"`
		MaxRequests int    `yaml:"max_requests"`
		Window      string `yaml:"window"`
	} `yaml:"rate"`

	// Secretos: sólo por entorno, nunca en YAML.
	Security struct {
		TelegramBotToken string `yaml:"-"`
		JWTSecret        string `yaml:"-"`
		JWTRefreshSecret string `yaml:"-"`
		EncryptionKey    string `yaml:"-"` // 64 chars hex (32 bytes)
		WebhookSecret    string `yaml:"-"`
	} `yaml:"-"`
}

// Load lee el YAML (si path existe), aplica overrides de entorno y valida.
func Load(path string) (*Config, error) {
	c := defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func defaults() *Config {
	c := &Config{}
	c.App.Env = "dev"
	c.App.LogLevel = "info"
	c.Server.Addr = ":8080"
	c.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}
	c.Cache.Driver = "memory"
	c.Rate.Enabled = true
	c.Rate.MaxRequests = 60
	c.Rate.Window = "1m"
	return c
}

func (c *Config) applyEnv() {
	c.App.Env = getenv("APP_ENV", c.App.Env)
	c.App.LogLevel = getenv("LOG_LEVEL", c.App.LogLevel)
	c.Server.Addr = getenv("SERVER_ADDR", c.Server.Addr)
	if v := getenv("SERVER_CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.Server.CORSAllowedOrigins = splitCSV(v)
	}
	c.Storage.DSN = getenv("DATABASE_URL", c.Storage.DSN)
	c.Cache.Driver = getenv("CACHE_DRIVER", c.Cache.Driver)
	c.Cache.Redis.Addr = getenv("REDIS_ADDR", c.Cache.Redis.Addr)
	c.Cache.Redis.Password = getenv("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getenvInt("REDIS_DB", c.Cache.Redis.DB)

	c.Security.TelegramBotToken = getenv("TELEGRAM_BOT_TOKEN", c.Security.TelegramBotToken)
	c.Security.JWTSecret = getenv("JWT_SECRET", c.Security.JWTSecret)
	c.Security.JWTRefreshSecret = getenv("JWT_REFRESH_SECRET", c.Security.JWTRefreshSecret)
	c.Security.EncryptionKey = getenv("SERVER_ENCRYPTION_KEY", c.Security.EncryptionKey)
	c.Security.WebhookSecret = getenv("USERBOT_WEBHOOK_SECRET", c.Security.WebhookSecret)
}

// Validate chequea el material de claves. Cualquier falla acá aborta el
// arranque.
func (c *Config) Validate() error {
	var missing []string
	if c.Security.TelegramBotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.Security.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Security.JWTRefreshSecret == "" {
		missing = append(missing, "JWT_REFRESH_SECRET")
	}
	if c.Security.EncryptionKey == "" {
		missing = append(missing, "SERVER_ENCRYPTION_KEY")
	}
	if c.Security.WebhookSecret == "" {
		missing = append(missing, "USERBOT_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: faltan variables requeridas: %s", strings.Join(missing, ", "))
	}
	if len(c.Security.EncryptionKey) != 64 {
		return fmt.Errorf("config: SERVER_ENCRYPTION_KEY debe ser hex de 64 caracteres (32 bytes), obtuvo %d", len(c.Security.EncryptionKey))
	}
	if _, err := hex.DecodeString(c.Security.EncryptionKey); err != nil {
		return fmt.Errorf("config: SERVER_ENCRYPTION_KEY no es hex válido: %w", err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
