package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultGeminiModel   = "gemini-1.5-flash"
)

type Config struct {
	Env       string
	Port      string
	LogLevel  string
	Storage   string
	DBURL     string
	JWT       JWTConfig
	Gemini    GeminiConfig
	CORS      []string
	BackupDir string
	// BackupSchedule is a cron expression; empty disables scheduled backups.
	BackupSchedule string
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

func (c *Config) Production() bool { return c.Env == "production" }

// Load reads .env when present and then the process environment. A missing
// required variable is reported as an error listing every missing name.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Env:            get("APP_ENV", "development"),
		Port:           get("PORT", "8080"),
		LogLevel:       get("LOG_LEVEL", "info"),
		Storage:        strings.ToLower(get("STORAGE", StoragePostgres)),
		BackupDir:      get("BACKUP_DIR", "backups"),
		BackupSchedule: get("BACKUP_SCHEDULE", ""),
		JWT: JWTConfig{
			Secret:   get("JWT_SECRET", ""),
			Issuer:   get("JWT_ISSUER", ""),
			Audience: get("JWT_AUDIENCE", ""),
		},
		Gemini: GeminiConfig{
			APIKey:  get("GEMINI_API_KEY", ""),
			Model:   get("GEMINI_MODEL", defaultGeminiModel),
			BaseURL: get("GEMINI_BASE_URL", defaultGeminiBaseURL),
		},
	}
	for _, o := range strings.Split(get("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORS = append(cfg.CORS, o)
		}
	}

	var missing []string
	require := func(key, val string) {
		if val == "" {
			missing = append(missing, key)
		}
	}
	require("JWT_SECRET", cfg.JWT.Secret)
	require("JWT_ISSUER", cfg.JWT.Issuer)
	require("JWT_AUDIENCE", cfg.JWT.Audience)
	require("GEMINI_API_KEY", cfg.Gemini.APIKey)

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		cfg.DBURL = get("DATABASE_URL", "")
		if cfg.DBURL == "" {
			host, user, name := get("DB_HOST", ""), get("DB_USER", ""), get("DB_NAME", "")
			require("DB_HOST", host)
			require("DB_USER", user)
			require("DB_NAME", name)
			port, err := strconv.Atoi(get("DB_PORT", "5432"))
			if err != nil {
				return nil, fmt.Errorf("invalid DB_PORT: %w", err)
			}
			u := url.URL{
				Scheme: "postgres",
				User:   url.UserPassword(user, get("DB_PASS", "")),
				Host:   fmt.Sprintf("%s:%d", host, port),
				Path:   "/" + name,
			}
			if mode := get("DB_SSLMODE", ""); mode != "" {
				u.RawQuery = "sslmode=" + mode
			}
			cfg.DBURL = u.String()
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
