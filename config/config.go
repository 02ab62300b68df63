package config

import (
	"fmt"
	"strings"
	"time"

	"event-staffing-backend/pkg/logger"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GinMode  string `env:"GIN_MODE" envDefault:"debug"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	DBUrl    string `env:"DATABASE_URL"`

	// Supabase project: auth (GoTrue), JWT verification and storage
	SupabaseURL       string        `env:"SUPABASE_URL"`
	SupabaseKey       string        `env:"SUPABASE_ANON_KEY"`
	SupabaseJWTSecret string        `env:"SUPABASE_JWT_SECRET"`
	AuthTimeout       time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`

	// Supabase Storage S3 credentials; uploads are disabled when unset
	StorageBucket          string `env:"STORAGE_BUCKET" envDefault:"public-assets"`
	StorageRegion          string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	StorageAccessKeyID     string `env:"STORAGE_ACCESS_KEY_ID"`
	StorageSecretAccessKey string `env:"STORAGE_SECRET_ACCESS_KEY"`

	// Browser sessions
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	SessionRefreshMargin time.Duration `env:"SESSION_REFRESH_MARGIN" envDefault:"60s"`
	SessionCookieSecure  bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
	ProfileFetchTimeout  time.Duration `env:"PROFILE_FETCH_TIMEOUT" envDefault:"10s"`

	// Redis/Upstash; everything falls back to in-process state when unset
	RedisURL      string        `env:"REDIS_URL"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	QueryCacheTTL time.Duration `env:"QUERY_CACHE_TTL" envDefault:"5m"`

	// CORS
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Rate limiting
	RateLimitWindow          time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitGlobalThreshold int           `env:"RATE_LIMIT_GLOBAL_THRESHOLD" envDefault:"100"`
	RateLimitLoginThreshold  int           `env:"RATE_LIMIT_LOGIN_THRESHOLD" envDefault:"10"`
	FailedLoginMaxAttempts   int           `env:"FAILED_LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	FailedLoginBlock         time.Duration `env:"FAILED_LOGIN_BLOCK" envDefault:"15m"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; in production the variables come from the environment
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SupabaseURL = strings.TrimRight(cfg.SupabaseURL, "/")
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimRight(strings.TrimSpace(origin), "/")
	}

	if cfg.DBUrl == "" {
		logger.Log.Warn("DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		logger.Log.Warn("SUPABASE_URL or SUPABASE_ANON_KEY missing. Sign-in will fail.")
	}
	if cfg.RedisURL == "" {
		logger.Log.Warn("REDIS_URL not configured. Sessions, cache and rate limits stay in memory.")
	}

	return cfg, nil
}

// Production reports whether gin runs in release mode.
func (c *Config) Production() bool {
	return c.GinMode == "release"
}
