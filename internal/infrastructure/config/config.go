package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	JWTSecret   string   `env:"JWT_SECRET,   default=dev-secret-change-me"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
	// BodyLimit caps request body size before any handler reads it. Slightly
	// above the image upload ceiling so multipart framing fits.
	BodyLimit string `env:"BODY_LIMIT, default=6M"`

	Postgres  PostgresConfig
	Redis     RedisConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

type PostgresConfig struct {
	URL string `env:"DATABASE_URL, default=postgres://localhost:5432/events?sslmode=disable"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	// Dir is the filesystem directory uploaded images are written to and
	// served from under /images.
	Dir string `env:"UPLOAD_DIR, default=public/images"`
	// SweepInterval controls the orphaned-asset sweep; zero disables it.
	SweepInterval time.Duration `env:"UPLOAD_SWEEP_INTERVAL, default=0"`
}

type RateLimitConfig struct {
	// Requests per Window allowed on the auth routes, per client IP.
	Requests int           `env:"AUTH_RATE_LIMIT,  default=20"`
	Window   time.Duration `env:"AUTH_RATE_WINDOW, default=1m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
