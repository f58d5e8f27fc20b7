package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens; rotating it invalidates every
	// outstanding token. Required.
	JWTSecret string `env:"JWT_SECRET, required"`
	// JWTExpirationMs is the token lifetime in milliseconds.
	JWTExpirationMs int64 `env:"JWT_EXPIRATION, default=3600000"`

	// PublicPaths are URL prefixes the auth middleware skips entirely.
	// /auth/me is deliberately absent: it needs the bound identity.
	PublicPaths []string `env:"PUBLIC_PATHS, delimiter=;, default=/auth/login;/auth/register;/auth/check-email/;/auth/logout;/health;/metrics;/docs/"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=finansys"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD, default="`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationMs) * time.Millisecond
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
