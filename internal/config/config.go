package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

type Config struct {
	Env  string `env:"ENV,default=development"`
	Port string `env:"PORT,default=8080"`

	RPCURL        string        `env:"RPC_URL"`
	RPCTimeout    time.Duration `env:"RPC_TIMEOUT,default=5s"`
	BlockInterval time.Duration `env:"BLOCK_INTERVAL,default=2s"`

	RedisURL  string `env:"REDIS_URL,default=localhost:6379"`
	RedisPass string `env:"REDIS_PASS"`
	RedisDB   int    `env:"REDIS_DB,default=0"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=24h"`

	ReportTTL       time.Duration `env:"REPORT_TTL,default=720h"`
	VerifyRateLimit int           `env:"VERIFY_RATE_LIMIT,default=30"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.BlockInterval <= 0 {
		return fmt.Errorf("BLOCK_INTERVAL must be positive, got %s", c.BlockInterval)
	}
	if c.VerifyRateLimit <= 0 {
		return fmt.Errorf("VERIFY_RATE_LIMIT must be positive, got %d", c.VerifyRateLimit)
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

// HasProvider reports whether block data can be fetched at all.
func (c *Config) HasProvider() bool {
	return c.RPCURL != ""
}
