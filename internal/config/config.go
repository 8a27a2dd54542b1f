package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN          string `env:"DATABASE_DSN,required=true"`
	RedisURL             string `env:"REDIS_URL,required=true"`
	APIPort              int    `env:"API_PORT,default=8080"`
	LogLevel             string `env:"LOG_LEVEL,default=info"`
	JWTSecret            string `env:"JWT_SECRET,required=true"`
	JWTIssuer            string `env:"JWT_ISSUER,default=catalog-api"`
	JWTExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES,default=60"`
	ImportBatchSize      int    `env:"IMPORT_BATCH_SIZE,default=1000"`
	ImportRatePerSec     int    `env:"IMPORT_RATE_LIMIT_PER_SEC,default=5"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
