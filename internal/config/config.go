package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
	MySQLDSN   string `env:"MYSQL_DSN" env-default:"user:password@tcp(localhost:3306)/checkbox?charset=utf8mb4&parseTime=True&loc=Local"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`

	Auth AuthConfig
}

// AuthConfig holds token signing settings. Access and refresh tokens are signed
// with separate secrets so one cannot stand in for the other.
type AuthConfig struct {
	AccessTokenSecret  string `env:"AUTH_ACCESS_TOKEN_SECRET" env-default:"change-me"`
	RefreshTokenSecret string `env:"AUTH_REFRESH_TOKEN_SECRET" env-default:"change-me-too"`
	Algorithm          string `env:"AUTH_ALGORITHM" env-default:"HS256"`
	AccessTokenTTLMin  int    `env:"AUTH_ACCESS_TOKEN_EXPIRE_MINUTES" env-default:"15"`
	RefreshTokenTTLMin int    `env:"AUTH_REFRESH_TOKEN_EXPIRE_MINUTES" env-default:"10080"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}
