package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the shared settings for all netlab components. Individual
// commands can override most of these with flags; the environment only
// provides the defaults.
type Config struct {
	NTPServer string `validate:"required"`
	EchoPort  int    `validate:"min=1,max=65535"`
	ChatPort  int    `validate:"min=1,max=65535"`
	DataFile  string `validate:"required"`
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		NTPServer: envOr("NETLAB_NTP_SERVER", "pool.ntp.org"),
		EchoPort:  envIntOr("NETLAB_ECHO_PORT", 8880),
		ChatPort:  envIntOr("NETLAB_CHAT_PORT", 5000),
		DataFile:  envOr("NETLAB_DATA_FILE", "integration_data.json"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring non-numeric environment variable", "key", key, "value", v)
		return fallback
	}
	return n
}
