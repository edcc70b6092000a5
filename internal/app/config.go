package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config описывает настройки запуска приложения. Все значения читаются из
// окружения с префиксом SHOP_.
type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

	// PostgresDSN пустой означает in-memory хранилище.
	PostgresDSN string `env:"POSTGRES_DSN"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	JWTSecret       string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	OutboxPollInterval         time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	OutboxBatchSize            int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	IdempotencyCleanupInterval time.Duration `env:"IDEMPOTENCY_CLEANUP_INTERVAL" envDefault:"10m"`

	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig читает конфигурацию из переменных окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SHOP_"}); err != nil {
		return Config{}, fmt.Errorf("parse environment config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig возвращает конфигурацию со значениями по умолчанию,
// не трогая окружение.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:                   ":8080",
		MetricsAddr:                ":9090",
		JWTSecret:                  "dev-secret-change-me",
		AccessTokenTTL:             15 * time.Minute,
		RefreshTokenTTL:            720 * time.Hour,
		OutboxPollInterval:         time.Second,
		OutboxBatchSize:            100,
		IdempotencyCleanupInterval: 10 * time.Minute,
		LogLevel:                   "info",
		ShutdownTimeout:            5 * time.Second,
	}
}
