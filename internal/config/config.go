// Package config loads service configuration from the environment and Docker secrets.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"branching-novel/internal/database"
)

// SecretsDir is where Docker mounts secrets.
var SecretsDir = "/run/secrets"

// Config is the full runtime configuration of the game service.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	Port        string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// DBPassword comes from the db_password secret, or DB_PASSWORD outside Docker.
	DBPassword string `ignored:"true"`

	// Empty RedisAddr disables the graph cache.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string        `ignored:"true"`
	GraphCacheTTL time.Duration `envconfig:"GRAPH_CACHE_TTL" default:"10m"`

	// Empty RabbitMQURL disables progress events.
	RabbitMQURL         string `envconfig:"RABBITMQ_URL"`
	ProgressEventsQueue string `envconfig:"PROGRESS_EVENTS_QUEUE" default:"game_progress_events"`

	// StartNodeID is where StartGame places a player when no node is given.
	StartNodeID int64 `envconfig:"START_NODE_ID" default:"0"`

	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimitPerMinute uint          `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Pool returns the database pool settings.
func (c *Config) Pool() database.PoolConfig {
	return database.PoolConfig{
		Host:        c.DBHost,
		Port:        c.DBPort,
		User:        c.DBUser,
		Password:    c.DBPassword,
		Name:        c.DBName,
		SSLMode:     c.DBSSLMode,
		MaxConns:    c.DBMaxConns,
		IdleTimeout: c.DBIdleTimeout,
	}
}

// LoadConfig reads the environment and the secrets.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var err error
	if cfg.DBPassword, err = SecretOrEnv("db_password", "DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.DBPassword == "" {
		return nil, errors.New("load config: db_password secret or DB_PASSWORD is required")
	}
	if cfg.RedisPassword, err = SecretOrEnv("redis_password", "REDIS_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.StartNodeID < 0 {
		return nil, fmt.Errorf("load config: START_NODE_ID must not be negative, got %d", cfg.StartNodeID)
	}
	return &cfg, nil
}

// ReadSecret reads a Docker secret. Fails when the file is missing or empty.
func ReadSecret(name string) (string, error) {
	path := filepath.Join(SecretsDir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read secret file %s: %w", path, err)
	}
	secret := strings.TrimSpace(string(raw))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", path)
	}
	return secret, nil
}

// SecretOrEnv prefers the secret file and falls back to envKey when the file
// does not exist.
func SecretOrEnv(secretName, envKey string) (string, error) {
	secret, err := ReadSecret(secretName)
	if err == nil {
		return secret, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return strings.TrimSpace(os.Getenv(envKey)), nil
	}
	return "", err
}
