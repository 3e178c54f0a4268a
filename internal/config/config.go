// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Input and output
	InputPath   string // raw transaction export, JSON array or JSON Lines
	OutputDir   string
	WeightsPath string // YAML weight policy, default weights if empty
	TopN        int

	// Storage (optional, memory stores if not set)
	PostgresDSN   string
	ClickHouseDSN string

	// Kafka (optional)
	KafkaBrokers []string
	KafkaTopic   string

	// Observability
	PushgatewayURL string
	LogLevel       string
	LogFormat      string // "console" or "json"
}

// Defaults
const (
	DefaultInputPath  = "user-wallet-transactions.json"
	DefaultOutputDir  = "output"
	DefaultTopN       = 10
	DefaultKafkaTopic = "wallet-scores"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		InputPath:      getEnv("CREDITSCORE_INPUT", DefaultInputPath),
		OutputDir:      getEnv("CREDITSCORE_OUTPUT_DIR", DefaultOutputDir),
		WeightsPath:    os.Getenv("CREDITSCORE_WEIGHTS"),
		TopN:           getEnvInt("CREDITSCORE_TOP_N", DefaultTopN),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		ClickHouseDSN:  os.Getenv("CLICKHOUSE_DSN"),
		KafkaBrokers:   getEnvList("KAFKA_BROKERS"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", DefaultKafkaTopic),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:      getEnv("LOG_FORMAT", DefaultLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values that Load cannot default.
func (c *Config) Validate() error {
	var errs []error

	if c.TopN <= 0 {
		errs = append(errs, fmt.Errorf("CREDITSCORE_TOP_N must be positive, got %d", c.TopN))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// KafkaEnabled reports whether scores should be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
