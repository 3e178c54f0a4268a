package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CREDITSCORE_INPUT", "CREDITSCORE_OUTPUT_DIR", "CREDITSCORE_WEIGHTS", "CREDITSCORE_TOP_N",
		"POSTGRES_DSN", "CLICKHOUSE_DSN", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"PUSHGATEWAY_URL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultInputPath, cfg.InputPath)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultTopN, cfg.TopN)
	assert.Equal(t, DefaultKafkaTopic, cfg.KafkaTopic)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Empty(t, cfg.WeightsPath)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CREDITSCORE_INPUT", "/data/tx.jsonl")
	t.Setenv("CREDITSCORE_TOP_N", "25")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("KAFKA_TOPIC", "scores")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/tx.jsonl", cfg.InputPath)
	assert.Equal(t, 25, cfg.TopN)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "scores", cfg.KafkaTopic)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_InvalidTopNFallsBack(t *testing.T) {
	t.Setenv("CREDITSCORE_TOP_N", "many")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultTopN, cfg.TopN)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid config",
			config: Config{TopN: 10, LogFormat: "console"},
		},
		{
			name:    "non-positive top n",
			config:  Config{TopN: 0, LogFormat: "console"},
			wantErr: "CREDITSCORE_TOP_N must be positive",
		},
		{
			name:    "brokers without topic",
			config:  Config{TopN: 10, LogFormat: "json", KafkaBrokers: []string{"k:9092"}},
			wantErr: "KAFKA_TOPIC is required",
		},
		{
			name:    "unknown log format",
			config:  Config{TopN: 10, LogFormat: "xml"},
			wantErr: "LOG_FORMAT must be console or json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
