package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSolarKey = "sk.test-key"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "St. Tammany Parish, LA", cfg.Region)
	assert.Equal(t, 20, cfg.MaxProperties)
	assert.Equal(t, "solar_survey_output", cfg.OutputDir)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Empty(t, cfg.RegionsFile)
	assert.False(t, cfg.SolarEnabled)
	assert.Equal(t, 10*time.Second, cfg.SolarTimeout)
	assert.Equal(t, 1000, cfg.SolarCacheSize)
	assert.False(t, cfg.ImageryEnabled)
	assert.Equal(t, 30*time.Second, cfg.ImageryTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("REGION", "New Orleans, LA")
	t.Setenv("MAX_PROPERTIES", "50")
	t.Setenv("OUTPUT_DIR", "/tmp/survey")
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("SOLAR_API_KEY", testSolarKey)
	t.Setenv("SOLAR_TIMEOUT", "5s")
	t.Setenv("SOLAR_CACHE_SIZE", "200")
	t.Setenv("MAPS_API_KEY", "maps-key")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-records")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "New Orleans, LA", cfg.Region)
	assert.Equal(t, 50, cfg.MaxProperties)
	assert.Equal(t, "/tmp/survey", cfg.OutputDir)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.True(t, cfg.SolarEnabled)
	assert.Equal(t, testSolarKey, cfg.SolarAPIKey)
	assert.Equal(t, 5*time.Second, cfg.SolarTimeout)
	assert.Equal(t, 200, cfg.SolarCacheSize)
	assert.True(t, cfg.ImageryEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "custom-records", cfg.KafkaTopic)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FeatureFlags(t *testing.T) {
	t.Run("key implies enabled", func(t *testing.T) {
		t.Setenv("SOLAR_API_KEY", testSolarKey)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.SolarEnabled)
	})

	t.Run("explicit disable wins over key", func(t *testing.T) {
		t.Setenv("SOLAR_API_KEY", testSolarKey)
		t.Setenv("SOLAR_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.SolarEnabled)
	})

	t.Run("enabled without key fails", func(t *testing.T) {
		t.Setenv("SOLAR_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SOLAR_API_KEY")
	})

	t.Run("imagery enabled without key fails", func(t *testing.T) {
		t.Setenv("IMAGERY_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAPS_API_KEY")
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric max properties", "MAX_PROPERTIES", "many"},
		{"zero max properties", "MAX_PROPERTIES", "0"},
		{"negative batch size", "BATCH_SIZE", "-5"},
		{"bad solar timeout", "SOLAR_TIMEOUT", "soon"},
		{"zero shutdown timeout", "SHUTDOWN_TIMEOUT", "0s"},
		{"bad cache size", "SOLAR_CACHE_SIZE", "big"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"single", "localhost:9092", []string{"localhost:9092"}},
		{"multiple with spaces", "a:9092, b:9092 ,c:9092", []string{"a:9092", "b:9092", "c:9092"}},
		{"stray commas", ",a:9092,,", []string{"a:9092"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseBrokers(tt.input))
		})
	}
}
