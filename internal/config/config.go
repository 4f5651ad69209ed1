package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Region        string
	MaxProperties int
	OutputDir     string
	BatchSize     int
	RegionsFile   string // optional catalog override, empty uses the embedded defaults

	// Solar-data provider configuration. When no API key is configured the
	// survey falls back to the deterministic synthetic provider.
	SolarAPIKey    string
	SolarAPIURL    string
	SolarEnabled   bool
	SolarTimeout   time.Duration
	SolarCacheSize int

	// Aerial imagery configuration.
	ImageryEnabled bool
	ImageryAPIKey  string
	ImageryURL     string
	ImageryTimeout time.Duration

	// Optional Kafka sink for downstream consumers; empty brokers disable it.
	KafkaBrokers []string
	KafkaTopic   string

	HTTPAddr        string // ops endpoint, empty disables
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	maxProperties, err := parsePositiveInt("MAX_PROPERTIES", 20)
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("BATCH_SIZE", 10)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parsePositiveInt("SOLAR_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	solarTimeout, err := parseDuration("SOLAR_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	imageryTimeout, err := parseDuration("IMAGERY_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	solarKey := os.Getenv("SOLAR_API_KEY")
	solarEnabled := solarKey != ""
	if v := os.Getenv("SOLAR_ENABLED"); v != "" {
		solarEnabled = v == "true"
	}

	imageryKey := os.Getenv("MAPS_API_KEY")
	imageryEnabled := imageryKey != ""
	if v := os.Getenv("IMAGERY_ENABLED"); v != "" {
		imageryEnabled = v == "true"
	}

	cfg := &Config{
		Region:        envOrDefault("REGION", "St. Tammany Parish, LA"),
		MaxProperties: maxProperties,
		OutputDir:     envOrDefault("OUTPUT_DIR", "solar_survey_output"),
		BatchSize:     batchSize,
		RegionsFile:   os.Getenv("REGIONS_FILE"),

		SolarAPIKey:    solarKey,
		SolarAPIURL:    envOrDefault("SOLAR_API_URL", "https://api.sunroofdata.io/v1"),
		SolarEnabled:   solarEnabled,
		SolarTimeout:   solarTimeout,
		SolarCacheSize: cacheSize,

		ImageryEnabled: imageryEnabled,
		ImageryAPIKey:  imageryKey,
		ImageryURL:     envOrDefault("IMAGERY_URL", "https://maps.googleapis.com/maps/api/staticmap"),
		ImageryTimeout: imageryTimeout,

		KafkaBrokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "solar-survey-records"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.Region == "" {
		return nil, errors.New("REGION is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.SolarEnabled && cfg.SolarAPIKey == "" {
		return nil, errors.New("SOLAR_ENABLED is true but SOLAR_API_KEY is not set")
	}
	if cfg.ImageryEnabled && cfg.ImageryAPIKey == "" {
		return nil, errors.New("IMAGERY_ENABLED is true but MAPS_API_KEY is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether the optional Kafka sink is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
