package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort     string
	AppMode      string
	FiberPrefork bool

	MongoURI      string
	MongoDatabase string
	DBTimeout     time.Duration

	Meta MetaConfig

	GTMContainerID string
	BaseURL        string

	EventFutureTolerance   time.Duration
	AnalyticsDefaultWindow time.Duration

	AdminTokens []string

	ClickHouseDSN     string
	DeliveryLogBuffer int
	DeliveryLogBatch  int
	DeliveryLogFlush  time.Duration
}

// MetaConfig configures the Conversions API client.
type MetaConfig struct {
	PixelID       string
	AccessToken   string
	TestEventCode string
	APIVersion    string
	GraphURL      string
	Timeout       time.Duration
	MaxAttempts   int
	RetryBackoff  time.Duration
}

// Enabled reports whether both the pixel id and the access token are set.
func (m MetaConfig) Enabled() bool {
	return m.PixelID != "" && m.AccessToken != ""
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", ":8080"),
		AppMode:       strings.ToLower(getEnv("APP_MODE", "development")),
		FiberPrefork:  parseBoolEnv("FIBER_PREFORK", false),
		MongoDatabase: getEnv("MONGODB_DATABASE", "eduexpress"),
		DBTimeout:     parseDurationEnv("DB_TIMEOUT", 5*time.Second),
		Meta: MetaConfig{
			PixelID:       strings.TrimSpace(os.Getenv("META_PIXEL_ID")),
			AccessToken:   strings.TrimSpace(os.Getenv("META_ACCESS_TOKEN")),
			TestEventCode: strings.TrimSpace(os.Getenv("META_TEST_EVENT_CODE")),
			APIVersion:    getEnv("META_API_VERSION", "v19.0"),
			GraphURL:      strings.TrimRight(getEnv("META_GRAPH_URL", "https://graph.facebook.com"), "/"),
			Timeout:       parseDurationEnv("CAPI_TIMEOUT", 4*time.Second),
			MaxAttempts:   parseIntEnv("CAPI_MAX_ATTEMPTS", 2),
			RetryBackoff:  parseDurationEnv("CAPI_RETRY_BACKOFF", 250*time.Millisecond),
		},
		GTMContainerID:         strings.TrimSpace(os.Getenv("GTM_CONTAINER_ID")),
		BaseURL:                strings.TrimRight(getEnv("BASE_URL", "https://eduexpressint.com"), "/"),
		EventFutureTolerance:   parseDurationEnv("EVENT_FUTURE_TOLERANCE", 2*time.Minute),
		AnalyticsDefaultWindow: parseDurationEnv("ANALYTICS_DEFAULT_WINDOW", 30*24*time.Hour),
		AdminTokens:            parseListEnv("ADMIN_API_TOKENS"),
		ClickHouseDSN:          strings.TrimSpace(os.Getenv("CLICKHOUSE_DSN")),
		DeliveryLogBuffer:      parseIntEnv("DELIVERY_LOG_BUFFER", 1000),
		DeliveryLogBatch:       parseIntEnv("DELIVERY_LOG_BATCH", 100),
		DeliveryLogFlush:       parseDurationEnv("DELIVERY_LOG_FLUSH", 5*time.Second),
	}
	cfg.MongoURI = strings.TrimSpace(os.Getenv("MONGODB_URI"))
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.Meta.MaxAttempts < 1 {
		cfg.Meta.MaxAttempts = 1
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseListEnv(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
