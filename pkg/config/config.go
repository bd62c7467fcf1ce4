package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App holds runtime configuration derived from env vars or files.
type App struct {
	APIPort     string
	Environment string
	LogLevel    string
	CORSOrigins []string

	DBDriver    string
	DatabaseURL string

	GeocoderBaseURL   string
	GeocoderUserAgent string
	NWSBaseURL        string
	NWSUserAgent      string

	UpstreamTimeout         time.Duration
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration

	// ForecastErrorsFailRequest records FAILED instead of SUCCESS when the
	// forecast phase errors after a successful geocode.
	ForecastErrorsFailRequest bool

	KafkaBrokers string
	KafkaTopic   string
	ZipkinURL    string

	ReaperSchedule   string
	ReaperStaleAfter time.Duration
}

// FromEnv loads the application configuration from environment variables.
// A .env file in the working directory is read first when present; variables
// already set in the environment win.
func FromEnv() App {
	_ = godotenv.Load()

	return App{
		APIPort:     getenvDefault("API_PORT", "8000"),
		Environment: getenvDefault("ENVIRONMENT", "production"),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getenvDefault("CORS_ORIGINS", "*")),

		DBDriver:    getenvDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: getenvDefault("DATABASE_URL", "wx_api.db"),

		GeocoderBaseURL:   getenvDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getenvDefault("GEOCODER_USER_AGENT", "wx-api"),
		NWSBaseURL:        getenvDefault("NWS_BASE_URL", "https://api.weather.gov"),
		NWSUserAgent:      getenvDefault("NWS_USER_AGENT", "wx-api"),

		UpstreamTimeout:         getenvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		BreakerFailureThreshold: uint32(getenvInt("BREAKER_FAILURE_THRESHOLD", 5)),
		BreakerOpenTimeout:      getenvDuration("BREAKER_OPEN_TIMEOUT", 30*time.Second),

		ForecastErrorsFailRequest: getenvBool("FORECAST_ERRORS_FAIL_REQUEST", false),

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getenvDefault("KAFKA_TOPIC", "wx-api.lookups"),
		ZipkinURL:    os.Getenv("ZIPKIN_URL"),

		ReaperSchedule:   getenvDefault("REAPER_SCHEDULE", "@every 5m"),
		ReaperStaleAfter: getenvDuration("REAPER_STALE_AFTER", 10*time.Minute),
	}
}

// KafkaBrokerList splits KafkaBrokers on commas. Empty means publishing is disabled.
func (a App) KafkaBrokerList() []string {
	return splitList(a.KafkaBrokers)
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
