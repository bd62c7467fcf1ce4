package config

import (
	"testing"
	"time"
)

var configEnvVars = []string{
	"API_PORT", "ENVIRONMENT", "LOG_LEVEL", "CORS_ORIGINS",
	"DB_DRIVER", "DATABASE_URL",
	"GEOCODER_BASE_URL", "GEOCODER_USER_AGENT", "NWS_BASE_URL", "NWS_USER_AGENT",
	"UPSTREAM_TIMEOUT", "BREAKER_FAILURE_THRESHOLD", "BREAKER_OPEN_TIMEOUT",
	"FORECAST_ERRORS_FAIL_REQUEST",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "ZIPKIN_URL",
	"REAPER_SCHEDULE", "REAPER_STALE_AFTER",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
}

func TestFromEnv_WhenAllVariablesSet_ThenReturnsConfigWithSetValues(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("API_PORT", "9000")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "user:pass@tcp(localhost:3306)/wx")
	t.Setenv("GEOCODER_BASE_URL", "http://geo.local")
	t.Setenv("GEOCODER_USER_AGENT", "wx-test")
	t.Setenv("NWS_BASE_URL", "http://nws.local")
	t.Setenv("NWS_USER_AGENT", "(wx-test, ops@example.com)")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "2")
	t.Setenv("BREAKER_OPEN_TIMEOUT", "1m")
	t.Setenv("FORECAST_ERRORS_FAIL_REQUEST", "true")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092,kafka2:9092")
	t.Setenv("KAFKA_TOPIC", "lookups")
	t.Setenv("ZIPKIN_URL", "http://zipkin:9411/api/v2/spans")
	t.Setenv("REAPER_SCHEDULE", "*/10 * * * *")
	t.Setenv("REAPER_STALE_AFTER", "30m")

	// Act
	config := FromEnv()

	// Assert
	if config.APIPort != "9000" {
		t.Errorf("expected APIPort to be '9000', got '%s'", config.APIPort)
	}
	if config.Environment != "development" {
		t.Errorf("expected Environment to be 'development', got '%s'", config.Environment)
	}
	if config.LogLevel != "debug" {
		t.Errorf("expected LogLevel to be 'debug', got '%s'", config.LogLevel)
	}
	if len(config.CORSOrigins) != 2 || config.CORSOrigins[1] != "https://example.com" {
		t.Errorf("unexpected CORS origins %v", config.CORSOrigins)
	}
	if config.DBDriver != "mysql" || config.DatabaseURL != "user:pass@tcp(localhost:3306)/wx" {
		t.Errorf("unexpected database settings %s %s", config.DBDriver, config.DatabaseURL)
	}
	if config.GeocoderBaseURL != "http://geo.local" || config.GeocoderUserAgent != "wx-test" {
		t.Errorf("unexpected geocoder settings %s %s", config.GeocoderBaseURL, config.GeocoderUserAgent)
	}
	if config.NWSBaseURL != "http://nws.local" {
		t.Errorf("expected NWSBaseURL 'http://nws.local', got '%s'", config.NWSBaseURL)
	}
	if config.NWSUserAgent != "(wx-test, ops@example.com)" {
		t.Errorf("expected NWSUserAgent '(wx-test, ops@example.com)', got '%s'", config.NWSUserAgent)
	}
	if config.UpstreamTimeout != 3*time.Second {
		t.Errorf("expected UpstreamTimeout 3s, got %v", config.UpstreamTimeout)
	}
	if config.BreakerFailureThreshold != 2 || config.BreakerOpenTimeout != time.Minute {
		t.Errorf("unexpected breaker settings %d %v", config.BreakerFailureThreshold, config.BreakerOpenTimeout)
	}
	if !config.ForecastErrorsFailRequest {
		t.Error("expected ForecastErrorsFailRequest to be true")
	}
	if brokers := config.KafkaBrokerList(); len(brokers) != 2 || brokers[0] != "kafka1:9092" {
		t.Errorf("unexpected kafka brokers %v", brokers)
	}
	if config.KafkaTopic != "lookups" {
		t.Errorf("expected KafkaTopic 'lookups', got '%s'", config.KafkaTopic)
	}
	if config.ZipkinURL != "http://zipkin:9411/api/v2/spans" {
		t.Errorf("unexpected ZipkinURL '%s'", config.ZipkinURL)
	}
	if config.ReaperSchedule != "*/10 * * * *" || config.ReaperStaleAfter != 30*time.Minute {
		t.Errorf("unexpected reaper settings %s %v", config.ReaperSchedule, config.ReaperStaleAfter)
	}
}

func TestFromEnv_WhenNoVariablesSet_ThenReturnsDefaults(t *testing.T) {
	// Arrange
	clearConfigEnv(t)

	// Act
	config := FromEnv()

	// Assert
	if config.APIPort != "8000" {
		t.Errorf("expected APIPort to be '8000', got '%s'", config.APIPort)
	}
	if config.Environment != "production" {
		t.Errorf("expected Environment to be 'production', got '%s'", config.Environment)
	}
	if config.LogLevel != "info" {
		t.Errorf("expected LogLevel to be 'info', got '%s'", config.LogLevel)
	}
	if len(config.CORSOrigins) != 1 || config.CORSOrigins[0] != "*" {
		t.Errorf("expected CORS origins to be ['*'], got %v", config.CORSOrigins)
	}
	if config.DBDriver != "sqlite" || config.DatabaseURL != "wx_api.db" {
		t.Errorf("unexpected database defaults %s %s", config.DBDriver, config.DatabaseURL)
	}
	if config.GeocoderBaseURL != "https://nominatim.openstreetmap.org" {
		t.Errorf("unexpected geocoder default '%s'", config.GeocoderBaseURL)
	}
	if config.NWSBaseURL != "https://api.weather.gov" {
		t.Errorf("unexpected NWS default '%s'", config.NWSBaseURL)
	}
	if config.UpstreamTimeout != 10*time.Second {
		t.Errorf("expected UpstreamTimeout 10s, got %v", config.UpstreamTimeout)
	}
	if config.BreakerFailureThreshold != 5 || config.BreakerOpenTimeout != 30*time.Second {
		t.Errorf("unexpected breaker defaults %d %v", config.BreakerFailureThreshold, config.BreakerOpenTimeout)
	}
	if config.ForecastErrorsFailRequest {
		t.Error("expected ForecastErrorsFailRequest to default to false")
	}
	if len(config.KafkaBrokerList()) != 0 {
		t.Errorf("expected no kafka brokers, got %v", config.KafkaBrokerList())
	}
	if config.ReaperSchedule != "@every 5m" || config.ReaperStaleAfter != 10*time.Minute {
		t.Errorf("unexpected reaper defaults %s %v", config.ReaperSchedule, config.ReaperStaleAfter)
	}
}

func TestFromEnv_WhenValuesMalformed_ThenFallsBackToDefaults(t *testing.T) {
	// Arrange
	clearConfigEnv(t)
	t.Setenv("UPSTREAM_TIMEOUT", "soon")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "-3")
	t.Setenv("FORECAST_ERRORS_FAIL_REQUEST", "maybe")

	// Act
	config := FromEnv()

	// Assert
	if config.UpstreamTimeout != 10*time.Second {
		t.Errorf("expected UpstreamTimeout 10s, got %v", config.UpstreamTimeout)
	}
	if config.BreakerFailureThreshold != 5 {
		t.Errorf("expected BreakerFailureThreshold 5, got %d", config.BreakerFailureThreshold)
	}
	if config.ForecastErrorsFailRequest {
		t.Error("expected ForecastErrorsFailRequest to stay false")
	}
}

func TestSplitList_WhenMultipleOriginsWithWhitespace_ThenTrimsCorrectly(t *testing.T) {
	// Act
	origins := splitList(" http://localhost:3000 , https://example.com ,  ")

	// Assert
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins after trimming, got %d", len(origins))
	}
	if origins[0] != "http://localhost:3000" {
		t.Errorf("expected first origin to be 'http://localhost:3000', got '%s'", origins[0])
	}
	if origins[1] != "https://example.com" {
		t.Errorf("expected second origin to be 'https://example.com', got '%s'", origins[1])
	}
}

func TestSplitList_WhenOnlyWhitespace_ThenReturnsEmpty(t *testing.T) {
	// Act
	origins := splitList("   ,  ,  ")

	// Assert
	if len(origins) != 0 {
		t.Errorf("expected empty slice, got %v", origins)
	}
}

func TestGetenvDefault_WhenVariableSet_ThenReturnsValue(t *testing.T) {
	// Arrange
	t.Setenv("WX_TEST_VAR", "custom_value")

	// Act
	result := getenvDefault("WX_TEST_VAR", "default_value")

	// Assert
	if result != "custom_value" {
		t.Errorf("expected 'custom_value', got '%s'", result)
	}
}

func TestGetenvDefault_WhenVariableEmpty_ThenReturnsDefault(t *testing.T) {
	// Arrange
	t.Setenv("WX_EMPTY_VAR", "  ")

	// Act
	result := getenvDefault("WX_EMPTY_VAR", "default_value")

	// Assert
	if result != "default_value" {
		t.Errorf("expected 'default_value', got '%s'", result)
	}
}
