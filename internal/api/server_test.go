package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhima/wx-api/internal/logging"
	"github.com/dhima/wx-api/internal/models"
	"github.com/dhima/wx-api/internal/storage"
	"github.com/dhima/wx-api/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newUpstreams serves a geocoder that knows only 90210 and an NWS stub with
// two forecast periods.
func newUpstreams(t *testing.T) (geocoderURL, nwsURL string) {
	t.Helper()

	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("postalcode") == "90210" {
			_, _ = w.Write([]byte(`[{"lat":"34.1","lon":"-118.4"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(geo.Close)

	var nws *httptest.Server
	nws = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/points/34.1,-118.4":
			_, _ = fmt.Fprintf(w, `{"properties":{"forecast":"%s/gridpoints/LOX/149,48/forecast"}}`, nws.URL)
		case "/gridpoints/LOX/149,48/forecast":
			_, _ = w.Write([]byte(`{"properties":{"periods":[
				{"name":"Tonight","detailedForecast":"Clear, with a low around 55."},
				{"name":"Tuesday","detailedForecast":"Sunny, with a high near 75."},
				{"name":"Tuesday Night","detailedForecast":"Clear."}
			]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(nws.Close)

	return geo.URL, nws.URL
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	geocoderURL, nwsURL := newUpstreams(t)
	return newTestServerFor(t, geocoderURL, nwsURL)
}

func newTestServerFor(t *testing.T, geocoderURL, nwsURL string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.Open(context.Background(), storage.DriverSQLite, filepath.Join(t.TempDir(), "wx_api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.App{
		APIPort:                 "0",
		Environment:             "test",
		LogLevel:                "error",
		CORSOrigins:             []string{"*"},
		DBDriver:                storage.DriverSQLite,
		GeocoderBaseURL:         geocoderURL,
		GeocoderUserAgent:       "wx-api-test",
		NWSUserAgent:            "wx-api-nws-test",
		NWSBaseURL:              nwsURL,
		UpstreamTimeout:         5 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      time.Second,
		KafkaTopic:              "wx-api.lookups",
		ReaperSchedule:          "@every 5m",
		ReaperStaleAfter:        10 * time.Minute,
	}

	srv, err := New(cfg, logging.NewNoOpLogger(), db)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServer_WhenKnownZipRequested_ThenReturnsForecastAndLogsSuccess(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	w := get(t, srv, "/90210")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"zip_code": "90210",
		"weather": {
			"location": "34.1, -118.4",
			"Valid Time 1": "Tonight", "Forecast 1": "Clear, with a low around 55.",
			"Valid Time 2": "Tuesday", "Forecast 2": "Sunny, with a high near 75."
		},
		"status": "SUCCESS"
	}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	history := get(t, srv, "/requests")
	var body models.RecentRequestsResponse
	require.NoError(t, json.Unmarshal(history.Body.Bytes(), &body))
	require.Len(t, body.RecentRequests, 1)
	assert.Equal(t, "90210", body.RecentRequests[0].ZipCode)
	assert.Equal(t, models.RequestStatusSuccess, body.RecentRequests[0].Status)
}

func TestServer_WhenUnknownZipRequested_ThenReturnsFailedBody(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	w := get(t, srv, "/00000")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"zip_code":"00000","weather":{"error":"Unable to fetch weather data"},"status":"FAILED"}`, w.Body.String())
}

func TestServer_WhenZipInvalid_ThenReturns400AndLogsNothing(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	w := get(t, srv, "/9021a")

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Invalid ZIP code"`)

	history := get(t, srv, "/requests")
	assert.JSONEq(t, `{"recent_requests":[]}`, history.Body.String())
}

func TestServer_WhenSystemEndpointsCalled_ThenReportState(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	get(t, srv, "/90210")
	get(t, srv, "/00000")

	// Act
	health := get(t, srv, "/health")
	metrics := get(t, srv, "/metrics")

	// Assert
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"status":"ok"`)

	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.JSONEq(t, `{"data":{"requests_total":2,"requests_pending":0,"requests_success":1,"requests_failed":1}}`, metrics.Body.String())
}

func TestServer_WhenPathHasExtraSegments_ThenReturns404Envelope(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/90210/extra")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"not found"`)
}

func TestServer_WhenUpstreamsCalled_ThenEachGetsItsOwnUserAgent(t *testing.T) {
	// Arrange
	var geocoderAgent, nwsAgent string
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		geocoderAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[{"lat":"34.1","lon":"-118.4"}]`))
	}))
	t.Cleanup(geo.Close)
	nws := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nwsAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(nws.Close)
	srv := newTestServerFor(t, geo.URL, nws.URL)

	// Act
	w := get(t, srv, "/90210")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wx-api-test", geocoderAgent)
	assert.Equal(t, "wx-api-nws-test", nwsAgent)
}
