package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhima/wx-api/internal/models"
	"github.com/dhima/wx-api/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *NominatimResolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := upstream.New(upstream.Config{Name: "nominatim", UserAgent: "wx-api-test"}, srv.Client())
	return NewNominatimResolver(srv.URL+"/", client, zap.NewNop())
}

func TestResolve_WhenMatchFound_ThenReturnsFirstCoordinatesVerbatim(t *testing.T) {
	// Arrange
	var gotPath string
	var gotQuery map[string][]string
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"lat":"34.1","lon":"-118.4","display_name":"Beverly Hills"},{"lat":"0","lon":"0"}]`))
	})

	// Act
	coords, err := resolver.Resolve(context.Background(), "90210")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Latitude: "34.1", Longitude: "-118.4"}, coords)
	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "90210", gotQuery["postalcode"][0])
	assert.Equal(t, "US", gotQuery["country"][0])
	assert.Equal(t, "json", gotQuery["format"][0])
}

func TestResolve_WhenNoMatch_ThenReturnsInvalidZip(t *testing.T) {
	// Arrange
	resolver := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	// Act
	_, err := resolver.Resolve(context.Background(), "00000")

	// Assert
	assert.ErrorIs(t, err, ErrInvalidZip)
	var upErr *models.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, models.UpstreamGeocode, upErr.Kind)
}

func TestResolve_WhenUpstreamFails_ThenReturnsInvalidZip(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "forbidden",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"}`))
			},
		},
		{
			name: "match without coordinates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"display_name":"Nowhere"}]`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestResolver(t, tt.handler)

			_, err := resolver.Resolve(context.Background(), "90210")

			assert.ErrorIs(t, err, ErrInvalidZip)
		})
	}
}
