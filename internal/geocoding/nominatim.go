package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dhima/wx-api/internal/models"
	"go.uber.org/zap"
)

// ErrInvalidZip is the only failure the resolver reports: the lookup failed or
// found no match for the ZIP code.
var ErrInvalidZip = errors.New("invalid ZIP code or geocoding failed")

// invalidZipMessage is the caller-facing text of a geocoding failure.
const invalidZipMessage = "Invalid ZIP code or geocoding failed"

// Fetcher performs a GET and returns the body of a successful response.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// NominatimResolver resolves US postal codes with the Nominatim search API.
type NominatimResolver struct {
	baseURL string
	fetcher Fetcher
	logger  *zap.Logger
}

// NewNominatimResolver creates a resolver against baseURL,
// e.g. https://nominatim.openstreetmap.org.
func NewNominatimResolver(baseURL string, fetcher Fetcher, logger *zap.Logger) *NominatimResolver {
	return &NominatimResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		logger:  logger.With(zap.String("component", "geocoding")),
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve returns the coordinates of the first match for zipCode in the US.
// Every failure is an *models.UpstreamError wrapping ErrInvalidZip.
func (r *NominatimResolver) Resolve(ctx context.Context, zipCode string) (models.Coordinates, error) {
	query := url.Values{}
	query.Set("postalcode", zipCode)
	query.Set("country", "US")
	query.Set("format", "json")
	searchURL := r.baseURL + "/search?" + query.Encode()

	body, err := r.fetcher.Get(ctx, searchURL)
	if err != nil {
		r.logger.Warn("geocoding request failed",
			zap.String("zip_code", zipCode),
			zap.Error(err))
		return models.Coordinates{}, invalidZip(err)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		r.logger.Warn("failed to decode geocoding response",
			zap.String("zip_code", zipCode),
			zap.Error(err))
		return models.Coordinates{}, invalidZip(fmt.Errorf("decode search results: %w", err))
	}

	if len(results) == 0 {
		r.logger.Info("no geocoding match", zap.String("zip_code", zipCode))
		return models.Coordinates{}, invalidZip(nil)
	}

	first := results[0]
	if first.Lat == "" || first.Lon == "" {
		return models.Coordinates{}, invalidZip(errors.New("match has no coordinates"))
	}

	r.logger.Debug("zip code resolved",
		zap.String("zip_code", zipCode),
		zap.String("lat", first.Lat),
		zap.String("lon", first.Lon))

	return models.Coordinates{Latitude: first.Lat, Longitude: first.Lon}, nil
}

func invalidZip(cause error) error {
	err := ErrInvalidZip
	if cause != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidZip, cause)
	}
	return &models.UpstreamError{
		Kind:    models.UpstreamGeocode,
		Message: invalidZipMessage,
		Err:     err,
	}
}
