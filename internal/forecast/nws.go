package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dhima/wx-api/internal/models"
	"go.uber.org/zap"
)

const (
	gridpointFailureMessage = "Failed to fetch NOAA gridpoint data"
	forecastFailureMessage  = "Failed to fetch NOAA forecast data"
)

// ErrUnexpectedDocument means an upstream document did not have the expected shape.
var ErrUnexpectedDocument = errors.New("unexpected document shape")

// Fetcher performs a GET and returns the body of a successful response.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// NWSResolver turns coordinates into a short forecast using the two-step
// api.weather.gov flow: /points lookup, then the gridpoint forecast it links to.
type NWSResolver struct {
	baseURL string
	fetcher Fetcher
	schemas *documentSchemas
	logger  *zap.Logger
}

// NewNWSResolver creates a resolver against baseURL, e.g. https://api.weather.gov.
func NewNWSResolver(baseURL string, fetcher Fetcher, logger *zap.Logger) (*NWSResolver, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &NWSResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		schemas: schemas,
		logger:  logger.With(zap.String("component", "forecast")),
	}, nil
}

type pointsDocument struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastDocument struct {
	Properties struct {
		Periods []struct {
			Name             string `json:"name"`
			DetailedForecast string `json:"detailedForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

// Resolve returns up to models.MaxForecastPeriods periods for coords.
// Failures are *models.UpstreamError values of kind gridpoint or forecast.
func (r *NWSResolver) Resolve(ctx context.Context, coords models.Coordinates) (models.ForecastSummary, error) {
	forecastURL, err := r.gridpointForecastURL(ctx, coords)
	if err != nil {
		r.logger.Warn("gridpoint lookup failed",
			zap.String("location", coords.String()),
			zap.Error(err))
		return models.ForecastSummary{}, &models.UpstreamError{
			Kind:    models.UpstreamGridpoint,
			Message: gridpointFailureMessage,
			Err:     err,
		}
	}

	periods, err := r.periods(ctx, forecastURL)
	if err != nil {
		r.logger.Warn("forecast lookup failed",
			zap.String("location", coords.String()),
			zap.String("forecast_url", forecastURL),
			zap.Error(err))
		return models.ForecastSummary{}, &models.UpstreamError{
			Kind:    models.UpstreamForecast,
			Message: forecastFailureMessage,
			Err:     err,
		}
	}

	return models.ForecastSummary{
		Location: coords.String(),
		Periods:  periods,
	}, nil
}

func (r *NWSResolver) gridpointForecastURL(ctx context.Context, coords models.Coordinates) (string, error) {
	pointsURL := fmt.Sprintf("%s/points/%s,%s", r.baseURL, coords.Latitude, coords.Longitude)

	body, err := r.fetcher.Get(ctx, pointsURL)
	if err != nil {
		return "", err
	}
	if err := validate(r.schemas.points, body); err != nil {
		return "", err
	}

	var doc pointsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to decode points document: %w", err)
	}
	return doc.Properties.Forecast, nil
}

func (r *NWSResolver) periods(ctx context.Context, forecastURL string) ([]models.ForecastPeriod, error) {
	body, err := r.fetcher.Get(ctx, forecastURL)
	if err != nil {
		return nil, err
	}
	if err := validate(r.schemas.forecast, body); err != nil {
		return nil, err
	}

	var doc forecastDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode forecast document: %w", err)
	}

	src := doc.Properties.Periods
	if len(src) > models.MaxForecastPeriods {
		src = src[:models.MaxForecastPeriods]
	}
	periods := make([]models.ForecastPeriod, 0, len(src))
	for _, p := range src {
		periods = append(periods, models.ForecastPeriod{
			Name:             p.Name,
			DetailedForecast: p.DetailedForecast,
		})
	}
	return periods, nil
}
