package lookup

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/dhima/wx-api/internal/models"
	"github.com/dhima/wx-api/internal/storage"
	platformEvents "github.com/dhima/wx-api/platform/events"
	"github.com/dhima/wx-api/pkg/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// unavailableMessage is the weather payload of a request whose ZIP code
// could not be geocoded.
const unavailableMessage = "Unable to fetch weather data"

var zipCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// Service runs weather lookups and records each one in the request history.
type Service struct {
	store      RequestLogStore
	geocoder   Geocoder
	forecaster Forecaster
	publisher  EventPublisher
	logger     *zap.Logger
	clock      clock.Clock
	tracer     trace.Tracer

	failOnForecastError bool
}

// NewService creates a lookup Service. publisher may be nil to disable
// lifecycle events.
func NewService(store RequestLogStore, geocoder Geocoder, forecaster Forecaster, publisher EventPublisher, logger *zap.Logger) *Service {
	return NewServiceWithClock(store, geocoder, forecaster, publisher, logger, clock.RealClock{})
}

// NewServiceWithClock allows injecting a clock for deterministic timestamps.
func NewServiceWithClock(store RequestLogStore, geocoder Geocoder, forecaster Forecaster, publisher EventPublisher, logger *zap.Logger, c clock.Clock) *Service {
	return &Service{
		store:      store,
		geocoder:   geocoder,
		forecaster: forecaster,
		publisher:  publisher,
		logger:     logger.With(zap.String("component", "lookup")),
		clock:      c,
		tracer:     otel.Tracer("github.com/dhima/wx-api/internal/lookup"),
	}
}

// FailOnForecastError makes a forecast failure record the request as FAILED
// instead of SUCCESS. The error payload is returned either way.
func (s *Service) FailOnForecastError(enabled bool) *Service {
	s.failOnForecastError = enabled
	return s
}

// Lookup validates zipCode, logs it as PENDING, resolves its forecast and
// records the terminal status. Upstream failures are reported in the
// response body; only validation and storage failures return an error.
func (s *Service) Lookup(ctx context.Context, zipCode string) (*models.WeatherResponse, error) {
	if !zipCodePattern.MatchString(zipCode) {
		return nil, NewValidationError("Invalid ZIP code")
	}

	ctx, span := s.tracer.Start(ctx, "lookup.Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("zip_code", zipCode))

	timestamp := models.FormatTimestamp(s.clock.Now())
	logID, err := s.store.InsertPending(ctx, zipCode, timestamp)
	if err != nil {
		s.logger.Error("failed to record pending request",
			zap.String("zip_code", zipCode),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert pending failed")
		return nil, fmt.Errorf("failed to record request: %w", err)
	}
	span.SetAttributes(attribute.Int64("request_log.id", logID))

	weather, status, cause := s.resolve(ctx, zipCode)

	// The outcome is recorded even if the caller has gone away.
	recordCtx := context.WithoutCancel(ctx)
	if err := s.store.UpdateStatus(recordCtx, logID, status); err != nil {
		s.logger.Error("failed to record request status",
			zap.Int64("log_id", logID),
			zap.String("zip_code", zipCode),
			zap.String("status", string(status)),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update status failed")
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	span.SetAttributes(attribute.String("status", string(status)))

	s.publish(recordCtx, logID, zipCode, timestamp, status, cause)

	s.logger.Info("weather lookup completed",
		zap.Int64("log_id", logID),
		zap.String("zip_code", zipCode),
		zap.String("status", string(status)))

	return &models.WeatherResponse{
		ZipCode: zipCode,
		Weather: weather,
		Status:  status,
	}, nil
}

// resolve runs the upstream hops and returns the weather payload, the
// terminal status and the upstream failure, if any.
func (s *Service) resolve(ctx context.Context, zipCode string) (any, models.RequestStatus, error) {
	coords, err := s.geocoder.Resolve(ctx, zipCode)
	if err != nil {
		s.logger.Info("zip code could not be geocoded",
			zap.String("zip_code", zipCode),
			zap.Error(err))
		return models.ErrorPayload{Error: unavailableMessage}, models.RequestStatusFailed, err
	}

	summary, err := s.forecaster.Resolve(ctx, coords)
	if err != nil {
		message := unavailableMessage
		var upErr *models.UpstreamError
		if errors.As(err, &upErr) {
			message = upErr.Message
		}

		status := models.RequestStatusSuccess
		if s.failOnForecastError {
			status = models.RequestStatusFailed
		}
		s.logger.Warn("forecast unavailable",
			zap.String("zip_code", zipCode),
			zap.String("location", coords.String()),
			zap.String("status", string(status)),
			zap.Error(err))
		return models.ErrorPayload{Error: message}, status, err
	}

	return summary, models.RequestStatusSuccess, nil
}

func (s *Service) publish(ctx context.Context, logID int64, zipCode, timestamp string, status models.RequestStatus, cause error) {
	if s.publisher == nil {
		return
	}

	event := platformEvents.LookupEvent{
		LogID:       logID,
		ZipCode:     zipCode,
		Status:      string(status),
		Timestamp:   timestamp,
		CompletedAt: s.clock.Now(),
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish lookup event",
			zap.Int64("log_id", logID),
			zap.Error(err))
	}
}

// Recent returns the most recently logged requests, newest first.
func (s *Service) Recent(ctx context.Context) ([]models.RequestLog, error) {
	entries, err := s.store.Recent(ctx, storage.DefaultRecentLimit)
	if err != nil {
		s.logger.Error("failed to read request history", zap.Error(err))
		return nil, ReadError{Err: err}
	}
	if entries == nil {
		entries = []models.RequestLog{}
	}
	return entries, nil
}
