package lookup

import (
	"context"

	"github.com/dhima/wx-api/internal/models"
	platformEvents "github.com/dhima/wx-api/platform/events"
)

// RequestLogStore defines persistence required by the lookup Service.
type RequestLogStore interface {
	InsertPending(ctx context.Context, zipCode, timestamp string) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
	Recent(ctx context.Context, limit int) ([]models.RequestLog, error)
}

// Geocoder resolves a ZIP code to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, zipCode string) (models.Coordinates, error)
}

// Forecaster resolves coordinates to a short forecast.
type Forecaster interface {
	Resolve(ctx context.Context, coords models.Coordinates) (models.ForecastSummary, error)
}

// EventPublisher abstracts the Kafka publisher for testability.
type EventPublisher interface {
	Publish(ctx context.Context, event platformEvents.LookupEvent) error
}
