package handlers

import (
	"context"

	"github.com/dhima/wx-api/internal/models"
)

// WeatherService runs a logged weather lookup for a ZIP code.
type WeatherService interface {
	Lookup(ctx context.Context, zipCode string) (*models.WeatherResponse, error)
}

// RecentRequestsReader reads the request history.
type RecentRequestsReader interface {
	Recent(ctx context.Context) ([]models.RequestLog, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusCounter counts logged requests per status.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[models.RequestStatus]int64, error)
}
