package fakes

import (
	"context"
	"sync"

	"github.com/dhima/wx-api/internal/models"
)

// FakeGeocoder returns fixed coordinates or a fixed error.
type FakeGeocoder struct {
	mu     sync.Mutex
	Coords models.Coordinates
	Err    error
	Calls  []string
	// OnResolve runs before the result is returned, e.g. to inspect the store.
	OnResolve func()
}

func (g *FakeGeocoder) Resolve(_ context.Context, zipCode string) (models.Coordinates, error) {
	g.mu.Lock()
	g.Calls = append(g.Calls, zipCode)
	hook := g.OnResolve
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
	if g.Err != nil {
		return models.Coordinates{}, g.Err
	}
	return g.Coords, nil
}

// FakeForecaster returns a fixed summary or a fixed error.
type FakeForecaster struct {
	mu      sync.Mutex
	Summary models.ForecastSummary
	Err     error
	Calls   []models.Coordinates
}

func (f *FakeForecaster) Resolve(_ context.Context, coords models.Coordinates) (models.ForecastSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, coords)
	if f.Err != nil {
		return models.ForecastSummary{}, f.Err
	}
	return f.Summary, nil
}
