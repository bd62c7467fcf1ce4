package scheduler

import "context"

// StaleMarker defines the store operation required by the reaper.
type StaleMarker interface {
	MarkStalePending(ctx context.Context, cutoff string) (int64, error)
}
