package fakes

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/dhima/wx-api/internal/models"
	"github.com/dhima/wx-api/internal/storage"
)

// ErrStoreDown is the default error of a failing fake store.
var ErrStoreDown = errors.New("database is locked")

// FakeRequestLogStore is an in-memory request history with the same
// PENDING-once semantics as the SQL store.
type FakeRequestLogStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []models.RequestLog

	FailInsert error
	FailUpdate error
	FailRecent error
	FailCount  error
	FailPing   error

	// Updates counts successful status transitions per id.
	Updates map[int64]int
	// Calls records store operations in order, e.g. "insert", "update".
	Calls []string
}

func NewFakeRequestLogStore() *FakeRequestLogStore {
	return &FakeRequestLogStore{Updates: make(map[int64]int)}
}

func (f *FakeRequestLogStore) InsertPending(_ context.Context, zipCode, timestamp string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "insert")
	if f.FailInsert != nil {
		return 0, f.FailInsert
	}
	f.nextID++
	f.entries = append(f.entries, models.RequestLog{
		ID:        f.nextID,
		ZipCode:   zipCode,
		Timestamp: timestamp,
		Status:    models.RequestStatusPending,
	})
	return f.nextID, nil
}

func (f *FakeRequestLogStore) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "update")
	if f.FailUpdate != nil {
		return f.FailUpdate
	}
	if !status.IsTerminal() {
		return storage.ErrNonTerminalStatus
	}
	for i := range f.entries {
		if f.entries[i].ID == id && f.entries[i].Status == models.RequestStatusPending {
			f.entries[i].Status = status
			f.Updates[id]++
			return nil
		}
	}
	return storage.ErrRequestLogNotPending
}

func (f *FakeRequestLogStore) Recent(_ context.Context, limit int) ([]models.RequestLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "recent")
	if f.FailRecent != nil {
		return nil, f.FailRecent
	}
	out := make([]models.RequestLog, len(f.entries))
	copy(out, f.entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp > out[j].Timestamp
		}
		return out[i].ID > out[j].ID
	})
	if limit <= 0 {
		limit = storage.DefaultRecentLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeRequestLogStore) CountByStatus(_ context.Context) (map[models.RequestStatus]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCount != nil {
		return nil, f.FailCount
	}
	counts := map[models.RequestStatus]int64{
		models.RequestStatusPending: 0,
		models.RequestStatusSuccess: 0,
		models.RequestStatusFailed:  0,
	}
	for _, e := range f.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (f *FakeRequestLogStore) MarkStalePending(_ context.Context, cutoff string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "mark_stale")
	if f.FailUpdate != nil {
		return 0, f.FailUpdate
	}
	var n int64
	for i := range f.entries {
		if f.entries[i].Status == models.RequestStatusPending && f.entries[i].Timestamp < cutoff {
			f.entries[i].Status = models.RequestStatusFailed
			n++
		}
	}
	return n, nil
}

func (f *FakeRequestLogStore) Ping(_ context.Context) error {
	return f.FailPing
}

// Entries returns a snapshot of every stored entry in insertion order.
func (f *FakeRequestLogStore) Entries() []models.RequestLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RequestLog, len(f.entries))
	copy(out, f.entries)
	return out
}
