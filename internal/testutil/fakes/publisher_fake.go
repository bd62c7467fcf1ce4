package fakes

import (
	"context"
	"errors"
	"sync"

	platformEvents "github.com/dhima/wx-api/platform/events"
)

// FakePublisher captures published events and can simulate failures.
type FakePublisher struct {
	mu        sync.Mutex
	Events    []platformEvents.LookupEvent
	FailNext  bool
	FailError error
}

func (p *FakePublisher) Publish(_ context.Context, e platformEvents.LookupEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailNext {
		p.FailNext = false
		if p.FailError == nil {
			p.FailError = errors.New("publish failed")
		}
		return p.FailError
	}
	p.Events = append(p.Events, e)
	return nil
}

// Published returns a snapshot of the captured events.
func (p *FakePublisher) Published() []platformEvents.LookupEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]platformEvents.LookupEvent, len(p.Events))
	copy(out, p.Events)
	return out
}
