// Package editorsync pushes block model changes to an editor front end.
package editorsync

import (
	"context"
	"sync"

	"github.com/specialistvlad/flowblock/internal/nested"
)

// Event names.
const (
	EventBlockUpdated = "block_updated"
	EventBlockRemoved = "block_removed"
	EventGraphLoaded  = "graph_loaded"
)

// Event is one change notification.
type Event struct {
	Name    string
	BlockID string
	// Data is the exported block, or nil when the event carries no block.
	Data *nested.Data
}

// Payload returns the event body as sent on the wire.
func (e Event) Payload() map[string]any {
	p := map[string]any{"block_id": e.BlockID}
	if e.Data != nil {
		p["data"] = e.Data
	}
	return p
}

// Publisher delivers events. Implementations are safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// RecordingPublisher keeps every event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher.
func (r *RecordingPublisher) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Close implements Publisher.
func (r *RecordingPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (r *RecordingPublisher) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the names of the recorded events in order.
func (r *RecordingPublisher) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		names = append(names, ev.Name)
	}
	return names
}
