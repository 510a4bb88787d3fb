package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"laundry-cycle-backend/internal/model"
)

// Type names what changed.
type Type string

const (
	LoadCreated          Type = "load.created"
	LoadUpdated          Type = "load.updated"
	DryerDurationChanged Type = "dryer.duration"
)

// Event is a change notification. It carries enough for a client to decide
// whether to refetch, not the full record.
type Event struct {
	ID          string           `json:"id"`
	Type        Type             `json:"type"`
	LoadID      string           `json:"load_id,omitempty"`
	Status      model.LoadStatus `json:"status,omitempty"`
	DryerNumber *int             `json:"dryer_number,omitempty"`
	Origin      string           `json:"origin,omitempty"`
	At          time.Time        `json:"at"`
}

// NewLoadEvent builds an event describing the current state of load.
func NewLoadEvent(typ Type, load model.Load, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		LoadID:      load.ID,
		Status:      load.Status,
		DryerNumber: load.DryerNumber,
		At:          at,
	}
}

// NewDryerEvent builds an event about a dryer setting.
func NewDryerEvent(dryer int, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        DryerDurationChanged,
		DryerNumber: &dryer,
		At:          at,
	}
}

// Publisher delivers change events to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Handler receives events from a Bus. Handlers run on the publishing goroutine
// and must not block.
type Handler func(Event)

// Bus is the in-process registry of change handlers.
type Bus struct {
	origin   string
	mu       sync.RWMutex
	handlers map[int]Handler
	next     int
}

// NewBus creates a bus that stamps published events with origin.
func NewBus(origin string) *Bus {
	if origin == "" {
		origin = uuid.NewString()
	}
	return &Bus{origin: origin, handlers: make(map[int]Handler)}
}

// Origin identifies this process on shared channels.
func (b *Bus) Origin() string {
	return b.origin
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers event to every local handler.
func (b *Bus) Publish(_ context.Context, event Event) error {
	if event.Origin == "" {
		event.Origin = b.origin
	}
	b.deliver(event)
	return nil
}

func (b *Bus) deliver(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// Multi publishes to several publishers, continuing past failures.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
