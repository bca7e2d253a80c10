// Package events carries in-process notifications between the catalog,
// favorites, leads and tours modules.
package events

import (
	"context"
	"time"
)

// Event is a named fact published after a write commits.
type Event interface {
	// EventName is the key handlers subscribe under.
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events for their timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns the publish time in UTC.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one published event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Bus fans events out to the handlers subscribed under their name.
type Bus interface {
	// Publish dispatches without waiting; handler failures are only logged.
	Publish(ctx context.Context, event Event)
	// PublishSync runs handlers in order and stops at the first error.
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
