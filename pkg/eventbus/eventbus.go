// Package eventbus delivers committed store events to subscribers. The store
// publishes after every reduction; views and other observers register
// handlers per event type and see changes in dispatch order.
package eventbus

import (
	"context"

	"github.com/orbithq/orbit/pkg/events"
)

// Event is the published unit; every store event implements it.
type Event = events.Event

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
