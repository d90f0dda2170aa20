// Package messaging defines the outbound event abstraction used by the catalog.
package messaging

import (
	"context"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

// IdentifiedEvent is an Event with a unique id. Brokers that support it use the id
// to deduplicate retried publishes.
type IdentifiedEvent interface {
	Event
	MessageID() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
