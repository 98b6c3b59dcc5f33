package events

import (
	"context"
)

// Publisher delivers domain events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, exchange string, event *Event, headers Headers) error
	Close() error
}
