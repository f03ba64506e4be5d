package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. The broadcaster delivers
// one channel per connected subscriber over it.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
