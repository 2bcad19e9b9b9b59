// Package messaging defines the outbound event port used after an order commits.
package messaging

import "context"

// Publisher publishes an event to a topic. key selects the partition.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishEvent(context.Context, string, string, any) error { return nil }
func (Noop) Close() error { return nil }
