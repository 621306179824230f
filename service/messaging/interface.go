package messaging

import (
	"context"
)

// Queue represents an abstract message queue for any payload type.  Run
// event streams are modelled as queues so that the dispatcher can publish
// protocol events without knowing how (or how fast) the transport drains
// them.
type Queue[T any] interface {
	// Publish adds a new message with payload to the queue
	Publish(ctx context.Context, t *T) error

	// Consume retrieves a single message from the queue
	Consume(ctx context.Context) (Message[T], error)
}

// Message represents a message retrieved from a queue
type Message[T any] interface {
	// T returns the payload of this message
	T() *T

	// Ack acknowledges successful processing of this message
	Ack() error
}
