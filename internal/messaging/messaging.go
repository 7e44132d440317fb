// Package messaging provides the broker abstraction used by message sinks.
// It lets sinks publish without being coupled to a specific broker.
package messaging

import (
	"context"
	"time"
)

// Message is a message sent to a message broker.
type Message struct {
	// Subject is the topic the message is published to.
	Subject string

	// Data is the raw payload.
	Data []byte

	// Metadata is carried as message headers.
	Metadata map[string]string

	// Timestamp is when the message was built.
	Timestamp time.Time
}

// Publisher publishes messages to subjects.
type Publisher interface {
	// Publish sends data to subject, fire-and-forget.
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishMsg sends a Message including its headers.
	PublishMsg(ctx context.Context, msg *Message) error

	// Close releases any resources held by the publisher.
	Close() error
}

// Client is a Publisher with connection lifecycle.
type Client interface {
	Publisher

	// Drain flushes pending messages and closes the connection.
	Drain() error

	// IsConnected returns true if the client is connected to the broker.
	IsConnected() bool
}
