package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publish sends one typed event to its topic.
type Publish[T any] func(event *T) error

// NewPublishFunc binds an event type to a topic on the given publisher.
func NewPublishFunc[T any](publisher message.Publisher, topic string) Publish[T] {
	return func(event *T) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)

		return publisher.Publish(topic, msg)
	}
}

// NoopPublish is a publish function that discards events, used when the
// bus is not configured and in tests.
func NoopPublish[T any]() Publish[T] {
	return func(_ *T) error { return nil }
}

// PublisherGroup owns the underlying publisher's lifecycle.
type PublisherGroup struct {
	publisher message.Publisher
}

// NewPublisherGroup wraps a publisher.
func NewPublisherGroup(publisher message.Publisher) *PublisherGroup {
	return &PublisherGroup{publisher: publisher}
}

// Publisher exposes the raw publisher for creating typed publish
// functions.
func (g *PublisherGroup) Publisher() message.Publisher {
	return g.publisher
}

// Shutdown closes the underlying publisher.
func (g *PublisherGroup) Shutdown() error {
	return g.publisher.Close()
}
