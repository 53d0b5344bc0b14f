package events_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naturl/naturl/internal/events"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes the event on its topic", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := events.NewPublishFunc[events.LinkCreatedEvent](mock, events.TopicLinkCreated)

		err := publish(&events.LinkCreatedEvent{
			Code:        "abc123",
			OriginalURL: "https://example.com",
			CreatedAt:   time.Now().UTC(),
		})

		require.NoError(t, err)
		assert.Equal(t, events.TopicLinkCreated, mock.topic)
		require.Len(t, mock.messages, 1)
		assert.Contains(t, string(mock.messages[0].Payload), `"code":"abc123"`)
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := events.NewPublishFunc[events.LinkResolvedEvent](mock, events.TopicLinkResolved)

		err := publish(&events.LinkResolvedEvent{Code: "abc123"})

		assert.Error(t, err)
	})
}

func TestNoopPublish(t *testing.T) {
	publish := events.NoopPublish[events.LinkCreatedEvent]()

	assert.NoError(t, publish(&events.LinkCreatedEvent{Code: "abc123"}))
}

func TestPublisherGroup(t *testing.T) {
	t.Run("returns underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := events.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shuts down successfully", func(t *testing.T) {
		mock := &mockPublisher{}
		group := events.NewPublisherGroup(mock)

		require.NoError(t, group.Shutdown())
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		group := events.NewPublisherGroup(mock)

		assert.Error(t, group.Shutdown())
	})
}
