package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/events"
)

type mockSubscriber struct {
	msgChan      chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		msgChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	return m.msgChan, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.msgChan)
	}

	return nil
}

func TestConsumer_Start(t *testing.T) {
	t.Run("starts successfully", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := events.NewConsumer(
			sub,
			events.TopicLinkCreated,
			func(_ context.Context, _ *events.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		)

		err := consumer.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, events.TopicLinkCreated, consumer.Topic())

		_ = consumer.Shutdown()
	})

	t.Run("returns error when subscribe fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		consumer := events.NewConsumer(
			sub,
			events.TopicLinkCreated,
			func(_ context.Context, _ *events.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		)

		err := consumer.Start(context.Background())

		assert.Error(t, err)
	})
}

func TestConsumer_HandleMessage(t *testing.T) {
	t.Run("acks on successful handling", func(t *testing.T) {
		sub := newMockSubscriber()

		var received *events.LinkCreatedEvent

		consumer := events.NewConsumer(
			sub,
			events.TopicLinkCreated,
			func(_ context.Context, event *events.LinkCreatedEvent) error {
				received = event

				return nil
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		payload, _ := json.Marshal(&events.LinkCreatedEvent{
			Code:        "abc123",
			OriginalURL: "https://example.com",
		})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.msgChan <- msg

		select {
		case <-msg.Acked():
			assert.Equal(t, "abc123", received.Code)
			assert.Equal(t, "https://example.com", received.OriginalURL)
		case <-msg.Nacked():
			t.Fatal("message was nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for ack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks on unmarshal error", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := events.NewConsumer(
			sub,
			events.TopicLinkCreated,
			func(_ context.Context, _ *events.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		msg := message.NewMessage(uuid.NewString(), []byte("invalid json"))

		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
			// Success
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks on handler error", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := events.NewConsumer(
			sub,
			events.TopicLinkResolved,
			func(_ context.Context, _ *events.LinkResolvedEvent) error {
				return errors.New("handler error")
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		payload, _ := json.Marshal(&events.LinkResolvedEvent{Code: "abc123"})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
			// Success
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and stops all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := events.NewConsumerGroup(sub, zap.NewNop())

		group.Add(events.NewConsumer(
			sub,
			events.TopicLinkCreated,
			func(_ context.Context, _ *events.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		))
		group.Add(events.NewConsumer(
			sub,
			events.TopicLinkResolved,
			func(_ context.Context, _ *events.LinkResolvedEvent) error { return nil },
			zap.NewNop(),
		))

		require.NoError(t, group.Start(context.Background()))
		require.NoError(t, group.Shutdown())
	})

	t.Run("unwinds started consumers when one fails", func(t *testing.T) {
		okSub := newMockSubscriber()
		failSub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		group := events.NewConsumerGroup(okSub, zap.NewNop())

		group.Add(events.NewConsumer(
			okSub,
			events.TopicLinkCreated,
			func(_ context.Context, _ *events.LinkCreatedEvent) error { return nil },
			zap.NewNop(),
		))
		group.Add(events.NewConsumer(
			failSub,
			events.TopicLinkResolved,
			func(_ context.Context, _ *events.LinkResolvedEvent) error { return nil },
			zap.NewNop(),
		))

		assert.Error(t, group.Start(context.Background()))
	})
}
