// Package inproc delivers events between goroutines of one process using a
// Watermill GoChannel. It stands in for Kafka when no broker is configured.
package inproc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/messaging"
)

const keyMetadata = "key"

type broker struct {
	pubsub *gochannel.GoChannel
	log    *zap.Logger
}

// NewBroker creates a publisher and subscriber sharing one GoChannel.
// Messages published to a topic with no subscribers are dropped.
func NewBroker(log *zap.Logger) (messaging.Publisher, messaging.Subscriber) {
	b := &broker{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{}),
		log:    log,
	}
	return b, b
}

func (b *broker) PublishEvent(_ context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(keyMetadata, key)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *broker) Close() error {
	return b.pubsub.Close()
}

// Consume ignores groupID: every subscriber receives every message.
func (b *broker) Consume(ctx context.Context, topic string, _ string, handler func(ctx context.Context, payload []byte) error) {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		b.log.Error("Failed to subscribe", zap.String("topic", topic), zap.Error(err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Consumer shutting down", zap.String("topic", topic))
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := handler(ctx, msg.Payload); err != nil {
				b.log.Error("Error handling message", zap.String("topic", topic), zap.Error(err))
			}
			msg.Ack()
		}
	}
}
