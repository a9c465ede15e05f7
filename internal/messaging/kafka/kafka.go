package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/messaging"
)

type kafkaBroker struct {
	brokers []string
	writer  *kafkaGo.Writer
	log     *zap.Logger
}

// NewKafkaBroker creates a new Kafka publisher and subscriber. The writer is
// shared by every topic; the topic is set per message.
func NewKafkaBroker(brokers []string, log *zap.Logger) (messaging.Publisher, messaging.Subscriber) {
	kb := &kafkaBroker{
		brokers: brokers,
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		log: log,
	}
	return kb, kb
}

func (k *kafkaBroker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}
	return nil
}

func (k *kafkaBroker) Close() error {
	return k.writer.Close()
}

// Read errors are retried with exponential backoff between these bounds.
const (
	minRetryDelay = 100 * time.Millisecond
	maxRetryDelay = 5 * time.Second
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafkaGo.Message, error)
	Close() error
}

func newRetryBackOff(jitter float64) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = minRetryDelay
	b.MaxInterval = maxRetryDelay
	b.Multiplier = 2
	b.RandomizationFactor = jitter
	b.Reset()
	return b
}

func (k *kafkaBroker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	defer reader.Close()

	k.consume(ctx, reader, topic, handler, newRetryBackOff(0.2), sleepCtx)
}

func (k *kafkaBroker) consume(
	ctx context.Context,
	reader messageReader,
	topic string,
	handler func(ctx context.Context, payload []byte) error,
	retry backoff.BackOff,
	sleep func(ctx context.Context, d time.Duration) bool,
) {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				k.log.Info("Consumer shutting down", zap.String("topic", topic))
				return
			}
			delay := retry.NextBackOff()
			k.log.Error("Error reading message", zap.String("topic", topic), zap.Duration("retry_in", delay), zap.Error(err))
			if !sleep(ctx, delay) {
				k.log.Info("Consumer shutting down", zap.String("topic", topic))
				return
			}
			continue
		}
		retry.Reset()

		if err := handler(ctx, msg.Value); err != nil {
			k.log.Error("Error handling message", zap.String("topic", topic), zap.Error(err))
		}
	}
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
