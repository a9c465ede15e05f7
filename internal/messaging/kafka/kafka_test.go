package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type step struct {
	msg kafkaGo.Message
	err error
}

// scriptedReader replays steps, then cancels the consumer.
type scriptedReader struct {
	steps  []step
	cancel context.CancelFunc
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafkaGo.Message, error) {
	if len(r.steps) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafkaGo.Message{}, ctx.Err()
	}
	s := r.steps[0]
	r.steps = r.steps[1:]
	return s.msg, s.err
}

func (r *scriptedReader) Close() error { return nil }

func TestConsume_BacksOffOnReadErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	down := errors.New("dial tcp: connection refused")
	steps := []step{}
	for i := 0; i < 8; i++ {
		steps = append(steps, step{err: down})
	}
	steps = append(steps, step{msg: kafkaGo.Message{Value: []byte(`{"order_id":1}`)}}, step{err: down})
	reader := &scriptedReader{steps: steps, cancel: cancel}

	var slept []time.Duration
	record := func(_ context.Context, d time.Duration) bool {
		slept = append(slept, d)
		return true
	}

	var handled []string
	k := &kafkaBroker{log: zap.NewNop()}
	k.consume(ctx, reader, "orders.created", func(_ context.Context, payload []byte) error {
		handled = append(handled, string(payload))
		return nil
	}, newRetryBackOff(0), record)

	require.Equal(t, []string{`{"order_id":1}`}, handled)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond,
		1600 * time.Millisecond, 3200 * time.Millisecond, 5 * time.Second, 5 * time.Second,
		100 * time.Millisecond,
	}, slept, "delay doubles up to the cap and resets after a successful read")
}

func TestConsume_StopsWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &scriptedReader{steps: []step{{err: errors.New("broker down")}, {err: errors.New("broker down")}}, cancel: cancel}

	calls := 0
	k := &kafkaBroker{log: zap.NewNop()}
	k.consume(ctx, reader, "orders.created", func(context.Context, []byte) error { return nil }, newRetryBackOff(0),
		func(context.Context, time.Duration) bool {
			calls++
			return false
		})

	assert.Equal(t, 1, calls, "a cancelled wait ends the loop")
}

func TestRetryBackOff_JitterStaysNearSchedule(t *testing.T) {
	b := newRetryBackOff(0.2)
	for _, base := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond} {
		d := b.NextBackOff()
		assert.GreaterOrEqual(t, d, base*8/10)
		assert.LessOrEqual(t, d, base*12/10+time.Millisecond)
	}
}

func TestSleepCtx(t *testing.T) {
	assert.True(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepCtx(ctx, time.Hour))
}
