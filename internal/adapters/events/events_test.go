package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	channel string
	payload []byte
	err     error
	closed  bool
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, domain.LedgerEvent) error { return p.err }
func (p failingPublisher) Close() error                                       { return nil }

func sampleEvent() domain.LedgerEvent {
	fx := decimal.NewFromInt(-500)
	return domain.LedgerEvent{
		EventType:     domain.EventOperationPosted,
		OperationID:   42,
		OperationType: domain.OpFxBuy,
		Amount:        decimal.NewFromInt(100),
		Currency:      "USD",
		FxResult:      &fx,
		UserID:        1,
		OccurredAt:    time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisher_Publish(t *testing.T) {
	rdb := &fakeRedis{}
	p := newRedisPublisher(rdb, "", nil)

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, DefaultRedisChannel, rdb.channel)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rdb.payload, &got))
	assert.Equal(t, "operation.posted", got["event_type"])
	assert.Equal(t, "-500", got["fx_result"])

	require.NoError(t, p.Close())
	assert.True(t, rdb.closed)
}

func TestRedisPublisher_PublishError(t *testing.T) {
	p := newRedisPublisher(&fakeRedis{err: errors.New("connection refused")}, "custom", nil)
	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "connection refused")
}

func TestKafkaPublisher_KeysByOperation(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "event_type", Value: []byte("operation.posted")}}, msg.Headers)
	assert.Contains(t, string(msg.Value), `"operation_type":"FX_BUY"`)

	w.err = errors.New("leader not available")
	assert.ErrorContains(t, p.Publish(context.Background(), sampleEvent()), "leader not available")
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, NoopPublisher{}, NewPublisher())
	assert.IsType(t, NoopPublisher{}, NewPublisher(nil, nil))

	single := &KafkaPublisher{writer: &fakeWriter{}}
	assert.Same(t, single, NewPublisher(nil, single))
}

func TestMultiPublisher_DeliversDespiteFailures(t *testing.T) {
	w := &fakeWriter{}
	boom := errors.New("boom")
	p := NewPublisher(failingPublisher{err: boom}, &KafkaPublisher{writer: w})

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, w.msgs, 1)
	assert.NoError(t, p.Close())
}

// blockingPublisher holds every delivery until release is closed.
type blockingPublisher struct {
	release chan struct{}
	mu      sync.Mutex
	got     []int64
	closed  bool
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{release: make(chan struct{})}
}

func (p *blockingPublisher) Publish(_ context.Context, ev domain.LedgerEvent) error {
	<-p.release
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, ev.OperationID)
	return nil
}

func (p *blockingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *blockingPublisher) delivered() []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int64(nil), p.got...)
}

func TestAsyncPublisher_DoesNotWaitForDelivery(t *testing.T) {
	inner := newBlockingPublisher()
	p := NewAsyncPublisher(inner, 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	for id := int64(1); id <= 3; id++ {
		ev := sampleEvent()
		ev.OperationID = id
		require.NoError(t, p.Publish(ctx, ev))
	}
	// A finished request must not cancel queued deliveries.
	cancel()
	assert.Empty(t, inner.delivered())

	close(inner.release)
	require.NoError(t, p.Close())
	assert.Equal(t, []int64{1, 2, 3}, inner.delivered())
	assert.True(t, inner.closed)

	assert.ErrorIs(t, p.Publish(context.Background(), sampleEvent()), ErrPublisherClosed)
	assert.NoError(t, p.Close())
}

func TestAsyncPublisher_DropsWhenFull(t *testing.T) {
	inner := newBlockingPublisher()
	p := NewAsyncPublisher(inner, 1, nil)

	// The worker takes the first event and blocks; the second fills the queue.
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, ErrQueueFull)

	close(inner.release)
	require.NoError(t, p.Close())
	assert.Len(t, inner.delivered(), 2)
}

func TestAsyncPublisher_LogsDeliveryFailures(t *testing.T) {
	p := NewAsyncPublisher(failingPublisher{err: errors.New("connection refused")}, 0, nil)
	assert.NoError(t, p.Publish(context.Background(), sampleEvent()))
	assert.NoError(t, p.Close())
}
