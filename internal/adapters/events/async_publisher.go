package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
)

const (
	// DefaultQueueSize bounds the events waiting for delivery.
	DefaultQueueSize = 1024
	// DefaultDeliveryTimeout caps a single delivery to the wrapped publisher.
	DefaultDeliveryTimeout = 5 * time.Second
)

var (
	// ErrQueueFull means the event was dropped because the queue had no room.
	ErrQueueFull = errors.New("event queue full")
	// ErrPublisherClosed means Publish was called after Close.
	ErrPublisherClosed = errors.New("event publisher closed")
)

type queuedEvent struct {
	ctx   context.Context
	event domain.LedgerEvent
}

// AsyncPublisher queues events and delivers them to the wrapped publisher
// from a single goroutine, in publish order. Publish never waits on the
// broker: a full queue drops the event and reports ErrQueueFull.
type AsyncPublisher struct {
	next    portssvc.EventPublisher
	queue   chan queuedEvent
	done    chan struct{}
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

var _ portssvc.EventPublisher = (*AsyncPublisher)(nil)

// NewAsyncPublisher starts the delivery goroutine. A size <= 0 uses DefaultQueueSize.
func NewAsyncPublisher(next portssvc.EventPublisher, size int, logger *slog.Logger) *AsyncPublisher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &AsyncPublisher{
		next:    next,
		queue:   make(chan queuedEvent, size),
		done:    make(chan struct{}),
		timeout: DefaultDeliveryTimeout,
		logger:  logger,
	}
	go p.run()
	return p
}

// Publish enqueues the event. The request context is detached from its
// cancellation so delivery outlives the request.
func (p *AsyncPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s for operation %d", ErrQueueFull, event.EventType, event.OperationID)
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for q := range p.queue {
		ctx, cancel := context.WithTimeout(q.ctx, p.timeout)
		if err := p.next.Publish(ctx, q.event); err != nil {
			p.logger.ErrorContext(ctx, "Failed to deliver ledger event",
				slog.String("event_type", q.event.EventType),
				slog.Int64("operation_id", q.event.OperationID),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}

// Close stops accepting events, waits for the queued ones to be delivered
// and closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.done
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}
