package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel used when none is configured.
const DefaultRedisChannel = "ledger.events"

// redisClient is the part of *redis.Client the publisher needs.
type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

// RedisPublisher publishes ledger events as JSON on a Redis channel.
type RedisPublisher struct {
	rdb     redisClient
	channel string
	logger  *slog.Logger
}

var _ portssvc.EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisherFromClient publishes through an existing client, which
// Close then closes.
func NewRedisPublisherFromClient(rdb *redis.Client, channel string, logger *slog.Logger) *RedisPublisher {
	return newRedisPublisher(rdb, channel, logger)
}

func newRedisPublisher(rdb redisClient, channel string, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

// Publish publishes a ledger event to Redis.
func (p *RedisPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.DebugContext(ctx, "Published ledger event",
		slog.String("channel", p.channel),
		slog.String("event_type", event.EventType),
		slog.Int64("operation_id", event.OperationID))
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
