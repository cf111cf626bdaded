// Package app wires configuration, storage and services together for the
// server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/posting_engine/internal/adapters/database/pgsql"
	"github.com/SscSPs/posting_engine/internal/adapters/events"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/core/services"
	"github.com/SscSPs/posting_engine/internal/platform/config"
	"github.com/SscSPs/posting_engine/internal/platform/seed"
	"github.com/SscSPs/posting_engine/pkg/database"
	"github.com/redis/go-redis/v9"
)

// App is a fully wired ledger.
type App struct {
	Config   *config.Config
	Repos    portsrepo.RepositoryProvider
	Services *portssvc.ServiceContainer
	Events   portssvc.EventPublisher
	// Redis is nil unless REDIS_URL is set.
	Redis *redis.Client

	closers []func()
}

// New opens the configured store and event publishers and builds the services.
// With the memory driver the default chart is seeded so the ledger is usable at once.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		f, err := seed.Default()
		if err != nil {
			return nil, err
		}
		if _, err := seed.Apply(ctx, store, f); err != nil {
			return nil, fmt.Errorf("failed to seed memory store: %w", err)
		}
		a.Repos = memory.NewRepositoryProvider(store)
	case config.StoreDriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
		a.Repos = pgsql.NewRepositoryProvider(pool)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	var publishers []portssvc.EventPublisher
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		redisPub := events.NewRedisPublisherFromClient(a.Redis, cfg.EventsChannel, logger)
		publishers = append(publishers, events.NewAsyncPublisher(redisPub, cfg.EventsQueueSize, logger))
		logger.Info("Publishing ledger events to Redis", slog.String("channel", cfg.EventsChannel))
	}
	if len(cfg.KafkaBrokers) > 0 {
		publishers = append(publishers, events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger))
		logger.Info("Publishing ledger events to Kafka", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	}
	a.Events = events.NewPublisher(publishers...)
	a.closers = append(a.closers, func() {
		if err := a.Events.Close(); err != nil {
			logger.Error("Failed to close event publishers", slog.String("error", err.Error()))
		}
	})

	a.Services = services.NewServiceContainer(cfg, a.Repos, a.Events)
	return a, nil
}

// Close releases everything New opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
