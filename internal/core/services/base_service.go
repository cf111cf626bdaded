package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Events portssvc.EventPublisher
	Clock  func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the service clock, time.Now in UTC unless overridden.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now().UTC()
}

// Publish hands a committed event to the publisher. Failures are logged and
// swallowed: the ledger change is already durable.
func (s *BaseService) Publish(ctx context.Context, event domain.LedgerEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event",
			slog.String("event_type", event.EventType),
			slog.Int64("operation_id", event.OperationID))
	}
}
