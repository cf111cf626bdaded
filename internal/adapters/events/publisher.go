// Package events delivers committed ledger events to Redis pub/sub and Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
)

func encodeEvent(event domain.LedgerEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return payload, nil
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.LedgerEvent) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// MultiPublisher fans an event out to every configured publisher.
type MultiPublisher []portssvc.EventPublisher

// NewPublisher combines the given publishers, skipping nils. With none left
// it returns a NoopPublisher.
func NewPublisher(publishers ...portssvc.EventPublisher) portssvc.EventPublisher {
	var out MultiPublisher
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return NoopPublisher{}
	case 1:
		return out[0]
	}
	return out
}

// Publish delivers to every publisher, even after a failure, and joins the errors.
func (m MultiPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ portssvc.EventPublisher = NoopPublisher{}
	_ portssvc.EventPublisher = MultiPublisher(nil)
)
