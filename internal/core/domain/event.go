package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published after a successful commit.
const (
	EventOperationPosted    = "operation.posted"
	EventOperationReversed  = "operation.reversed"
	EventChequeDiscounted   = "cheque.discounted"
	EventChequeTransitioned = "cheque.transitioned"
)

// LedgerEvent notifies downstream consumers about committed ledger changes.
type LedgerEvent struct {
	EventType     string           `json:"event_type"`
	OperationID   int64            `json:"operation_id"`
	OperationType string           `json:"operation_type"`
	ReversalOf    *int64           `json:"reversal_of,omitempty"`
	ChequeID      *int64           `json:"cheque_id,omitempty"`
	ChequeStatus  ChequeStatus     `json:"cheque_status,omitempty"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	FxResult      *decimal.Decimal `json:"fx_result,omitempty"`
	UserID        int64            `json:"user_id"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// NewOperationEvent builds an event describing a posted operation.
func NewOperationEvent(eventType string, op *Operation, at time.Time) LedgerEvent {
	ev := LedgerEvent{
		EventType:     eventType,
		OperationID:   op.OperationID,
		OperationType: op.TypeCode,
		ReversalOf:    op.ReversalOf,
		Amount:        op.Amount,
		Currency:      op.CurrencyCode,
		UserID:        op.UserID,
		OccurredAt:    at,
	}
	if fx := op.FxEntry(); fx != nil {
		signed := fx.Signed()
		ev.FxResult = &signed
	}
	return ev
}
