package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the header of one recorded financial event. Once posted it is
// never updated; corrections are new operations with ReversalOf set.
type Operation struct {
	OperationID    int64            `json:"operationID"`
	OperationDate  time.Time        `json:"operationDate"`
	TypeCode       string           `json:"typeCode"`
	PartyID        *int64           `json:"partyID,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	CurrencyCode   string           `json:"currencyCode"`
	ExchangeRate   *decimal.Decimal `json:"exchangeRate,omitempty"`
	Notes          string           `json:"notes"`
	UserID         int64            `json:"userID"`
	IdempotencyKey *string          `json:"idempotencyKey,omitempty"`
	ReversalOf     *int64           `json:"reversalOf,omitempty"`
	Extension      Extension        `json:"-"`
	Entries        []JournalEntry   `json:"entries"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// AccountIDs returns the distinct accounts touched by the operation, in line order.
func (o *Operation) AccountIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Entries))
	ids := make([]int64, 0, len(o.Entries))
	for _, e := range o.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

// FxEntry returns the synthetic FX-result line, if any.
func (o *Operation) FxEntry() *JournalEntry {
	for i := range o.Entries {
		if o.Entries[i].IsFxResult {
			return &o.Entries[i]
		}
	}
	return nil
}

// PostedOperation is what a successful posting returns to the caller.
type PostedOperation struct {
	OperationID int64      `json:"operationID"`
	EntryIDs    []int64    `json:"entryIDs"`
	FxEntryID   *int64     `json:"fxEntryID,omitempty"`
	Operation   *Operation `json:"operation"`
}

// NewPostedOperation builds the caller-facing result from a persisted operation.
func NewPostedOperation(op *Operation) *PostedOperation {
	p := &PostedOperation{OperationID: op.OperationID, Operation: op}
	for _, e := range op.Entries {
		p.EntryIDs = append(p.EntryIDs, e.EntryID)
		if e.IsFxResult {
			id := e.EntryID
			p.FxEntryID = &id
		}
	}
	return p
}
