package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Operation is a row of the operations table.
type Operation struct {
	OperationID    int64               `db:"operation_id"`
	OperationDate  time.Time           `db:"operation_date"`
	TypeCode       string              `db:"type_code"`
	PartyID        sql.NullInt64       `db:"party_id"`
	Amount         decimal.Decimal     `db:"amount"`
	CurrencyCode   string              `db:"currency_code"`
	ExchangeRate   decimal.NullDecimal `db:"exchange_rate"`
	Notes          string              `db:"notes"`
	UserID         int64               `db:"user_id"`
	IdempotencyKey sql.NullString      `db:"idempotency_key"`
	ReversalOf     sql.NullInt64       `db:"reversal_of"`
	CreatedAt      time.Time           `db:"created_at"`
}

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID            int64           `db:"entry_id"`
	OperationID        int64           `db:"operation_id"`
	LineNo             int             `db:"line_no"`
	AccountID          int64           `db:"account_id"`
	AccountCode        string          `db:"code"` // joined from accounts
	Side               string          `db:"side"`
	Amount             decimal.Decimal `db:"amount"`
	CurrencyCode       string          `db:"currency_code"`
	EquivalentAmount   decimal.Decimal `db:"equivalent_amount"`
	EquivalentCurrency string          `db:"equivalent_currency"`
	IsFxResult         bool            `db:"is_fx_result"`
}

// OperationExtension is a row of the operation_extensions table.
type OperationExtension struct {
	OperationID int64  `db:"operation_id"`
	Kind        string `db:"kind"`
	Payload     []byte `db:"payload"`
}
