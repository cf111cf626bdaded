package domain

import "github.com/shopspring/decimal"

// Side indicates whether a journal line is a Debit or a Credit.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// Valid reports whether s is DEBIT or CREDIT.
func (s Side) Valid() bool { return s == Debit || s == Credit }

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalEntry is one debit-or-credit line of an operation.
type JournalEntry struct {
	EntryID      int64           `json:"entryID"`
	OperationID  int64           `json:"operationID"`
	LineNo       int             `json:"lineNo"`
	AccountID    int64           `json:"accountID"`
	AccountCode  string          `json:"accountCode"`
	Side         Side            `json:"side"`
	Amount       decimal.Decimal `json:"amount"` // always positive
	CurrencyCode string          `json:"currencyCode"`
	// EquivalentAmount is what the line weighs in the operation's balance:
	// the amount itself for single-currency operations, its base-currency
	// conversion for cross-currency ones.
	EquivalentAmount   decimal.Decimal `json:"equivalentAmount"`
	EquivalentCurrency string          `json:"equivalentCurrency"`
	// IsFxResult marks the line the engine synthesized to absorb the FX residual.
	IsFxResult bool `json:"isFxResult"`
}

// Debit returns the debit amount of the line, zero for credits.
func (e JournalEntry) Debit() decimal.Decimal {
	if e.Side == Debit {
		return e.Amount
	}
	return decimal.Zero
}

// Credit returns the credit amount of the line, zero for debits.
func (e JournalEntry) Credit() decimal.Decimal {
	if e.Side == Credit {
		return e.Amount
	}
	return decimal.Zero
}

// Signed returns debit minus credit in the line currency.
func (e JournalEntry) Signed() decimal.Decimal {
	if e.Side == Credit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// SignedEquivalent returns debit minus credit in the equivalent currency.
func (e JournalEntry) SignedEquivalent() decimal.Decimal {
	if e.Side == Credit {
		return e.EquivalentAmount.Neg()
	}
	return e.EquivalentAmount
}

// IsCrossCurrency reports whether the line is weighed in a currency other than its own.
func (e JournalEntry) IsCrossCurrency() bool {
	return e.EquivalentCurrency != "" && e.EquivalentCurrency != e.CurrencyCode
}

// Flipped returns a copy of the line on the opposite side, without ids.
func (e JournalEntry) Flipped() JournalEntry {
	out := e
	out.EntryID = 0
	out.OperationID = 0
	out.Side = e.Side.Opposite()
	return out
}
