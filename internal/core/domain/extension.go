package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ExtensionKind tags the type-specific record attached to an operation.
type ExtensionKind string

const (
	ExtensionNone    ExtensionKind = ""
	ExtensionFx      ExtensionKind = "fx"
	ExtensionPayment ExtensionKind = "payment"
	ExtensionReceipt ExtensionKind = "receipt"
)

// Extension is the single optional type-specific record of an operation.
// A nil Extension means the operation carries none.
type Extension interface {
	Kind() ExtensionKind
	isExtension()
}

// FxSide is the direction of a currency trade from the ledger owner's point of view.
type FxSide string

const (
	FxBuy  FxSide = "BUY"
	FxSell FxSide = "SELL"
)

// FxDetail records a currency trade.
type FxDetail struct {
	Side           FxSide          `json:"side"`
	QuotedCurrency string          `json:"quotedCurrency"`
	QuotedAmount   decimal.Decimal `json:"quotedAmount"`
	BaseCurrency   string          `json:"baseCurrency"`
	BaseAmount     decimal.Decimal `json:"baseAmount"`
	Rate           decimal.Decimal `json:"rate"`
}

// PaymentDetail records an outgoing payment to a party.
type PaymentDetail struct {
	GrossAmount          decimal.Decimal  `json:"grossAmount"`
	CommissionAmount     decimal.Decimal  `json:"commissionAmount"`
	CommissionPercentage *decimal.Decimal `json:"commissionPercentage,omitempty"`
	ExpensesAmount       decimal.Decimal  `json:"expensesAmount"`
	TotalAmount          decimal.Decimal  `json:"totalAmount"`
	PaymentMethod        string           `json:"paymentMethod,omitempty"`
}

// ReceiptDetail records an incoming receipt from a party.
type ReceiptDetail struct {
	GrossAmount          decimal.Decimal  `json:"grossAmount"`
	CommissionAmount     decimal.Decimal  `json:"commissionAmount"`
	CommissionPercentage *decimal.Decimal `json:"commissionPercentage,omitempty"`
	ExpensesAmount       decimal.Decimal  `json:"expensesAmount"`
	NetAmount            decimal.Decimal  `json:"netAmount"`
	PaymentMethod        string           `json:"paymentMethod,omitempty"`
}

func (FxDetail) Kind() ExtensionKind      { return ExtensionFx }
func (PaymentDetail) Kind() ExtensionKind { return ExtensionPayment }
func (ReceiptDetail) Kind() ExtensionKind { return ExtensionReceipt }

func (FxDetail) isExtension()      {}
func (PaymentDetail) isExtension() {}
func (ReceiptDetail) isExtension() {}

// KindOf returns the kind of ext, ExtensionNone for nil.
func KindOf(ext Extension) ExtensionKind {
	if ext == nil {
		return ExtensionNone
	}
	return ext.Kind()
}

// MarshalExtension encodes an extension payload for storage.
func MarshalExtension(ext Extension) (ExtensionKind, []byte, error) {
	if ext == nil {
		return ExtensionNone, nil, nil
	}
	payload, err := json.Marshal(ext)
	if err != nil {
		return "", nil, fmt.Errorf("marshal %s extension: %w", ext.Kind(), err)
	}
	return ext.Kind(), payload, nil
}

// UnmarshalExtension decodes a stored extension payload.
func UnmarshalExtension(kind ExtensionKind, payload []byte) (Extension, error) {
	switch kind {
	case ExtensionNone:
		return nil, nil
	case ExtensionFx:
		var d FxDetail
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("unmarshal fx extension: %w", err)
		}
		return d, nil
	case ExtensionPayment:
		var d PaymentDetail
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("unmarshal payment extension: %w", err)
		}
		return d, nil
	case ExtensionReceipt:
		var d ReceiptDetail
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("unmarshal receipt extension: %w", err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("unknown extension kind %q", kind)
}
