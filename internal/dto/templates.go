package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FxTradeRequest books a currency buy or sell against the base currency.
type FxTradeRequest struct {
	Side           domain.FxSide   `json:"side" binding:"required,oneof=BUY SELL"`
	OperationDate  time.Time       `json:"operationDate" binding:"required"`
	PartyID        *int64          `json:"partyID,omitempty"`
	QuotedCurrency string          `json:"quotedCurrency" binding:"required,uppercase,len=3"`
	QuotedAmount   decimal.Decimal `json:"quotedAmount"`
	Rate           decimal.Decimal `json:"rate"`
	// Cash account codes default to the cash account of each currency.
	QuotedCashAccountCode string  `json:"quotedCashAccountCode,omitempty"`
	BaseCashAccountCode   string  `json:"baseCashAccountCode,omitempty"`
	Notes                 string  `json:"notes"`
	UserID                int64   `json:"-"`
	IdempotencyKey        *string `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
}

// Validate checks the structural preconditions of the request. The rate is
// left to the FX service so a bad rate surfaces as ErrInvalidRate.
func (r *FxTradeRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	return requirePositive("quotedAmount", r.QuotedAmount)
}

// SettlementRequest is the shared shape of payments and receipts.
type SettlementRequest struct {
	OperationDate        time.Time        `json:"operationDate" binding:"required"`
	PartyID              int64            `json:"partyID" binding:"required"`
	CurrencyCode         string           `json:"currencyCode" binding:"required,uppercase,len=3"`
	GrossAmount          decimal.Decimal  `json:"grossAmount"`
	CommissionAmount     *decimal.Decimal `json:"commissionAmount,omitempty"`
	CommissionPercentage *decimal.Decimal `json:"commissionPercentage,omitempty"`
	ExpensesAmount       decimal.Decimal  `json:"expensesAmount"`
	PaymentMethod        string           `json:"paymentMethod,omitempty" binding:"omitempty,max=64"`
	// Account codes default to the party account, cash account and
	// commission expense account of the currency.
	PartyAccountCode             string  `json:"partyAccountCode,omitempty"`
	CashAccountCode              string  `json:"cashAccountCode,omitempty"`
	CommissionExpenseAccountCode string  `json:"commissionExpenseAccountCode,omitempty"`
	Notes                        string  `json:"notes"`
	UserID                       int64   `json:"-"`
	IdempotencyKey               *string `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
}

// Validate checks the structural preconditions of the request.
func (r *SettlementRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requirePositive("grossAmount", r.GrossAmount); err != nil {
		return err
	}
	if err := requireNonNegative("expensesAmount", r.ExpensesAmount); err != nil {
		return err
	}
	if r.CommissionAmount != nil {
		if err := requireNonNegative("commissionAmount", *r.CommissionAmount); err != nil {
			return err
		}
	}
	if r.CommissionPercentage != nil {
		if err := requireNonNegative("commissionPercentage", *r.CommissionPercentage); err != nil {
			return err
		}
		if r.CommissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: commissionPercentage must not exceed 100", apperrors.ErrValidation)
		}
	}
	return nil
}

// PaymentRequest books an outgoing payment to a party.
type PaymentRequest struct {
	SettlementRequest
}

// ReceiptRequest books an incoming receipt from a party.
type ReceiptRequest struct {
	SettlementRequest
}
