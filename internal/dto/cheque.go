package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DiscountChequeRequest buys a cheque from a party at a discount.
type DiscountChequeRequest struct {
	OperationDate time.Time       `json:"operationDate" binding:"required"`
	PartyID       int64           `json:"partyID" binding:"required"`
	Bank          string          `json:"bank" binding:"required,max=128"`
	Number        string          `json:"number" binding:"required,max=64"`
	CurrencyCode  string          `json:"currencyCode" binding:"required,uppercase,len=3"`
	NominalAmount decimal.Decimal `json:"nominalAmount"`
	// IssueDate defaults to OperationDate.
	IssueDate                 *time.Time      `json:"issueDate,omitempty"`
	DueDate                   time.Time       `json:"dueDate" binding:"required"`
	ExpectedAccreditationDate *time.Time      `json:"expectedAccreditationDate,omitempty"`
	InterestRate              decimal.Decimal `json:"interestRate"`
	// InterestBase defaults to the configured base.
	InterestBase int             `json:"interestBase,omitempty" binding:"omitempty,min=1"`
	Expenses     decimal.Decimal `json:"expenses"`
	Commissions  decimal.Decimal `json:"commissions"`
	// Account codes default to the configured holding account and the
	// client and cash accounts of the currency.
	HoldingAccountCode string  `json:"holdingAccountCode,omitempty"`
	ClientAccountCode  string  `json:"clientAccountCode,omitempty"`
	CashAccountCode    string  `json:"cashAccountCode,omitempty"`
	Notes              string  `json:"notes"`
	UserID             int64   `json:"-"`
	IdempotencyKey     *string `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
}

// Validate checks the structural preconditions of the request. Date and
// amount consistency is left to the cheque service, which reports it as
// ErrInvalidCheque.
func (r *DiscountChequeRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requirePositive("nominalAmount", r.NominalAmount); err != nil {
		return err
	}
	for field, v := range map[string]decimal.Decimal{
		"interestRate": r.InterestRate,
		"expenses":     r.Expenses,
		"commissions":  r.Commissions,
	} {
		if err := requireNonNegative(field, v); err != nil {
			return err
		}
	}
	return nil
}

// TransitionChequeRequest is the wire form of a status change.
type TransitionChequeRequest struct {
	Status        domain.ChequeStatus `json:"status" binding:"required,oneof=accredited expired rejected cancelled"`
	EffectiveDate time.Time           `json:"effectiveDate" binding:"required"`
	Penalty       *decimal.Decimal    `json:"penalty,omitempty"`
	Notes         string              `json:"notes"`
}

// TransitionOptions carries the optional parts of a status change.
type TransitionOptions struct {
	UserID int64
	// Penalty is posted to the client for rejected or expired cheques.
	Penalty decimal.Decimal
	Notes   string
}

// Validate checks the options.
func (o TransitionOptions) Validate() error {
	if o.UserID == 0 {
		return fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	}
	return requireNonNegative("penalty", o.Penalty)
}

// ChequeDiscountResponse is returned when a cheque is bought.
type ChequeDiscountResponse struct {
	Cheque    *domain.Cheque          `json:"cheque"`
	Operation PostedOperationResponse `json:"operation"`
}

// ChequeTransitionResponse is returned when a cheque changes status.
type ChequeTransitionResponse struct {
	ChequeID              int64               `json:"chequeID"`
	Status                domain.ChequeStatus `json:"status"`
	SettlementOperationID int64               `json:"settlementOperationID"`
}
