package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OperationLineRequest is one proposed journal line.
type OperationLineRequest struct {
	AccountCode  string          `json:"accountCode" binding:"required"`
	Side         domain.Side     `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode" binding:"required,uppercase,len=3"`
}

// ExtensionRequest is the wire form of an operation extension; at most one field may be set.
type ExtensionRequest struct {
	Fx      *domain.FxDetail      `json:"fx,omitempty"`
	Payment *domain.PaymentDetail `json:"payment,omitempty"`
	Receipt *domain.ReceiptDetail `json:"receipt,omitempty"`
}

// ToExtension converts the wire form into the domain variant.
func (r *ExtensionRequest) ToExtension() (domain.Extension, error) {
	if r == nil {
		return nil, nil
	}
	var ext domain.Extension
	set := 0
	if r.Fx != nil {
		ext = *r.Fx
		set++
	}
	if r.Payment != nil {
		ext = *r.Payment
		set++
	}
	if r.Receipt != nil {
		ext = *r.Receipt
		set++
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: an operation carries at most one extension", apperrors.ErrValidation)
	}
	return ext, nil
}

// PostOperationRequest is the input of the posting engine.
type PostOperationRequest struct {
	TypeCode       string                 `json:"typeCode" binding:"required"`
	OperationDate  time.Time              `json:"operationDate" binding:"required"`
	PartyID        *int64                 `json:"partyID,omitempty"`
	Amount         decimal.Decimal        `json:"amount"`
	CurrencyCode   string                 `json:"currencyCode" binding:"required,uppercase,len=3"`
	ExchangeRate   *decimal.Decimal       `json:"exchangeRate,omitempty"`
	Notes          string                 `json:"notes"`
	UserID         int64                  `json:"-"`
	IdempotencyKey *string                `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
	Lines          []OperationLineRequest `json:"lines" binding:"required,min=2,dive"`
	ExtensionBody  *ExtensionRequest      `json:"extension,omitempty"`

	// Extension is the resolved variant; handlers fill it from ExtensionBody.
	Extension domain.Extension `json:"-"`
}

// Validate checks the structural preconditions of the request.
func (r *PostOperationRequest) Validate() error {
	if err := ValidateStruct(r); err != nil {
		return err
	}
	if err := requirePositive("amount", r.Amount); err != nil {
		return err
	}
	for i, line := range r.Lines {
		if err := requirePositive(fmt.Sprintf("lines[%d].amount", i), line.Amount); err != nil {
			return err
		}
	}
	if r.UserID == 0 {
		return fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	}
	if r.ExchangeRate != nil && !r.ExchangeRate.Equal(r.ExchangeRate.Truncate(domain.RatePlaces)) {
		return apperrors.New(apperrors.ErrInvalidRate, "exchange rate %s has more than %d decimal places",
			r.ExchangeRate.String(), domain.RatePlaces).WithCurrency(r.CurrencyCode)
	}
	return nil
}

// ResolveExtension fills Extension from the wire body when it is not already set.
func (r *PostOperationRequest) ResolveExtension() error {
	if r.Extension != nil {
		return nil
	}
	ext, err := r.ExtensionBody.ToExtension()
	if err != nil {
		return err
	}
	r.Extension = ext
	return nil
}

// ReverseOperationRequest asks for a reversing operation.
type ReverseOperationRequest struct {
	// OperationDate defaults to the original operation's date.
	OperationDate  *time.Time `json:"operationDate,omitempty"`
	Notes          string     `json:"notes"`
	UserID         int64      `json:"-"`
	IdempotencyKey *string    `json:"idempotencyKey,omitempty" binding:"omitempty,max=128"`
}

// OperationResponse is the wire form of a stored operation.
type OperationResponse struct {
	*domain.Operation
	ExtensionKind domain.ExtensionKind `json:"extensionKind,omitempty"`
	Extension     domain.Extension     `json:"extension,omitempty"`
}

// ToOperationResponse converts a domain.Operation to OperationResponse DTO.
func ToOperationResponse(op *domain.Operation) OperationResponse {
	return OperationResponse{
		Operation:     op,
		ExtensionKind: domain.KindOf(op.Extension),
		Extension:     op.Extension,
	}
}

// PostedOperationResponse is returned by every posting endpoint.
type PostedOperationResponse struct {
	OperationID int64             `json:"operationID"`
	EntryIDs    []int64           `json:"entryIDs"`
	FxEntryID   *int64            `json:"fxEntryID,omitempty"`
	Operation   OperationResponse `json:"operation"`
}

// ToPostedOperationResponse converts a domain.PostedOperation to its DTO.
func ToPostedOperationResponse(p *domain.PostedOperation) PostedOperationResponse {
	return PostedOperationResponse{
		OperationID: p.OperationID,
		EntryIDs:    p.EntryIDs,
		FxEntryID:   p.FxEntryID,
		Operation:   ToOperationResponse(p.Operation),
	}
}
