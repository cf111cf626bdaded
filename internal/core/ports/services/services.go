package services

import (
	"context"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Registry RegistrySvcFacade
	Fx       FxSvcFacade
	Posting  PostingSvcFacade
	Cheque   ChequeSvcFacade
	Ledger   LedgerQuerySvcFacade
}

// RegistrySvcFacade resolves reference data. It never mutates it.
type RegistrySvcFacade interface {
	ResolveCurrency(ctx context.Context, code string) (*domain.Currency, error)
	ResolveAccount(ctx context.Context, code string) (*domain.Account, error)
	ResolveAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	ResolveAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error)
	// ResolvePartyAccount returns the client-flagged account used for a party in a currency:
	// an asset account for clients, a liability account for suppliers.
	ResolvePartyAccount(ctx context.Context, party *domain.Party, currencyCode string) (*domain.Account, error)
	ResolveParty(ctx context.Context, partyID int64) (*domain.Party, error)
	ResolveOperationType(ctx context.Context, code string) (*domain.OperationType, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// FxSvcFacade converts amounts between the base currency and a quoted one.
type FxSvcFacade interface {
	BaseCurrency() string
	// Convert converts amount from one currency to another using a rate expressed
	// as base units per quoted unit, rounding once to the target precision.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, rate decimal.Decimal) (decimal.Decimal, error)
}

// PostingSvc is the caller-facing posting API.
type PostingSvc interface {
	PostOperation(ctx context.Context, req dto.PostOperationRequest) (*domain.PostedOperation, error)
	ReverseOperation(ctx context.Context, operationID int64, req dto.ReverseOperationRequest) (*domain.PostedOperation, error)
	GetOperation(ctx context.Context, operationID int64) (*domain.Operation, error)
}

// PostingTemplateSvc builds and posts the standard operation shapes.
type PostingTemplateSvc interface {
	PostFxTrade(ctx context.Context, req dto.FxTradeRequest) (*domain.PostedOperation, error)
	PostPayment(ctx context.Context, req dto.PaymentRequest) (*domain.PostedOperation, error)
	PostReceipt(ctx context.Context, req dto.ReceiptRequest) (*domain.PostedOperation, error)
}

// PostingTxSvc lets another service post inside a transaction it already owns.
type PostingTxSvc interface {
	PostInTx(ctx context.Context, tx portsrepo.LedgerTx, req dto.PostOperationRequest) (*domain.Operation, error)
}

// PostingSvcFacade combines all posting interfaces.
type PostingSvcFacade interface {
	PostingSvc
	PostingTemplateSvc
	PostingTxSvc
}

// ChequeSvcFacade manages the cheque lifecycle.
type ChequeSvcFacade interface {
	DiscountCheque(ctx context.Context, req dto.DiscountChequeRequest) (*domain.Cheque, *domain.PostedOperation, error)
	TransitionCheque(ctx context.Context, chequeID int64, newStatus domain.ChequeStatus, effectiveDate time.Time, opts dto.TransitionOptions) (int64, error)
	GetCheque(ctx context.Context, chequeID int64) (*domain.Cheque, error)
	ListCheques(ctx context.Context, status *domain.ChequeStatus) ([]domain.Cheque, error)
}

// LedgerQuerySvcFacade computes balances from posted entries.
type LedgerQuerySvcFacade interface {
	AccountBalance(ctx context.Context, accountID int64, asOf time.Time) (*domain.AccountBalance, error)
	AccountBalanceByCode(ctx context.Context, code string, asOf time.Time) (*domain.AccountBalance, error)
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}

// EventPublisher delivers committed ledger events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}
