package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OperationReader defines read operations for posted operations.
type OperationReader interface {
	// FindOperationByID returns the operation with its entries and extension.
	FindOperationByID(ctx context.Context, operationID int64) (*domain.Operation, error)
	// FindReversalOf returns the id of the operation reversing operationID, or nil.
	FindReversalOf(ctx context.Context, operationID int64) (*int64, error)
}

// ChequeReader defines read operations for cheques.
type ChequeReader interface {
	FindChequeByID(ctx context.Context, chequeID int64) (*domain.Cheque, error)
	FindChequeByOperationID(ctx context.Context, operationID int64) (*domain.Cheque, error)
	// ListCheques lists cheques, optionally filtered by status, ordered by id.
	ListCheques(ctx context.Context, status *domain.ChequeStatus) ([]domain.Cheque, error)
}

// LedgerReader computes balances from journal entries.
type LedgerReader interface {
	// AccountTotals sums debits and credits of an account for operations dated on or before asOf.
	AccountTotals(ctx context.Context, accountID int64, asOf time.Time) (debit, credit decimal.Decimal, err error)
	// TrialBalanceRows returns one row per account with activity on or before asOf.
	TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
	// EquivalentTotals sums signed equivalents per equivalent currency on or before asOf.
	EquivalentTotals(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error)
}

// LedgerTx is the unit of work handed to a transaction callback. Every read
// and write made through it commits or rolls back together.
type LedgerTx interface {
	RegistryReader
	OperationReader
	ChequeReader

	// LockAccounts reads the accounts for update, failing with ErrNotFound if any is missing.
	LockAccounts(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error)
	// BumpAccountVersions increments each account version if it still equals the
	// expected one, failing with ErrConcurrentModification otherwise.
	BumpAccountVersions(ctx context.Context, expected map[int64]int64) error
	// InsertOperation persists the operation, its entries and its extension,
	// assigning OperationID, EntryID and OperationID on each entry.
	InsertOperation(ctx context.Context, op *domain.Operation) error
	// InsertCheque persists a new cheque, assigning ChequeID.
	InsertCheque(ctx context.Context, cheque *domain.Cheque) error
	// CompareAndSwapChequeStatus moves a cheque from one status to another,
	// failing with ErrConcurrentModification if the current status is not from.
	CompareAndSwapChequeStatus(ctx context.Context, chequeID int64, from, to domain.ChequeStatus, settlementOperationID int64, at time.Time) error
}

// TransactionManager runs a callback inside a store transaction with at least
// snapshot isolation. A nil return commits; any error rolls back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

// Store is everything the services need from persistence.
type Store interface {
	TransactionManager
	RegistryReader
	OperationReader
	ChequeReader
	LedgerReader
}
