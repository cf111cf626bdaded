package repositories

import (
	"context"

	"github.com/SscSPs/posting_engine/internal/core/domain"
)

// CurrencyReader defines read operations for currencies.
type CurrencyReader interface {
	// FindCurrencyByCode returns apperrors.ErrNotFound for unknown codes.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// AccountReader defines read operations for accounts.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	// FindAccountByFlag returns the active account carrying flag in the given currency.
	// When several match, the lowest code wins.
	FindAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// ReferenceReader defines read operations for the remaining reference entities.
type ReferenceReader interface {
	FindPartyByID(ctx context.Context, partyID int64) (*domain.Party, error)
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)
	FindOperationType(ctx context.Context, code string) (*domain.OperationType, error)
}

// RegistryReader is the read-only view the engine has of reference data.
type RegistryReader interface {
	CurrencyReader
	AccountReader
	ReferenceReader
}

// RegistryWriter seeds reference data. The engine itself never calls it.
type RegistryWriter interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	// SaveAccount assigns AccountID on the passed account.
	SaveAccount(ctx context.Context, account *domain.Account) error
	SaveParty(ctx context.Context, party *domain.Party) error
	SaveUser(ctx context.Context, user *domain.User) error
	SaveOperationType(ctx context.Context, opType domain.OperationType) error
}
