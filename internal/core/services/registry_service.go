package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
)

// registryService resolves currencies, accounts and the other reference data.
type registryService struct {
	BaseService
	repo portsrepo.RegistryReader
}

// NewRegistryService creates a new registry service.
func NewRegistryService(repo portsrepo.RegistryReader) portssvc.RegistrySvcFacade {
	return &registryService{repo: repo}
}

var _ portssvc.RegistrySvcFacade = (*registryService)(nil)

func (s *registryService) ResolveCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	return resolveCurrency(ctx, s.repo, code)
}

func (s *registryService) ResolveAccount(ctx context.Context, code string) (*domain.Account, error) {
	return resolveAccount(ctx, s.repo, code)
}

func (s *registryService) ResolveAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return resolveAccountByID(ctx, s.repo, accountID)
}

func (s *registryService) ResolveAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	return resolveAccountByFlag(ctx, s.repo, flag, currencyCode)
}

func (s *registryService) ResolvePartyAccount(ctx context.Context, party *domain.Party, currencyCode string) (*domain.Account, error) {
	return resolvePartyAccount(ctx, s.repo, party, currencyCode)
}

func (s *registryService) ResolveParty(ctx context.Context, partyID int64) (*domain.Party, error) {
	return resolveParty(ctx, s.repo, partyID)
}

func (s *registryService) ResolveOperationType(ctx context.Context, code string) (*domain.OperationType, error) {
	return resolveOperationType(ctx, s.repo, code)
}

func (s *registryService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *registryService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.repo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

// The helpers below take the reader explicitly so the posting engine can run
// the same lookups on its transaction.

func resolveCurrency(ctx context.Context, r portsrepo.CurrencyReader, code string) (*domain.Currency, error) {
	cur, err := r.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "currency %s", code).WithCurrency(code)
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", code, err)
	}
	return cur, nil
}

func resolveAccount(ctx context.Context, r portsrepo.AccountReader, code string) (*domain.Account, error) {
	acc, err := r.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "account %s", code).WithAccount(code)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	return acc, nil
}

func resolveAccountByID(ctx context.Context, r portsrepo.AccountReader, accountID int64) (*domain.Account, error) {
	acc, err := r.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "account id %d", accountID)
		}
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}
	return acc, nil
}

func resolveAccountByFlag(ctx context.Context, r portsrepo.AccountReader, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	acc, err := r.FindAccountByFlag(ctx, flag, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "no active %s account", flag).WithCurrency(currencyCode)
		}
		return nil, fmt.Errorf("failed to find %s account in %s: %w", flag, currencyCode, err)
	}
	return acc, nil
}

// accountOrFlag resolves code when given, otherwise the account carrying flag in the currency.
func accountOrFlag(ctx context.Context, r portsrepo.AccountReader, code string, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	if code != "" {
		return resolveAccount(ctx, r, code)
	}
	return resolveAccountByFlag(ctx, r, flag, currencyCode)
}

func resolvePartyAccount(ctx context.Context, r portsrepo.AccountReader, party *domain.Party, currencyCode string) (*domain.Account, error) {
	wantType := domain.Asset
	if party.PartyType == domain.PartySupplier {
		wantType = domain.Liability
	}
	accounts, err := r.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	for i := range accounts {
		acc := accounts[i]
		if acc.IsActive && acc.IsClientAccount() && acc.CurrencyCode == currencyCode && acc.AccountType == wantType {
			return &acc, nil
		}
	}
	return nil, apperrors.New(apperrors.ErrNotFound, "no %s account for %s party %s", wantType, party.PartyType, party.Name).WithCurrency(currencyCode)
}

func resolveParty(ctx context.Context, r portsrepo.ReferenceReader, partyID int64) (*domain.Party, error) {
	party, err := r.FindPartyByID(ctx, partyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "party %d", partyID)
		}
		return nil, fmt.Errorf("failed to find party %d: %w", partyID, err)
	}
	return party, nil
}

func resolveUser(ctx context.Context, r portsrepo.ReferenceReader, userID int64) (*domain.User, error) {
	user, err := r.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "user %d", userID)
		}
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	return user, nil
}

func resolveOperationType(ctx context.Context, r portsrepo.ReferenceReader, code string) (*domain.OperationType, error) {
	opType, err := r.FindOperationType(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "operation type %s", code)
		}
		return nil, fmt.Errorf("failed to find operation type %s: %w", code, err)
	}
	return opType, nil
}
