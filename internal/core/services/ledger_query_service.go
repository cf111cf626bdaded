package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/utils/accounting"
)

// ledgerQueryService computes balances from posted entries.
type ledgerQueryService struct {
	BaseService
	store portsrepo.Store
}

// NewLedgerQueryService creates a new ledger query service.
func NewLedgerQueryService(store portsrepo.Store) portssvc.LedgerQuerySvcFacade {
	return &ledgerQueryService{store: store}
}

var _ portssvc.LedgerQuerySvcFacade = (*ledgerQueryService)(nil)

// AccountBalance implements portssvc.LedgerQuerySvcFacade.
func (s *ledgerQueryService) AccountBalance(ctx context.Context, accountID int64, asOf time.Time) (*domain.AccountBalance, error) {
	acc, err := resolveAccountByID(ctx, s.store, accountID)
	if err != nil {
		return nil, err
	}
	return s.balanceOf(ctx, acc, asOf)
}

// AccountBalanceByCode implements portssvc.LedgerQuerySvcFacade.
func (s *ledgerQueryService) AccountBalanceByCode(ctx context.Context, code string, asOf time.Time) (*domain.AccountBalance, error) {
	acc, err := resolveAccount(ctx, s.store, code)
	if err != nil {
		return nil, err
	}
	return s.balanceOf(ctx, acc, asOf)
}

func (s *ledgerQueryService) balanceOf(ctx context.Context, acc *domain.Account, asOf time.Time) (*domain.AccountBalance, error) {
	asOf = toDate(asOf)
	debit, credit, err := s.store.AccountTotals(ctx, acc.AccountID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account entries", slog.String("account_code", acc.Code))
		return nil, fmt.Errorf("failed to compute balance of %s: %w", acc.Code, err)
	}
	balance := debit.Sub(credit)
	display, err := accounting.DisplayBalance(balance, acc.AccountType)
	if err != nil {
		return nil, err
	}
	return &domain.AccountBalance{
		AccountID:      acc.AccountID,
		AccountCode:    acc.Code,
		AccountType:    acc.AccountType,
		CurrencyCode:   acc.CurrencyCode,
		Debit:          debit,
		Credit:         credit,
		Balance:        balance,
		DisplayBalance: display,
		AsOf:           asOf,
	}, nil
}

// TrialBalance implements portssvc.LedgerQuerySvcFacade.
func (s *ledgerQueryService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	asOf = toDate(asOf)
	rows, err := s.store.TrialBalanceRows(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance rows")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	totals, err := s.store.EquivalentTotals(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum equivalents")
		return nil, fmt.Errorf("failed to build trial balance: %w", err)
	}
	tb := &domain.TrialBalance{
		AsOf:     asOf,
		Rows:     rows,
		Totals:   totals,
		Balanced: accounting.AllZero(totals),
	}
	if !tb.Balanced {
		s.GetLogger(ctx).Error("Trial balance does not net to zero", slog.Any("totals", totals))
	}
	return tb, nil
}
