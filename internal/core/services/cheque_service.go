package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// chequeService buys cheques at a discount and settles them.
type chequeService struct {
	BaseService
	store              portsrepo.Store
	posting            portssvc.PostingTxSvc
	dayCount           domain.DayCount
	interestBase       int
	holdingAccountCode string
}

// ChequeServiceOption configures the cheque service.
type ChequeServiceOption func(*chequeService)

// WithDayCount sets the day count convention used for discount interest.
func WithDayCount(dc domain.DayCount) ChequeServiceOption {
	return func(s *chequeService) { s.dayCount = dc }
}

// WithInterestBase sets the default day base for cheques that do not carry one.
func WithInterestBase(base int) ChequeServiceOption {
	return func(s *chequeService) { s.interestBase = base }
}

// WithHoldingAccount sets the default account holding cheques in portfolio.
func WithHoldingAccount(code string) ChequeServiceOption {
	return func(s *chequeService) { s.holdingAccountCode = code }
}

// WithChequeEvents sets the publisher notified after each commit.
func WithChequeEvents(p portssvc.EventPublisher) ChequeServiceOption {
	return func(s *chequeService) { s.Events = p }
}

// WithChequeClock overrides the clock used for status change stamps.
func WithChequeClock(clock func() time.Time) ChequeServiceOption {
	return func(s *chequeService) { s.Clock = clock }
}

// NewChequeService creates a new cheque lifecycle service.
func NewChequeService(store portsrepo.Store, posting portssvc.PostingTxSvc, opts ...ChequeServiceOption) portssvc.ChequeSvcFacade {
	s := &chequeService{
		store:        store,
		posting:      posting,
		dayCount:     domain.DayCountActual365,
		interestBase: domain.DefaultInterestBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ChequeSvcFacade = (*chequeService)(nil)

// discountTerms are the derived amounts of a discounted cheque.
type discountTerms struct {
	days     int
	interest decimal.Decimal
	net      decimal.Decimal
}

// computeDiscount derives days, interest and net amount.
//
// interest = nominal * rate * days / base
// net      = nominal - expenses - commissions - interest
func computeDiscount(req dto.DiscountChequeRequest, issue time.Time, base int, dayCount domain.DayCount, places int32) (*discountTerms, error) {
	due := toDate(req.DueDate)
	if due.Before(toDate(issue)) {
		return nil, apperrors.New(apperrors.ErrInvalidCheque, "due date %s precedes issue date %s",
			req.DueDate.Format(time.DateOnly), issue.Format(time.DateOnly)).WithCurrency(req.CurrencyCode)
	}
	start := issue
	if req.ExpectedAccreditationDate != nil {
		start = *req.ExpectedAccreditationDate
	}
	if due.Before(toDate(start)) {
		return nil, apperrors.New(apperrors.ErrInvalidCheque, "expected accreditation date %s is after the due date %s",
			start.Format(time.DateOnly), req.DueDate.Format(time.DateOnly))
	}
	// Only the count depends on the convention; ordering is calendar order.
	days, err := accounting.DaysBetween(start, req.DueDate, dayCount)
	if err != nil {
		return nil, err
	}
	interest := accounting.DiscountInterest(req.NominalAmount, req.InterestRate, days, base, places)
	net := req.NominalAmount.Sub(req.Expenses).Sub(req.Commissions).Sub(interest)
	if !net.IsPositive() {
		return nil, apperrors.New(apperrors.ErrInvalidCheque, "net amount %s is not positive", net.String()).
			WithCurrency(req.CurrencyCode).WithResidual(net)
	}
	return &discountTerms{days: days, interest: interest, net: net}, nil
}

// DiscountCheque implements portssvc.ChequeSvcFacade.
//
// Dr holding nominal / Cr client net, Cr interest income interest,
// Cr commission income commissions, Cr commission expense expenses.
func (s *chequeService) DiscountCheque(ctx context.Context, req dto.DiscountChequeRequest) (*domain.Cheque, *domain.PostedOperation, error) {
	logger := s.GetLogger(ctx)
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	issue := req.OperationDate
	if req.IssueDate != nil {
		issue = *req.IssueDate
	}
	base := req.InterestBase
	if base == 0 {
		base = s.interestBase
	}

	var cheque *domain.Cheque
	var op *domain.Operation
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		cur, err := resolveCurrency(ctx, tx, req.CurrencyCode)
		if err != nil {
			return err
		}
		terms, err := computeDiscount(req, issue, base, s.dayCount, cur.Precision())
		if err != nil {
			return err
		}
		party, err := resolveParty(ctx, tx, req.PartyID)
		if err != nil {
			return err
		}
		accs, err := s.resolveDiscountAccounts(ctx, tx, req, party, terms)
		if err != nil {
			return err
		}

		lines := []dto.OperationLineRequest{
			{AccountCode: accs.holding.Code, Side: domain.Debit, Amount: req.NominalAmount, CurrencyCode: cur.CurrencyCode},
			{AccountCode: accs.client.Code, Side: domain.Credit, Amount: terms.net, CurrencyCode: cur.CurrencyCode},
		}
		for _, c := range []struct {
			acc    *domain.Account
			amount decimal.Decimal
		}{
			{accs.interest, terms.interest},
			{accs.commissionIncome, req.Commissions},
			{accs.commissionExpense, req.Expenses},
		} {
			if c.amount.IsPositive() {
				lines = append(lines, dto.OperationLineRequest{AccountCode: c.acc.Code, Side: domain.Credit, Amount: c.amount, CurrencyCode: cur.CurrencyCode})
			}
		}

		partyID := party.PartyID
		op, err = s.posting.PostInTx(ctx, tx, dto.PostOperationRequest{
			TypeCode:       domain.OpChequeBuy,
			OperationDate:  req.OperationDate,
			PartyID:        &partyID,
			Amount:         req.NominalAmount,
			CurrencyCode:   cur.CurrencyCode,
			Notes:          req.Notes,
			UserID:         req.UserID,
			IdempotencyKey: req.IdempotencyKey,
			Lines:          lines,
		})
		if err != nil {
			return err
		}

		cheque = &domain.Cheque{
			OperationID:               op.OperationID,
			PartyID:                   party.PartyID,
			Bank:                      req.Bank,
			Number:                    req.Number,
			CurrencyCode:              cur.CurrencyCode,
			NominalAmount:             req.NominalAmount,
			IssueDate:                 toDate(issue),
			DueDate:                   toDate(req.DueDate),
			ExpectedAccreditationDate: datePtr(req.ExpectedAccreditationDate),
			InterestRate:              req.InterestRate,
			InterestBase:              base,
			DayCount:                  s.dayCount,
			DaysToDue:                 terms.days,
			Expenses:                  req.Expenses,
			Commissions:               req.Commissions,
			Interest:                  terms.interest,
			NetAmount:                 terms.net,
			Status:                    domain.ChequePending,
			HoldingAccountID:          accs.holding.AccountID,
			ClientAccountID:           accs.client.AccountID,
			CashAccountID:             accs.cash.AccountID,
			CreatedAt:                 s.Now(),
		}
		return tx.InsertCheque(ctx, cheque)
	})
	if err != nil {
		logPostingFailure(logger, "Failed to discount cheque", err, slog.String("bank", req.Bank), slog.String("number", req.Number))
		return nil, nil, err
	}

	logger.Info("Cheque discounted",
		slog.Int64("cheque_id", cheque.ChequeID),
		slog.Int64("operation_id", op.OperationID),
		slog.String("net_amount", cheque.NetAmount.String()))
	ev := domain.NewOperationEvent(domain.EventChequeDiscounted, op, s.Now())
	ev.ChequeID = &cheque.ChequeID
	ev.ChequeStatus = cheque.Status
	s.Publish(ctx, ev)
	return cheque, domain.NewPostedOperation(op), nil
}

type discountAccounts struct {
	holding *domain.Account
	client  *domain.Account
	cash    *domain.Account
	// Optional; nil when the matching amount is zero.
	interest          *domain.Account
	commissionIncome  *domain.Account
	commissionExpense *domain.Account
}

func (s *chequeService) resolveDiscountAccounts(ctx context.Context, tx portsrepo.LedgerTx, req dto.DiscountChequeRequest, party *domain.Party, terms *discountTerms) (*discountAccounts, error) {
	var out discountAccounts
	var err error
	cur := req.CurrencyCode

	holdingCode := req.HoldingAccountCode
	if holdingCode == "" {
		holdingCode = s.holdingAccountCode
	}
	if holdingCode == "" {
		return nil, fmt.Errorf("%w: no holding account configured for cheques", apperrors.ErrValidation)
	}
	if out.holding, err = resolveAccount(ctx, tx, holdingCode); err != nil {
		return nil, err
	}
	if out.holding.AccountType != domain.Asset || out.holding.IsCashAccount() || out.holding.IsClientAccount() {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "cheque holding account must be a plain asset account").WithAccount(out.holding.Code)
	}

	if req.ClientAccountCode != "" {
		out.client, err = resolveAccount(ctx, tx, req.ClientAccountCode)
	} else {
		out.client, err = resolvePartyAccount(ctx, tx, party, cur)
	}
	if err != nil {
		return nil, err
	}
	if !out.client.IsClientAccount() {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "cheque proceeds must go to a client account").WithAccount(out.client.Code)
	}

	if out.cash, err = accountOrFlag(ctx, tx, req.CashAccountCode, domain.FlagCash, cur); err != nil {
		return nil, err
	}
	if !out.cash.IsCashAccount() {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "cheque settlement account must be a cash account").WithAccount(out.cash.Code)
	}

	if terms.interest.IsPositive() {
		if out.interest, err = resolveAccountByFlag(ctx, tx, domain.FlagInterestIncome, cur); err != nil {
			return nil, err
		}
	}
	if req.Commissions.IsPositive() {
		if out.commissionIncome, err = resolveAccountByFlag(ctx, tx, domain.FlagCommissionIncome, cur); err != nil {
			return nil, err
		}
	}
	if req.Expenses.IsPositive() {
		if out.commissionExpense, err = resolveAccountByFlag(ctx, tx, domain.FlagCommissionExpense, cur); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// TransitionCheque implements portssvc.ChequeSvcFacade.
//
// accredited:       Dr cash nominal / Cr holding nominal, Dr client net / Cr cash net
// rejected/expired: Dr client nominal / Cr holding nominal, plus an optional penalty
// cancelled:        Dr client nominal / Cr holding nominal
func (s *chequeService) TransitionCheque(ctx context.Context, chequeID int64, newStatus domain.ChequeStatus, effectiveDate time.Time, opts dto.TransitionOptions) (int64, error) {
	logger := s.GetLogger(ctx).With(slog.Int64("cheque_id", chequeID), slog.String("status", string(newStatus)))
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	if !newStatus.IsTerminal() {
		return 0, apperrors.New(apperrors.ErrInvalidTransition, "%q is not a settlement status", newStatus)
	}
	if opts.Penalty.IsPositive() && newStatus != domain.ChequeRejected && newStatus != domain.ChequeExpired {
		return 0, fmt.Errorf("%w: a penalty only applies to rejected or expired cheques", apperrors.ErrValidation)
	}

	var cheque *domain.Cheque
	var op *domain.Operation
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		cheque, err = tx.FindChequeByID(ctx, chequeID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.New(apperrors.ErrNotFound, "cheque %d", chequeID)
			}
			return fmt.Errorf("failed to find cheque %d: %w", chequeID, err)
		}
		if !domain.CanTransition(cheque.Status, newStatus) {
			return apperrors.New(apperrors.ErrInvalidTransition, "cheque %d is %s and cannot become %s", chequeID, cheque.Status, newStatus).
				WithOperation(cheque.OperationID)
		}
		if newStatus == domain.ChequeAccredited && toDate(effectiveDate).Before(cheque.IssueDate) {
			return apperrors.New(apperrors.ErrInvalidTransition, "accreditation date %s precedes issue date %s",
				effectiveDate.Format(time.DateOnly), cheque.IssueDate.Format(time.DateOnly))
		}

		lines, err := s.settlementLines(ctx, tx, cheque, newStatus, opts.Penalty)
		if err != nil {
			return err
		}
		notes := opts.Notes
		if notes == "" {
			notes = fmt.Sprintf("Cheque %s %s %s", cheque.Bank, cheque.Number, newStatus)
		}
		partyID := cheque.PartyID
		op, err = s.posting.PostInTx(ctx, tx, dto.PostOperationRequest{
			TypeCode:      newStatus.SettlementType(),
			OperationDate: effectiveDate,
			PartyID:       &partyID,
			Amount:        cheque.NominalAmount,
			CurrencyCode:  cheque.CurrencyCode,
			Notes:         notes,
			UserID:        opts.UserID,
			Lines:         lines,
		})
		if err != nil {
			return err
		}
		return tx.CompareAndSwapChequeStatus(ctx, chequeID, domain.ChequePending, newStatus, op.OperationID, s.Now())
	})
	if err != nil {
		logPostingFailure(logger, "Failed to transition cheque", err)
		return 0, err
	}

	logger.Info("Cheque transitioned", slog.Int64("operation_id", op.OperationID))
	ev := domain.NewOperationEvent(domain.EventChequeTransitioned, op, s.Now())
	ev.ChequeID = &cheque.ChequeID
	ev.ChequeStatus = newStatus
	s.Publish(ctx, ev)
	return op.OperationID, nil
}

func (s *chequeService) settlementLines(ctx context.Context, tx portsrepo.LedgerTx, cheque *domain.Cheque, status domain.ChequeStatus, penalty decimal.Decimal) ([]dto.OperationLineRequest, error) {
	holding, err := resolveAccountByID(ctx, tx, cheque.HoldingAccountID)
	if err != nil {
		return nil, err
	}
	client, err := resolveAccountByID(ctx, tx, cheque.ClientAccountID)
	if err != nil {
		return nil, err
	}
	cur := cheque.CurrencyCode
	line := func(acc *domain.Account, side domain.Side, amount decimal.Decimal) dto.OperationLineRequest {
		return dto.OperationLineRequest{AccountCode: acc.Code, Side: side, Amount: amount, CurrencyCode: cur}
	}

	switch status {
	case domain.ChequeAccredited:
		cash, err := resolveAccountByID(ctx, tx, cheque.CashAccountID)
		if err != nil {
			return nil, err
		}
		return []dto.OperationLineRequest{
			line(cash, domain.Debit, cheque.NominalAmount),
			line(holding, domain.Credit, cheque.NominalAmount),
			line(client, domain.Debit, cheque.NetAmount),
			line(cash, domain.Credit, cheque.NetAmount),
		}, nil
	case domain.ChequeRejected, domain.ChequeExpired:
		lines := []dto.OperationLineRequest{
			line(client, domain.Debit, cheque.NominalAmount),
			line(holding, domain.Credit, cheque.NominalAmount),
		}
		if penalty.IsPositive() {
			income, err := resolveAccountByFlag(ctx, tx, domain.FlagCommissionIncome, cur)
			if err != nil {
				return nil, err
			}
			lines = append(lines, line(client, domain.Debit, penalty), line(income, domain.Credit, penalty))
		}
		return lines, nil
	default:
		return []dto.OperationLineRequest{
			line(client, domain.Debit, cheque.NominalAmount),
			line(holding, domain.Credit, cheque.NominalAmount),
		}, nil
	}
}

// GetCheque implements portssvc.ChequeSvcFacade.
func (s *chequeService) GetCheque(ctx context.Context, chequeID int64) (*domain.Cheque, error) {
	cheque, err := s.store.FindChequeByID(ctx, chequeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "cheque %d", chequeID)
		}
		s.LogError(ctx, err, "Failed to get cheque", slog.Int64("cheque_id", chequeID))
		return nil, fmt.Errorf("failed to get cheque %d: %w", chequeID, err)
	}
	return cheque, nil
}

// ListCheques implements portssvc.ChequeSvcFacade.
func (s *chequeService) ListCheques(ctx context.Context, status *domain.ChequeStatus) ([]domain.Cheque, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown cheque status %q", apperrors.ErrValidation, *status)
	}
	cheques, err := s.store.ListCheques(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cheques")
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	return cheques, nil
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := toDate(*t)
	return &d
}
