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

// postingService validates, balances and persists operations.
type postingService struct {
	BaseService
	store portsrepo.Store
	fx    portssvc.FxSvcFacade
	// fxResultAccountCode pins the FX-result account; empty means look it up by flag.
	fxResultAccountCode string
	// maxFxResidual caps the synthetic FX line; zero means no cap.
	maxFxResidual decimal.Decimal
}

// PostingServiceOption configures the posting service.
type PostingServiceOption func(*postingService)

// WithFxResultAccount pins the account receiving FX residuals.
func WithFxResultAccount(code string) PostingServiceOption {
	return func(s *postingService) { s.fxResultAccountCode = code }
}

// WithMaxFxResidual rejects cross-currency operations whose residual exceeds max.
func WithMaxFxResidual(max decimal.Decimal) PostingServiceOption {
	return func(s *postingService) { s.maxFxResidual = max }
}

// WithPostingEvents sets the publisher notified after each commit.
func WithPostingEvents(p portssvc.EventPublisher) PostingServiceOption {
	return func(s *postingService) { s.Events = p }
}

// WithPostingClock overrides the clock used for CreatedAt stamps.
func WithPostingClock(clock func() time.Time) PostingServiceOption {
	return func(s *postingService) { s.Clock = clock }
}

// NewPostingService creates a new posting service.
func NewPostingService(store portsrepo.Store, fx portssvc.FxSvcFacade, opts ...PostingServiceOption) portssvc.PostingSvcFacade {
	s := &postingService{store: store, fx: fx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// draft is an operation that passed validation and awaits persistence.
type draft struct {
	op *domain.Operation
	// accounts as read during validation, keyed by id.
	accounts map[int64]domain.Account
}

// PostOperation implements portssvc.PostingSvc.
func (s *postingService) PostOperation(ctx context.Context, req dto.PostOperationRequest) (*domain.PostedOperation, error) {
	logger := s.GetLogger(ctx)

	var op *domain.Operation
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		var err error
		op, err = s.PostInTx(ctx, tx, req)
		return err
	})
	if err != nil {
		logPostingFailure(logger, "Failed to post operation", err, slog.String("operation_type", req.TypeCode))
		return nil, err
	}

	logger.Info("Operation posted",
		slog.Int64("operation_id", op.OperationID),
		slog.String("operation_type", op.TypeCode),
		slog.Int("entries", len(op.Entries)))
	s.Publish(ctx, domain.NewOperationEvent(domain.EventOperationPosted, op, s.Now()))
	return domain.NewPostedOperation(op), nil
}

// PostInTx implements portssvc.PostingTxSvc. The caller owns tx and decides
// whether it commits.
func (s *postingService) PostInTx(ctx context.Context, tx portsrepo.LedgerTx, req dto.PostOperationRequest) (*domain.Operation, error) {
	if err := req.ResolveExtension(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	d, err := s.buildDraft(ctx, tx, req)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, tx, d); err != nil {
		return nil, err
	}
	return d.op, nil
}

func (s *postingService) buildDraft(ctx context.Context, tx portsrepo.LedgerTx, req dto.PostOperationRequest) (*draft, error) {
	opType, err := resolveOperationType(ctx, tx, req.TypeCode)
	if err != nil {
		return nil, err
	}
	if kind := domain.KindOf(req.Extension); kind != domain.ExtensionNone && kind != opType.Extension {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "operation type %s does not accept a %s extension", opType.Code, kind)
	}

	opCurrency, err := resolveCurrency(ctx, tx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if !accounting.HasPrecision(req.Amount, opCurrency.Precision()) {
		return nil, fmt.Errorf("%w: amount %s exceeds %d decimals of %s", apperrors.ErrValidation, req.Amount, opCurrency.Precision(), opCurrency.CurrencyCode)
	}

	var party *domain.Party
	if req.PartyID != nil {
		if party, err = resolveParty(ctx, tx, *req.PartyID); err != nil {
			return nil, err
		}
	}
	if _, err := resolveUser(ctx, tx, req.UserID); err != nil {
		return nil, err
	}
	if opType.RequiresRate && (req.ExchangeRate == nil || !req.ExchangeRate.IsPositive()) {
		return nil, apperrors.New(apperrors.ErrInvalidRate, "operation type %s requires a positive exchange rate", opType.Code).WithCurrency(req.CurrencyCode)
	}

	d := &draft{accounts: make(map[int64]domain.Account, len(req.Lines)+1)}
	lines := make([]domain.JournalEntry, 0, len(req.Lines)+1)
	for i, l := range req.Lines {
		acc, err := resolveAccount(ctx, tx, l.AccountCode)
		if err != nil {
			return nil, err
		}
		cur, err := resolveCurrency(ctx, tx, l.CurrencyCode)
		if err != nil {
			return nil, err
		}
		if !accounting.HasPrecision(l.Amount, cur.Precision()) {
			return nil, fmt.Errorf("%w: line %d amount %s exceeds %d decimals of %s", apperrors.ErrValidation, i+1, l.Amount, cur.Precision(), cur.CurrencyCode)
		}
		if err := checkLineCapability(opType, acc, l.CurrencyCode, party != nil, false); err != nil {
			return nil, err
		}
		d.accounts[acc.AccountID] = *acc
		lines = append(lines, domain.JournalEntry{
			LineNo:             i + 1,
			AccountID:          acc.AccountID,
			AccountCode:        acc.Code,
			Side:               l.Side,
			Amount:             l.Amount,
			CurrencyCode:       l.CurrencyCode,
			EquivalentAmount:   l.Amount,
			EquivalentCurrency: l.CurrencyCode,
		})
	}

	residuals, currencies := accounting.ResidualsByCurrency(lines)
	if len(currencies) == 1 {
		if r := residuals[currencies[0]]; !r.IsZero() {
			return nil, apperrors.New(apperrors.ErrUnbalancedEntry, "debits and credits differ").
				WithCurrency(currencies[0]).WithResidual(r)
		}
	} else {
		if !opType.RequiresRate {
			cur := currencies[0]
			for _, c := range currencies {
				if !residuals[c].IsZero() {
					cur = c
					break
				}
			}
			return nil, apperrors.New(apperrors.ErrUnbalancedEntry, "operation type %s cannot mix currencies", opType.Code).
				WithCurrency(cur).WithResidual(residuals[cur])
		}
		if lines, err = s.synthesizeFx(ctx, tx, req, lines, d.accounts); err != nil {
			return nil, err
		}
	}

	d.op = &domain.Operation{
		OperationDate:  toDate(req.OperationDate),
		TypeCode:       opType.Code,
		PartyID:        req.PartyID,
		Amount:         req.Amount,
		CurrencyCode:   req.CurrencyCode,
		ExchangeRate:   req.ExchangeRate,
		Notes:          req.Notes,
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		Extension:      req.Extension,
		Entries:        lines,
	}
	return d, nil
}

// synthesizeFx weighs every line in the base currency and appends the line
// that absorbs the conversion residual on the FX-result account.
func (s *postingService) synthesizeFx(ctx context.Context, tx portsrepo.LedgerTx, req dto.PostOperationRequest, lines []domain.JournalEntry, accounts map[int64]domain.Account) ([]domain.JournalEntry, error) {
	base := s.fx.BaseCurrency()
	quoted := req.CurrencyCode
	if quoted == base {
		return nil, apperrors.New(apperrors.ErrInvalidRate, "a cross-currency operation must be expressed in its quoted currency, not %s", base).WithCurrency(quoted)
	}
	baseCurrency, err := resolveCurrency(ctx, tx, base)
	if err != nil {
		return nil, err
	}
	rate := *req.ExchangeRate

	residual := decimal.Zero
	for i := range lines {
		switch lines[i].CurrencyCode {
		case base:
		case quoted:
			eq, err := s.fx.Convert(ctx, lines[i].Amount, quoted, base, rate)
			if err != nil {
				return nil, err
			}
			lines[i].EquivalentAmount = eq
		default:
			return nil, apperrors.New(apperrors.ErrInvalidRate, "no rate for line %d, only %s and %s are allowed", lines[i].LineNo, quoted, base).
				WithCurrency(lines[i].CurrencyCode).WithAccount(lines[i].AccountCode)
		}
		lines[i].EquivalentCurrency = base
		residual = residual.Add(lines[i].SignedEquivalent())
	}

	if s.maxFxResidual.IsPositive() && residual.Abs().GreaterThan(s.maxFxResidual) {
		return nil, apperrors.New(apperrors.ErrUnbalancedEntry, "FX residual exceeds the allowed %s", s.maxFxResidual).
			WithCurrency(base).WithResidual(residual)
	}

	if !residual.IsZero() {
		fxAcc, err := s.fxResultAccount(ctx, tx, base)
		if err != nil {
			return nil, err
		}
		side := domain.Credit
		if residual.IsNegative() {
			side = domain.Debit
		}
		accounts[fxAcc.AccountID] = *fxAcc
		lines = append(lines, domain.JournalEntry{
			LineNo:             len(lines) + 1,
			AccountID:          fxAcc.AccountID,
			AccountCode:        fxAcc.Code,
			Side:               side,
			Amount:             residual.Abs(),
			CurrencyCode:       base,
			EquivalentAmount:   residual.Abs(),
			EquivalentCurrency: base,
			IsFxResult:         true,
		})
	}

	total := accounting.EquivalentTotals(lines)[base]
	if total.Abs().GreaterThan(accounting.MinorUnit(baseCurrency.Precision())) {
		return nil, apperrors.New(apperrors.ErrUnbalancedEntry, "equivalents do not balance after FX synthesis").
			WithCurrency(base).WithResidual(total)
	}
	return lines, nil
}

func (s *postingService) fxResultAccount(ctx context.Context, r portsrepo.AccountReader, base string) (*domain.Account, error) {
	acc, err := accountOrFlag(ctx, r, s.fxResultAccountCode, domain.FlagFxResult, base)
	if err != nil {
		return nil, err
	}
	switch {
	case !acc.IsFxResultAccount():
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "configured FX-result account is not flagged fx_result").WithAccount(acc.Code)
	case !acc.IsActive:
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "FX-result account is inactive").WithAccount(acc.Code)
	case acc.CurrencyCode != base:
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "FX-result account must be in the base currency %s", base).
			WithAccount(acc.Code).WithCurrency(acc.CurrencyCode)
	}
	if err := acc.ValidateCapabilities(); err != nil {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "%s", err.Error()).WithAccount(acc.Code)
	}
	return acc, nil
}

// checkLineCapability enforces what an account may receive. fxLine marks
// lines the engine produced itself; only those may touch FX-result accounts.
func checkLineCapability(opType *domain.OperationType, acc *domain.Account, lineCurrency string, hasParty, fxLine bool) error {
	violation := func(format string, args ...any) error {
		return apperrors.New(apperrors.ErrCapabilityViolation, format, args...).WithAccount(acc.Code)
	}
	if err := acc.ValidateCapabilities(); err != nil {
		return violation("%s", err.Error())
	}
	switch {
	case !acc.IsActive:
		return violation("account is inactive")
	case lineCurrency != acc.CurrencyCode:
		return violation("line currency %s does not match account currency %s", lineCurrency, acc.CurrencyCode)
	case acc.IsClientAccount() && !hasParty:
		return violation("postings to client accounts require a party")
	case acc.IsFxResultAccount() && !fxLine:
		return violation("FX-result accounts only receive engine-generated lines")
	case opType.ForbidsCash && acc.IsCashAccount():
		return violation("operation type %s may not move cash", opType.Code)
	case opType.ForbidsCommission && acc.IsCommissionAccount():
		return violation("operation type %s may not touch commission accounts", opType.Code)
	}
	return nil
}

// persist locks the touched accounts, checks nothing changed since they were
// read, bumps their versions and writes the operation.
func (s *postingService) persist(ctx context.Context, tx portsrepo.LedgerTx, d *draft) error {
	ids := d.op.AccountIDs()
	locked, err := tx.LockAccounts(ctx, ids)
	if err != nil {
		return err
	}
	expected := make(map[int64]int64, len(ids))
	for _, id := range ids {
		current, ok := locked[id]
		if !ok {
			return apperrors.New(apperrors.ErrNotFound, "account id %d", id)
		}
		seen := d.accounts[id]
		if current.Version != seen.Version || current.IsActive != seen.IsActive || current.Flags != seen.Flags {
			return apperrors.New(apperrors.ErrConcurrentModification, "account changed while the operation was prepared").WithAccount(current.Code)
		}
		expected[id] = current.Version
	}
	if err := tx.BumpAccountVersions(ctx, expected); err != nil {
		return err
	}
	d.op.CreatedAt = s.Now()
	if err := tx.InsertOperation(ctx, d.op); err != nil {
		return describeDuplicate(err, d.op)
	}
	return nil
}

// describeDuplicate restates a unique-key violation on op in ledger terms.
func describeDuplicate(err error, op *domain.Operation) error {
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return err
	}
	switch apperrors.ConstraintOf(err) {
	case portsrepo.UniqueIdempotencyKey:
		if op.IdempotencyKey != nil {
			return apperrors.New(apperrors.ErrDuplicate, "idempotency key %q already used", *op.IdempotencyKey).
				WithConstraint(portsrepo.UniqueIdempotencyKey)
		}
	case portsrepo.UniqueReversalOf:
		if op.ReversalOf != nil {
			return apperrors.New(apperrors.ErrDuplicate, "operation %d is already reversed", *op.ReversalOf).
				WithOperation(*op.ReversalOf).WithConstraint(portsrepo.UniqueReversalOf)
		}
	}
	return err
}

// ReverseOperation implements portssvc.PostingSvc.
func (s *postingService) ReverseOperation(ctx context.Context, operationID int64, req dto.ReverseOperationRequest) (*domain.PostedOperation, error) {
	logger := s.GetLogger(ctx).With(slog.Int64("reversal_of", operationID))
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	}
	if err := dto.ValidateStruct(req); err != nil {
		return nil, err
	}

	var op *domain.Operation
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		d, err := s.buildReversal(ctx, tx, operationID, req)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, tx, d); err != nil {
			return err
		}
		op = d.op
		return nil
	})
	if err != nil {
		logPostingFailure(logger, "Failed to reverse operation", err)
		return nil, err
	}

	logger.Info("Operation reversed", slog.Int64("operation_id", op.OperationID))
	s.Publish(ctx, domain.NewOperationEvent(domain.EventOperationReversed, op, s.Now()))
	return domain.NewPostedOperation(op), nil
}

func (s *postingService) buildReversal(ctx context.Context, tx portsrepo.LedgerTx, operationID int64, req dto.ReverseOperationRequest) (*draft, error) {
	orig, err := tx.FindOperationByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "operation").WithOperation(operationID)
		}
		return nil, fmt.Errorf("failed to find operation %d: %w", operationID, err)
	}
	origType, err := resolveOperationType(ctx, tx, orig.TypeCode)
	if err != nil {
		return nil, err
	}
	if !origType.Reversible {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "operations of type %s are not reversible", origType.Code).WithOperation(operationID)
	}
	existing, err := tx.FindReversalOf(ctx, operationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check reversals of %d: %w", operationID, err)
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.ErrDuplicate, "already reversed by operation %d", *existing).WithOperation(operationID)
	}
	if _, err := resolveUser(ctx, tx, req.UserID); err != nil {
		return nil, err
	}
	reversalType, err := resolveOperationType(ctx, tx, domain.OpReversal)
	if err != nil {
		return nil, err
	}

	d := &draft{accounts: make(map[int64]domain.Account, len(orig.Entries))}
	lines := make([]domain.JournalEntry, 0, len(orig.Entries))
	for _, e := range orig.Entries {
		acc, err := resolveAccountByID(ctx, tx, e.AccountID)
		if err != nil {
			return nil, err
		}
		if err := checkLineCapability(reversalType, acc, e.CurrencyCode, orig.PartyID != nil, e.IsFxResult); err != nil {
			return nil, err
		}
		d.accounts[acc.AccountID] = *acc
		lines = append(lines, e.Flipped())
	}
	if !accounting.AllZero(accounting.EquivalentTotals(lines)) {
		return nil, apperrors.New(apperrors.ErrUnbalancedEntry, "stored operation does not balance").WithOperation(operationID)
	}

	date := orig.OperationDate
	if req.OperationDate != nil {
		date = toDate(*req.OperationDate)
	}
	notes := req.Notes
	if notes == "" {
		notes = fmt.Sprintf("Reversal of operation %d", operationID)
	}
	origID := orig.OperationID
	d.op = &domain.Operation{
		OperationDate:  date,
		TypeCode:       domain.OpReversal,
		PartyID:        orig.PartyID,
		Amount:         orig.Amount,
		CurrencyCode:   orig.CurrencyCode,
		ExchangeRate:   orig.ExchangeRate,
		Notes:          notes,
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		ReversalOf:     &origID,
		Entries:        lines,
	}
	return d, nil
}

// GetOperation implements portssvc.PostingSvc.
func (s *postingService) GetOperation(ctx context.Context, operationID int64) (*domain.Operation, error) {
	op, err := s.store.FindOperationByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "operation").WithOperation(operationID)
		}
		s.LogError(ctx, err, "Failed to get operation", slog.Int64("operation_id", operationID))
		return nil, fmt.Errorf("failed to get operation %d: %w", operationID, err)
	}
	return op, nil
}

// logPostingFailure logs business rejections at warn and everything else at error.
func logPostingFailure(logger *slog.Logger, msg string, err error, attrs ...any) {
	args := append([]any{slog.String("error", err.Error())}, attrs...)
	var le *apperrors.LedgerError
	if errors.As(err, &le) || errors.Is(err, apperrors.ErrValidation) {
		logger.Warn(msg, args...)
		return
	}
	logger.Error(msg, args...)
}

// toDate drops the time of day, keeping the calendar date in UTC.
func toDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
