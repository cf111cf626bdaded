package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/posting_engine/internal/adapters/database/memory"
	"github.com/SscSPs/posting_engine/internal/adapters/events"
	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/core/services"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/stretchr/testify/suite"
)

type PostingServiceTestSuite struct {
	suite.Suite
	ctx context.Context
	fx  *ledgerFixture
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}

func (s *PostingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fx = newLedgerFixture(s.T())
}

func (s *PostingServiceTestSuite) trialBalance() *domain.TrialBalance {
	tb, err := s.fx.svc.Ledger.TrialBalance(s.ctx, date(2030, time.January, 1))
	s.Require().NoError(err)
	return tb
}

func (s *PostingServiceTestSuite) requireLedgerError(err error, kind error) *apperrors.LedgerError {
	s.Require().Error(err)
	s.Require().ErrorIs(err, kind)
	var le *apperrors.LedgerError
	s.Require().True(errors.As(err, &le), "expected a LedgerError, got %T", err)
	return le
}

func (s *PostingServiceTestSuite) TestPostOperation_SingleCurrency() {
	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, adjustment("ARS", "100",
		debit("1010", "100", "ARS"),
		credit("1030", "100", "ARS"),
	))
	s.Require().NoError(err)
	s.NotZero(posted.OperationID)
	s.Len(posted.EntryIDs, 2)
	s.Nil(posted.FxEntryID)

	tb := s.trialBalance()
	s.True(tb.Balanced)
	s.True(tb.BalanceOf("1010").Equal(dec("100")))
	s.True(tb.BalanceOf("1030").Equal(dec("-100")))
	s.Equal([]string{domain.EventOperationPosted}, s.fx.events.Types())
}

func (s *PostingServiceTestSuite) TestPostOperation_Unbalanced() {
	_, err := s.fx.svc.Posting.PostOperation(s.ctx, adjustment("ARS", "100",
		debit("1010", "100", "ARS"),
		credit("1030", "90", "ARS"),
	))
	le := s.requireLedgerError(err, apperrors.ErrUnbalancedEntry)
	s.Equal("ARS", le.Currency)
	s.Require().NotNil(le.Residual)
	s.True(le.Residual.Equal(dec("10")))

	s.Empty(s.trialBalance().Rows)
	s.Empty(s.fx.events.Types())
}

func (s *PostingServiceTestSuite) TestPostOperation_FxWithoutResidual() {
	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, fxBuy("1000", "100000"))
	s.Require().NoError(err)
	s.Nil(posted.FxEntryID)
	s.Require().Len(posted.Operation.Entries, 2)

	usd := posted.Operation.Entries[0]
	s.Equal("ARS", usd.EquivalentCurrency)
	s.True(usd.EquivalentAmount.Equal(dec("100000")))
	s.True(s.trialBalance().Balanced)
}

func (s *PostingServiceTestSuite) TestPostOperation_FxSynthesizesResultLine() {
	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, fxBuy("1000", "99500"))
	s.Require().NoError(err)
	s.Require().NotNil(posted.FxEntryID)

	fxLine := posted.Operation.FxEntry()
	s.Require().NotNil(fxLine)
	s.Equal("5100", fxLine.AccountCode)
	s.Equal(domain.Credit, fxLine.Side)
	s.Equal("ARS", fxLine.CurrencyCode)
	s.True(fxLine.Amount.Equal(dec("500")))
	s.Equal(3, fxLine.LineNo)

	tb := s.trialBalance()
	s.True(tb.Balanced)
	s.True(tb.Totals["ARS"].IsZero())
	s.True(tb.BalanceOf("1020").Equal(dec("100")))
	s.True(tb.BalanceOf("5100").Equal(dec("-500")))

	events := s.fx.events.events
	s.Require().Len(events, 1)
	s.Require().NotNil(events[0].FxResult)
	s.True(events[0].FxResult.Equal(dec("-500")))
}

func (s *PostingServiceTestSuite) TestPostOperation_FxLossIsDebited() {
	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, fxBuy("1000", "100250"))
	s.Require().NoError(err)
	fxLine := posted.Operation.FxEntry()
	s.Require().NotNil(fxLine)
	s.Equal(domain.Debit, fxLine.Side)
	s.True(fxLine.Amount.Equal(dec("250")))
}

func (s *PostingServiceTestSuite) TestPostOperation_FxRateErrors() {
	noRate := fxBuy("1000", "100000")
	noRate.ExchangeRate = nil
	_, err := s.fx.svc.Posting.PostOperation(s.ctx, noRate)
	s.requireLedgerError(err, apperrors.ErrInvalidRate)

	zero := fxBuy("0", "100000")
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, zero)
	s.requireLedgerError(err, apperrors.ErrInvalidRate)

	s.Require().NoError(s.fx.store.SaveCurrency(s.ctx, domain.Currency{CurrencyCode: "EUR", MinorUnits: 2}))
	s.Require().NoError(s.fx.store.SaveAccount(s.ctx, &domain.Account{
		Code: "1050", Name: "Caja EUR", AccountType: domain.Asset, CurrencyCode: "EUR",
		IsActive: true, Flags: domain.AccountFlags{IsCash: true},
	}))
	thirdCurrency := fxBuy("1000", "100000")
	thirdCurrency.Lines = append(thirdCurrency.Lines, debit("1050", "1", "EUR"))
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, thirdCurrency)
	le := s.requireLedgerError(err, apperrors.ErrInvalidRate)
	s.Equal("EUR", le.Currency)

	tooPrecise := fxBuy("1000.000000001", "100000")
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, tooPrecise)
	s.requireLedgerError(err, apperrors.ErrInvalidRate)

	s.Empty(s.trialBalance().Rows)

	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, fxBuy("1000.00000001", "100000"))
	s.Require().NoError(err)
	s.Require().NotNil(posted.Operation.ExchangeRate)
	s.True(posted.Operation.ExchangeRate.Equal(dec("1000.00000001")))
}

func (s *PostingServiceTestSuite) TestPostOperation_MixedCurrenciesNeedRateType() {
	req := fxBuy("1000", "100000")
	req.TypeCode = domain.OpTransfer
	_, err := s.fx.svc.Posting.PostOperation(s.ctx, req)
	s.requireLedgerError(err, apperrors.ErrUnbalancedEntry)
}

func (s *PostingServiceTestSuite) TestPostOperation_CapabilityViolations() {
	inactive := &domain.Account{Code: "1099", Name: "Caja cerrada", AccountType: domain.Asset, CurrencyCode: "ARS"}
	s.Require().NoError(s.fx.store.SaveAccount(s.ctx, inactive))

	tests := []struct {
		name    string
		req     dto.PostOperationRequest
		account string
	}{
		{
			name:    "line on FX-result account",
			req:     adjustment("ARS", "10", debit("1010", "10", "ARS"), credit("5100", "10", "ARS")),
			account: "5100",
		},
		{
			name:    "client account without party",
			req:     adjustment("ARS", "10", debit("1100", "10", "ARS"), credit("1010", "10", "ARS")),
			account: "1100",
		},
		{
			name:    "line currency differs from account currency",
			req:     adjustment("USD", "10", debit("1010", "10", "USD"), credit("1020", "10", "USD")),
			account: "1010",
		},
		{
			name:    "inactive account",
			req:     adjustment("ARS", "10", debit("1099", "10", "ARS"), credit("1010", "10", "ARS")),
			account: "1099",
		},
		{
			name: "cancel type moving cash",
			req: func() dto.PostOperationRequest {
				r := adjustment("ARS", "10", debit("1200", "10", "ARS"), credit("1010", "10", "ARS"))
				r.TypeCode = domain.OpChequeCancel
				return r
			}(),
			account: "1010",
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.fx.svc.Posting.PostOperation(s.ctx, tt.req)
			le := s.requireLedgerError(err, apperrors.ErrCapabilityViolation)
			s.Equal(tt.account, le.AccountCode)
		})
	}
	s.Empty(s.trialBalance().Rows)
}

func (s *PostingServiceTestSuite) TestPostOperation_ExtensionMustMatchType() {
	req := adjustment("ARS", "10", debit("1010", "10", "ARS"), credit("1030", "10", "ARS"))
	req.TypeCode = domain.OpPayment
	req.Extension = domain.FxDetail{Side: domain.FxBuy}
	_, err := s.fx.svc.Posting.PostOperation(s.ctx, req)
	s.requireLedgerError(err, apperrors.ErrCapabilityViolation)
}

func (s *PostingServiceTestSuite) TestPostOperation_ValidationAndLookups() {
	precision := adjustment("ARS", "10", debit("1010", "10.001", "ARS"), credit("1030", "10.001", "ARS"))
	_, err := s.fx.svc.Posting.PostOperation(s.ctx, precision)
	s.ErrorIs(err, apperrors.ErrValidation)

	negative := adjustment("ARS", "10", debit("1010", "-10", "ARS"), credit("1030", "-10", "ARS"))
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, negative)
	s.ErrorIs(err, apperrors.ErrValidation)

	unknownAccount := adjustment("ARS", "10", debit("9999", "10", "ARS"), credit("1030", "10", "ARS"))
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, unknownAccount)
	le := s.requireLedgerError(err, apperrors.ErrNotFound)
	s.Equal("9999", le.AccountCode)

	unknownUser := adjustment("ARS", "10", debit("1010", "10", "ARS"), credit("1030", "10", "ARS"))
	unknownUser.UserID = 42
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, unknownUser)
	s.ErrorIs(err, apperrors.ErrNotFound)

	unknownType := adjustment("ARS", "10", debit("1010", "10", "ARS"), credit("1030", "10", "ARS"))
	unknownType.TypeCode = "CHEQUE_SELL"
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, unknownType)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostingServiceTestSuite) TestPostOperation_AtomicOnCommitFailure() {
	before, err := s.fx.store.FindAccountByCode(s.ctx, "1010")
	s.Require().NoError(err)

	boom := errors.New("disk full")
	s.fx.store.BeforeCommit = func(context.Context) error { return boom }
	_, err = s.fx.svc.Posting.PostOperation(s.ctx, fxBuy("1000", "99500"))
	s.ErrorIs(err, boom)
	s.fx.store.BeforeCommit = nil

	after, err := s.fx.store.FindAccountByCode(s.ctx, "1010")
	s.Require().NoError(err)
	s.Equal(before.Version, after.Version)
	s.Empty(s.trialBalance().Rows)
	s.Empty(s.fx.events.Types())
}

func (s *PostingServiceTestSuite) TestPostOperation_ConcurrentConflict() {
	var arrived sync.WaitGroup
	arrived.Add(2)
	s.fx.store.BeforeCommit = func(context.Context) error {
		arrived.Done()
		arrived.Wait()
		return nil
	}

	errs := make([]error, 2)
	var done sync.WaitGroup
	for i := range errs {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			_, errs[i] = s.fx.svc.Posting.PostOperation(s.ctx, adjustment("ARS", "10",
				debit("1010", "10", "ARS"),
				credit("1030", "10", "ARS"),
			))
		}(i)
	}
	done.Wait()
	s.fx.store.BeforeCommit = nil

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			s.ErrorIs(err, apperrors.ErrConcurrentModification)
			s.True(apperrors.IsRetryable(err))
		}
	}
	s.Equal(1, failed)
	s.True(s.trialBalance().BalanceOf("1010").Equal(dec("10")))
}

func (s *PostingServiceTestSuite) TestPostOperation_IdempotencyKey() {
	req := adjustment("ARS", "10", debit("1010", "10", "ARS"), credit("1030", "10", "ARS"))
	req.IdempotencyKey = strPtr("op-1")
	_, err := s.fx.svc.Posting.PostOperation(s.ctx, req)
	s.Require().NoError(err)

	_, err = s.fx.svc.Posting.PostOperation(s.ctx, req)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.True(s.trialBalance().BalanceOf("1010").Equal(dec("10")))
}

func (s *PostingServiceTestSuite) TestReverseOperation_RoundTrip() {
	before := s.trialBalance()
	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, fxBuy("1000", "99500"))
	s.Require().NoError(err)

	reversal, err := s.fx.svc.Posting.ReverseOperation(s.ctx, posted.OperationID, dto.ReverseOperationRequest{UserID: testUserID})
	s.Require().NoError(err)
	s.Equal(domain.OpReversal, reversal.Operation.TypeCode)
	s.Require().NotNil(reversal.Operation.ReversalOf)
	s.Equal(posted.OperationID, *reversal.Operation.ReversalOf)
	s.Equal(posted.Operation.OperationDate, reversal.Operation.OperationDate)
	s.Require().Len(reversal.Operation.Entries, len(posted.Operation.Entries))
	for i, e := range reversal.Operation.Entries {
		orig := posted.Operation.Entries[i]
		s.Equal(orig.Side.Opposite(), e.Side)
		s.True(orig.Amount.Equal(e.Amount))
		s.True(orig.EquivalentAmount.Equal(e.EquivalentAmount))
	}
	s.NotNil(reversal.FxEntryID)

	after := s.trialBalance()
	s.True(after.Balanced)
	for _, row := range after.Rows {
		s.True(row.Balance.Equal(before.BalanceOf(row.AccountCode)), "account %s", row.AccountCode)
	}
	s.Equal([]string{domain.EventOperationPosted, domain.EventOperationReversed}, s.fx.events.Types())

	_, err = s.fx.svc.Posting.ReverseOperation(s.ctx, posted.OperationID, dto.ReverseOperationRequest{UserID: testUserID})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.fx.svc.Posting.ReverseOperation(s.ctx, reversal.OperationID, dto.ReverseOperationRequest{UserID: testUserID})
	s.requireLedgerError(err, apperrors.ErrCapabilityViolation)

	_, err = s.fx.svc.Posting.ReverseOperation(s.ctx, 999, dto.ReverseOperationRequest{UserID: testUserID})
	s.requireLedgerError(err, apperrors.ErrNotFound)
}

func (s *PostingServiceTestSuite) TestReverseOperation_CustomDate() {
	posted, err := s.fx.svc.Posting.PostOperation(s.ctx, adjustment("ARS", "10", debit("1010", "10", "ARS"), credit("1030", "10", "ARS")))
	s.Require().NoError(err)

	on := date(2024, time.February, 1)
	_, err = s.fx.svc.Posting.ReverseOperation(s.ctx, posted.OperationID, dto.ReverseOperationRequest{UserID: testUserID, OperationDate: &on})
	s.Require().NoError(err)

	mid, err := s.fx.svc.Ledger.AccountBalanceByCode(s.ctx, "1010", date(2024, time.January, 31))
	s.Require().NoError(err)
	s.True(mid.Balance.Equal(dec("10")))

	end, err := s.fx.svc.Ledger.AccountBalanceByCode(s.ctx, "1010", on)
	s.Require().NoError(err)
	s.True(end.Balance.IsZero())
}

func (s *PostingServiceTestSuite) TestGetOperation() {
	posted, err := s.fx.svc.Posting.PostFxTrade(s.ctx, dto.FxTradeRequest{
		Side: domain.FxBuy, OperationDate: date(2024, time.January, 10),
		QuotedCurrency: "USD", QuotedAmount: dec("100"), Rate: dec("1000"), UserID: testUserID,
	})
	s.Require().NoError(err)

	op, err := s.fx.svc.Posting.GetOperation(s.ctx, posted.OperationID)
	s.Require().NoError(err)
	s.Equal(domain.ExtensionFx, domain.KindOf(op.Extension))

	_, err = s.fx.svc.Posting.GetOperation(s.ctx, 999)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostingServiceTestSuite) TestPostFxTrade() {
	buy, err := s.fx.svc.Posting.PostFxTrade(s.ctx, dto.FxTradeRequest{
		Side: domain.FxBuy, OperationDate: date(2024, time.January, 10),
		QuotedCurrency: "USD", QuotedAmount: dec("100"), Rate: dec("1000"), UserID: testUserID,
	})
	s.Require().NoError(err)
	s.Equal(domain.OpFxBuy, buy.Operation.TypeCode)
	s.Require().Len(buy.Operation.Entries, 2)
	s.Equal("1020", buy.Operation.Entries[0].AccountCode)
	s.Equal(domain.Debit, buy.Operation.Entries[0].Side)
	s.Equal("1010", buy.Operation.Entries[1].AccountCode)
	s.True(buy.Operation.Entries[1].Amount.Equal(dec("100000")))
	detail, ok := buy.Operation.Extension.(domain.FxDetail)
	s.Require().True(ok)
	s.True(detail.BaseAmount.Equal(dec("100000")))

	sell, err := s.fx.svc.Posting.PostFxTrade(s.ctx, dto.FxTradeRequest{
		Side: domain.FxSell, OperationDate: date(2024, time.January, 11),
		QuotedCurrency: "USD", QuotedAmount: dec("40"), Rate: dec("1010.5"), UserID: testUserID,
	})
	s.Require().NoError(err)
	s.Equal(domain.Credit, sell.Operation.Entries[0].Side)
	s.True(sell.Operation.Entries[1].Amount.Equal(dec("40420")))

	_, err = s.fx.svc.Posting.PostFxTrade(s.ctx, dto.FxTradeRequest{
		Side: domain.FxBuy, OperationDate: date(2024, time.January, 10),
		QuotedCurrency: "USD", QuotedAmount: dec("100"), Rate: dec("-1"), UserID: testUserID,
	})
	s.ErrorIs(err, apperrors.ErrInvalidRate)

	s.True(s.trialBalance().Balanced)
}

func (s *PostingServiceTestSuite) TestPostPayment() {
	posted, err := s.fx.svc.Posting.PostPayment(s.ctx, dto.PaymentRequest{SettlementRequest: dto.SettlementRequest{
		OperationDate:        date(2024, time.January, 10),
		PartyID:              testSupplierID,
		CurrencyCode:         "ARS",
		GrossAmount:          dec("1234.50"),
		CommissionPercentage: decPtr("1.5"),
		ExpensesAmount:       dec("10"),
		UserID:               testUserID,
	}})
	s.Require().NoError(err)

	entries := posted.Operation.Entries
	s.Require().Len(entries, 3)
	s.Equal("2100", entries[0].AccountCode)
	s.True(entries[0].Amount.Equal(dec("1234.50")))
	s.Equal("5300", entries[1].AccountCode)
	s.True(entries[1].Amount.Equal(dec("28.52")))
	s.Equal("1010", entries[2].AccountCode)
	s.Equal(domain.Credit, entries[2].Side)
	s.True(entries[2].Amount.Equal(dec("1263.02")))

	detail, ok := posted.Operation.Extension.(domain.PaymentDetail)
	s.Require().True(ok)
	s.True(detail.CommissionAmount.Equal(dec("18.52")))
	s.True(detail.TotalAmount.Equal(dec("1263.02")))
}

func (s *PostingServiceTestSuite) TestPostReceipt() {
	posted, err := s.fx.svc.Posting.PostReceipt(s.ctx, dto.ReceiptRequest{SettlementRequest: dto.SettlementRequest{
		OperationDate:    date(2024, time.January, 10),
		PartyID:          testClientID,
		CurrencyCode:     "ARS",
		GrossAmount:      dec("1000"),
		CommissionAmount: decPtr("10"),
		ExpensesAmount:   dec("5"),
		UserID:           testUserID,
	}})
	s.Require().NoError(err)

	entries := posted.Operation.Entries
	s.Require().Len(entries, 3)
	s.Equal("1010", entries[0].AccountCode)
	s.True(entries[0].Amount.Equal(dec("985")))
	s.Equal("5300", entries[1].AccountCode)
	s.True(entries[1].Amount.Equal(dec("15")))
	s.Equal("1100", entries[2].AccountCode)
	s.Equal(domain.Credit, entries[2].Side)

	detail, ok := posted.Operation.Extension.(domain.ReceiptDetail)
	s.Require().True(ok)
	s.True(detail.NetAmount.Equal(dec("985")))

	_, err = s.fx.svc.Posting.PostReceipt(s.ctx, dto.ReceiptRequest{SettlementRequest: dto.SettlementRequest{
		OperationDate:    date(2024, time.January, 10),
		PartyID:          testClientID,
		CurrencyCode:     "ARS",
		GrossAmount:      dec("10"),
		CommissionAmount: decPtr("20"),
		UserID:           testUserID,
	}})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PostingServiceTestSuite) TestAccountBalance() {
	_, err := s.fx.svc.Posting.PostPayment(s.ctx, dto.PaymentRequest{SettlementRequest: dto.SettlementRequest{
		OperationDate: date(2024, time.January, 10),
		PartyID:       testSupplierID,
		CurrencyCode:  "ARS",
		GrossAmount:   dec("100"),
		UserID:        testUserID,
	}})
	s.Require().NoError(err)

	cash, err := s.fx.svc.Ledger.AccountBalanceByCode(s.ctx, "1010", date(2024, time.January, 10))
	s.Require().NoError(err)
	s.True(cash.Credit.Equal(dec("100")))
	s.True(cash.Balance.Equal(dec("-100")))
	s.True(cash.DisplayBalance.Equal(dec("-100")))

	supplier, err := s.fx.svc.Ledger.AccountBalanceByCode(s.ctx, "2100", date(2024, time.January, 10))
	s.Require().NoError(err)
	s.True(supplier.Balance.Equal(dec("100")))
	s.True(supplier.DisplayBalance.Equal(dec("-100")))

	earlier, err := s.fx.svc.Ledger.AccountBalance(s.ctx, cash.AccountID, date(2024, time.January, 9))
	s.Require().NoError(err)
	s.True(earlier.Balance.IsZero())

	_, err = s.fx.svc.Ledger.AccountBalanceByCode(s.ctx, "9999", date(2024, time.January, 10))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

// stalledBroker blocks every delivery until release is closed.
type stalledBroker struct {
	release chan struct{}
	inner   *recordingPublisher
}

func (b *stalledBroker) Publish(ctx context.Context, ev domain.LedgerEvent) error {
	<-b.release
	return b.inner.Publish(ctx, ev)
}

func (b *stalledBroker) Close() error { return nil }

func (s *PostingServiceTestSuite) TestPostOperation_DoesNotWaitForBroker() {
	broker := &stalledBroker{release: make(chan struct{}), inner: &recordingPublisher{}}
	publisher := events.NewAsyncPublisher(broker, 8, nil)
	svc := services.NewServiceContainer(testConfig(), memory.NewRepositoryProvider(s.fx.store), publisher)

	type result struct {
		posted *domain.PostedOperation
		err    error
	}
	done := make(chan result, 1)
	go func() {
		posted, err := svc.Posting.PostOperation(s.ctx, adjustment("ARS", "10",
			debit("1010", "10", "ARS"),
			credit("1030", "10", "ARS"),
		))
		done <- result{posted, err}
	}()

	select {
	case r := <-done:
		s.Require().NoError(r.err)
		s.NotZero(r.posted.OperationID)
	case <-time.After(time.Second):
		s.Fail("PostOperation waited for the event broker")
	}

	close(broker.release)
	s.Require().NoError(publisher.Close())
	s.Equal([]string{domain.EventOperationPosted}, broker.inner.Types())
}
