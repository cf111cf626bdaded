package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PostFxTrade implements portssvc.PostingTemplateSvc.
//
// BUY:  Dr quoted cash quotedAmount / Cr base cash quotedAmount*rate
// SELL: Dr base cash quotedAmount*rate / Cr quoted cash quotedAmount
func (s *postingService) PostFxTrade(ctx context.Context, req dto.FxTradeRequest) (*domain.PostedOperation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	base := s.fx.BaseCurrency()
	if req.QuotedCurrency == base {
		return nil, fmt.Errorf("%w: quoted currency must differ from the base currency %s", apperrors.ErrValidation, base)
	}
	baseAmount, err := s.fx.Convert(ctx, req.QuotedAmount, req.QuotedCurrency, base, req.Rate)
	if err != nil {
		return nil, err
	}
	quotedCash, err := s.cashAccount(ctx, req.QuotedCashAccountCode, req.QuotedCurrency)
	if err != nil {
		return nil, err
	}
	baseCash, err := s.cashAccount(ctx, req.BaseCashAccountCode, base)
	if err != nil {
		return nil, err
	}

	typeCode, quotedSide := domain.OpFxBuy, domain.Debit
	if req.Side == domain.FxSell {
		typeCode, quotedSide = domain.OpFxSell, domain.Credit
	}
	rate := req.Rate
	return s.PostOperation(ctx, dto.PostOperationRequest{
		TypeCode:       typeCode,
		OperationDate:  req.OperationDate,
		PartyID:        req.PartyID,
		Amount:         req.QuotedAmount,
		CurrencyCode:   req.QuotedCurrency,
		ExchangeRate:   &rate,
		Notes:          req.Notes,
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		Lines: []dto.OperationLineRequest{
			{AccountCode: quotedCash.Code, Side: quotedSide, Amount: req.QuotedAmount, CurrencyCode: req.QuotedCurrency},
			{AccountCode: baseCash.Code, Side: quotedSide.Opposite(), Amount: baseAmount, CurrencyCode: base},
		},
		Extension: domain.FxDetail{
			Side:           req.Side,
			QuotedCurrency: req.QuotedCurrency,
			QuotedAmount:   req.QuotedAmount,
			BaseCurrency:   base,
			BaseAmount:     baseAmount,
			Rate:           req.Rate,
		},
	})
}

// settlement holds the resolved pieces shared by payments and receipts.
type settlement struct {
	partyAccount      *domain.Account
	cashAccount       *domain.Account
	commissionAccount *domain.Account
	commission        decimal.Decimal
	fees              decimal.Decimal
}

func (s *postingService) resolveSettlement(ctx context.Context, req dto.SettlementRequest) (*settlement, error) {
	cur, err := resolveCurrency(ctx, s.store, req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	party, err := resolveParty(ctx, s.store, req.PartyID)
	if err != nil {
		return nil, err
	}

	out := &settlement{commission: decimal.Zero}
	switch {
	case req.CommissionAmount != nil:
		out.commission = *req.CommissionAmount
	case req.CommissionPercentage != nil:
		out.commission = accounting.PercentageOf(req.GrossAmount, *req.CommissionPercentage, cur.Precision())
	}
	out.fees = out.commission.Add(req.ExpensesAmount)

	if req.PartyAccountCode != "" {
		out.partyAccount, err = resolveAccount(ctx, s.store, req.PartyAccountCode)
	} else {
		out.partyAccount, err = resolvePartyAccount(ctx, s.store, party, cur.CurrencyCode)
	}
	if err != nil {
		return nil, err
	}
	if out.cashAccount, err = s.cashAccount(ctx, req.CashAccountCode, cur.CurrencyCode); err != nil {
		return nil, err
	}
	if out.fees.IsPositive() {
		out.commissionAccount, err = accountOrFlag(ctx, s.store, req.CommissionExpenseAccountCode, domain.FlagCommissionExpense, cur.CurrencyCode)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// PostPayment implements portssvc.PostingTemplateSvc.
//
// Dr party gross, Dr commission expense fees / Cr cash gross+fees
func (s *postingService) PostPayment(ctx context.Context, req dto.PaymentRequest) (*domain.PostedOperation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	st, err := s.resolveSettlement(ctx, req.SettlementRequest)
	if err != nil {
		return nil, err
	}
	total := req.GrossAmount.Add(st.fees)

	lines := []dto.OperationLineRequest{
		{AccountCode: st.partyAccount.Code, Side: domain.Debit, Amount: req.GrossAmount, CurrencyCode: req.CurrencyCode},
	}
	if st.fees.IsPositive() {
		lines = append(lines, dto.OperationLineRequest{AccountCode: st.commissionAccount.Code, Side: domain.Debit, Amount: st.fees, CurrencyCode: req.CurrencyCode})
	}
	lines = append(lines, dto.OperationLineRequest{AccountCode: st.cashAccount.Code, Side: domain.Credit, Amount: total, CurrencyCode: req.CurrencyCode})

	partyID := req.PartyID
	return s.PostOperation(ctx, dto.PostOperationRequest{
		TypeCode:       domain.OpPayment,
		OperationDate:  req.OperationDate,
		PartyID:        &partyID,
		Amount:         req.GrossAmount,
		CurrencyCode:   req.CurrencyCode,
		Notes:          req.Notes,
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		Lines:          lines,
		Extension: domain.PaymentDetail{
			GrossAmount:          req.GrossAmount,
			CommissionAmount:     st.commission,
			CommissionPercentage: req.CommissionPercentage,
			ExpensesAmount:       req.ExpensesAmount,
			TotalAmount:          total,
			PaymentMethod:        req.PaymentMethod,
		},
	})
}

// PostReceipt implements portssvc.PostingTemplateSvc.
//
// Dr cash gross-fees, Dr commission expense fees / Cr party gross
func (s *postingService) PostReceipt(ctx context.Context, req dto.ReceiptRequest) (*domain.PostedOperation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	st, err := s.resolveSettlement(ctx, req.SettlementRequest)
	if err != nil {
		return nil, err
	}
	net := req.GrossAmount.Sub(st.fees)
	if net.IsNegative() {
		return nil, fmt.Errorf("%w: commission and expenses (%s) exceed the gross amount %s", apperrors.ErrValidation, st.fees, req.GrossAmount)
	}

	var lines []dto.OperationLineRequest
	if net.IsPositive() {
		lines = append(lines, dto.OperationLineRequest{AccountCode: st.cashAccount.Code, Side: domain.Debit, Amount: net, CurrencyCode: req.CurrencyCode})
	}
	if st.fees.IsPositive() {
		lines = append(lines, dto.OperationLineRequest{AccountCode: st.commissionAccount.Code, Side: domain.Debit, Amount: st.fees, CurrencyCode: req.CurrencyCode})
	}
	lines = append(lines, dto.OperationLineRequest{AccountCode: st.partyAccount.Code, Side: domain.Credit, Amount: req.GrossAmount, CurrencyCode: req.CurrencyCode})

	partyID := req.PartyID
	return s.PostOperation(ctx, dto.PostOperationRequest{
		TypeCode:       domain.OpReceipt,
		OperationDate:  req.OperationDate,
		PartyID:        &partyID,
		Amount:         req.GrossAmount,
		CurrencyCode:   req.CurrencyCode,
		Notes:          req.Notes,
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		Lines:          lines,
		Extension: domain.ReceiptDetail{
			GrossAmount:          req.GrossAmount,
			CommissionAmount:     st.commission,
			CommissionPercentage: req.CommissionPercentage,
			ExpensesAmount:       req.ExpensesAmount,
			NetAmount:            net,
			PaymentMethod:        req.PaymentMethod,
		},
	})
}

func (s *postingService) cashAccount(ctx context.Context, code, currencyCode string) (*domain.Account, error) {
	acc, err := accountOrFlag(ctx, s.store, code, domain.FlagCash, currencyCode)
	if err != nil {
		return nil, err
	}
	if !acc.IsCashAccount() {
		return nil, apperrors.New(apperrors.ErrCapabilityViolation, "account is not a cash account").WithAccount(acc.Code)
	}
	return acc, nil
}
