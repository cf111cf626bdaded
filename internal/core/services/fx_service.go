package services

import (
	"context"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// fxService converts between the base currency and quoted currencies.
type fxService struct {
	currencies   portsrepo.CurrencyReader
	baseCurrency string
}

// NewFxService creates a new FX conversion service for the given base currency.
func NewFxService(currencies portsrepo.CurrencyReader, baseCurrency string) portssvc.FxSvcFacade {
	return &fxService{currencies: currencies, baseCurrency: baseCurrency}
}

var _ portssvc.FxSvcFacade = (*fxService)(nil)

func (s *fxService) BaseCurrency() string { return s.baseCurrency }

// Convert implements portssvc.FxSvcFacade.
//
// quoted -> base: amount * rate
// base -> quoted: amount / rate
func (s *fxService) Convert(ctx context.Context, amount decimal.Decimal, from, to string, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, apperrors.New(apperrors.ErrInvalidRate, "rate must be greater than zero, got %s", rate.String()).WithCurrency(from)
	}
	if _, err := resolveCurrency(ctx, s.currencies, from); err != nil {
		return decimal.Zero, err
	}
	target, err := resolveCurrency(ctx, s.currencies, to)
	if err != nil {
		return decimal.Zero, err
	}
	if from == to {
		return amount, nil
	}

	var converted decimal.Decimal
	switch {
	case to == s.baseCurrency:
		converted = amount.Mul(rate)
	case from == s.baseCurrency:
		converted = amount.Div(rate)
	default:
		return decimal.Zero, apperrors.New(apperrors.ErrInvalidRate, "no rate between %s and %s, one side must be the base currency %s", from, to, s.baseCurrency).WithCurrency(from)
	}
	return accounting.Round(converted, target.Precision()), nil
}
