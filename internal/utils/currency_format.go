package utils

import (
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatWithCurrencyPrecision formats an amount with the precision of its currency,
// padding with zeros. A nil currency falls back to domain.DefaultMinorUnits.
// Example: 12.3 with USD (precision 2) returns "12.30"
// Example: 12.5 with JPY (precision 0) returns "12"
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency *domain.Currency) string {
	if currency == nil {
		return FormatWithPrecision(amount, domain.DefaultMinorUnits)
	}
	return FormatWithPrecision(amount, currency.Precision())
}

// FormatWithPrecision formats an amount with the given number of decimal places.
func FormatWithPrecision(amount decimal.Decimal, precision int32) string {
	return amount.StringFixedBank(precision)
}
