package utils

import (
	"testing"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency *domain.Currency
		want     string
	}{
		{name: "pads to two places", amount: "12.3", currency: &domain.Currency{CurrencyCode: "USD", MinorUnits: 2}, want: "12.30"},
		{name: "zero minor units uses default", amount: "1", currency: &domain.Currency{CurrencyCode: "ARS"}, want: "1.00"},
		{name: "banker's rounding", amount: "0.125", currency: &domain.Currency{CurrencyCode: "USD", MinorUnits: 2}, want: "0.12"},
		{name: "three places", amount: "-1.5", currency: &domain.Currency{CurrencyCode: "KWD", MinorUnits: 3}, want: "-1.500"},
		{name: "nil currency", amount: "7", currency: nil, want: "7.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatWithCurrencyPrecision(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}
