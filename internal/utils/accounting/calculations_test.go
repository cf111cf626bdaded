package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDiscountInterest(t *testing.T) {
	tests := []struct {
		name    string
		nominal string
		rate    string
		days    int
		base    int
		want    string
	}{
		{"thirty days at thirty percent", "1000", "0.30", 30, 365, "24.66"},
		{"original example", "10000", "0.1", 30, 365, "82.19"},
		{"zero days", "1000", "0.30", 0, 365, "0"},
		{"360 base", "1000", "0.36", 30, 360, "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.DiscountInterest(d(tt.nominal), d(tt.rate), tt.days, tt.base, 2)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestRound_HalfEven(t *testing.T) {
	assert.True(t, accounting.Round(d("2.345"), 2).Equal(d("2.34")))
	assert.True(t, accounting.Round(d("2.355"), 2).Equal(d("2.36")))
	assert.True(t, accounting.Round(d("-2.345"), 2).Equal(d("-2.34")))
}

func TestHasPrecision(t *testing.T) {
	assert.True(t, accounting.HasPrecision(d("10.25"), 2))
	assert.False(t, accounting.HasPrecision(d("10.255"), 2))
	assert.True(t, accounting.HasPrecision(d("10"), 0))
}

func TestDaysBetween(t *testing.T) {
	days, err := accounting.DaysBetween(date(2024, 1, 31), date(2024, 3, 1), domain.DayCountActual365)
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	days, err = accounting.DaysBetween(date(2024, 1, 31), date(2024, 3, 1), domain.DayCount30360)
	require.NoError(t, err)
	assert.Equal(t, 31, days)

	days, err = accounting.DaysBetween(date(2024, 3, 1), date(2024, 2, 1), domain.DayCountActual365)
	require.NoError(t, err)
	assert.Equal(t, -29, days)

	_, err = accounting.DaysBetween(date(2024, 3, 1), date(2024, 2, 1), "ACT/ACT")
	assert.Error(t, err)
}

func TestDisplayBalance(t *testing.T) {
	got, err := accounting.DisplayBalance(d("-150"), domain.Income)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("150")))

	got, err = accounting.DisplayBalance(d("150"), domain.Asset)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("150")))

	_, err = accounting.DisplayBalance(d("1"), "OTHER")
	assert.Error(t, err)
}

func TestResidualsByCurrency(t *testing.T) {
	entries := []domain.JournalEntry{
		{Side: domain.Debit, Amount: d("100"), CurrencyCode: "USD"},
		{Side: domain.Credit, Amount: d("100000"), CurrencyCode: "ARS"},
		{Side: domain.Credit, Amount: d("40"), CurrencyCode: "USD"},
	}
	residuals, order := accounting.ResidualsByCurrency(entries)
	assert.Equal(t, []string{"USD", "ARS"}, order)
	assert.True(t, residuals["USD"].Equal(d("60")))
	assert.True(t, residuals["ARS"].Equal(d("-100000")))
}

func TestPercentageOf(t *testing.T) {
	assert.True(t, accounting.PercentageOf(d("1234.50"), d("1.5"), 2).Equal(d("18.52")))
}
