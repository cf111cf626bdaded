package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DisplayBalance flips a debit-minus-credit balance for credit-normal accounts.
//
// DEBIT-normal (ASSET/EXPENSE)            -> shown as is
// CREDIT-normal (LIABILITY/EQUITY/INCOME) -> shown negated
func DisplayBalance(balance decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return balance, nil
	case domain.Liability, domain.Equity, domain.Income:
		return balance.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Round rounds half-to-even to the given number of decimal places.
func Round(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.RoundBank(places)
}

// HasPrecision reports whether amount carries no more than places decimals.
func HasPrecision(amount decimal.Decimal, places int32) bool {
	return amount.Equal(amount.Truncate(places))
}

// MinorUnit returns the smallest representable amount for the given precision, e.g. 0.01 for 2.
func MinorUnit(places int32) decimal.Decimal {
	return decimal.New(1, -places)
}

// ResidualsByCurrency sums debit minus credit per line currency. The returned
// slice lists currencies in order of first appearance.
func ResidualsByCurrency(entries []domain.JournalEntry) (map[string]decimal.Decimal, []string) {
	residuals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range entries {
		if _, ok := residuals[e.CurrencyCode]; !ok {
			order = append(order, e.CurrencyCode)
		}
		residuals[e.CurrencyCode] = residuals[e.CurrencyCode].Add(e.Signed())
	}
	return residuals, order
}

// EquivalentTotals sums signed equivalents per equivalent currency.
func EquivalentTotals(entries []domain.JournalEntry) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		totals[e.EquivalentCurrency] = totals[e.EquivalentCurrency].Add(e.SignedEquivalent())
	}
	return totals
}

// AllZero reports whether every total is zero.
func AllZero(totals map[string]decimal.Decimal) bool {
	for _, v := range totals {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// SortedCurrencies returns the keys of totals in lexical order.
func SortedCurrencies(totals map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DaysBetween counts the days from start to end under the given convention.
// The result is negative when end precedes start.
func DaysBetween(start, end time.Time, convention domain.DayCount) (int, error) {
	y1, m1, d1 := start.Date()
	y2, m2, d2 := end.Date()
	switch convention {
	case domain.DayCountActual365, "":
		from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
		to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
		return int(to.Sub(from).Hours() / 24), nil
	case domain.DayCount30360:
		// US bond basis
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return 360*(y2-y1) + 30*(int(m2)-int(m1)) + (d2 - d1), nil
	default:
		return 0, fmt.Errorf("unsupported day count convention %q", convention)
	}
}

// DiscountInterest computes nominal * rate * days / base, rounded half-to-even.
func DiscountInterest(nominal, annualRate decimal.Decimal, days, base int, places int32) decimal.Decimal {
	if days <= 0 || base <= 0 || annualRate.IsZero() {
		return decimal.Zero
	}
	interest := nominal.Mul(annualRate).Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(base)))
	return Round(interest, places)
}

// PercentageOf computes amount * pct / 100, rounded half-to-even.
func PercentageOf(amount, pct decimal.Decimal, places int32) decimal.Decimal {
	return Round(amount.Mul(pct).Div(hundred), places)
}
