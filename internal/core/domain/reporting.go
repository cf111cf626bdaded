package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the balance of one account as of a date.
type AccountBalance struct {
	AccountID    int64           `json:"accountID"`
	AccountCode  string          `json:"accountCode"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	// Balance is debit minus credit.
	Balance decimal.Decimal `json:"balance"`
	// DisplayBalance is Balance sign-flipped for credit-normal accounts.
	DisplayBalance decimal.Decimal `json:"displayBalance"`
	AsOf           time.Time       `json:"asOf"`
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID    int64           `json:"accountID"`
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	CurrencyCode string          `json:"currencyCode"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
}

// TrialBalance is the set of all account balances at a point in time.
// Totals holds the sum of signed line equivalents per equivalent currency;
// every total is zero on a consistent ledger.
type TrialBalance struct {
	AsOf     time.Time                  `json:"asOf"`
	Rows     []TrialBalanceRow          `json:"rows"`
	Totals   map[string]decimal.Decimal `json:"totals"`
	Balanced bool                       `json:"balanced"`
}

// BalanceOf returns the row balance for an account code, zero if the account had no activity.
func (tb *TrialBalance) BalanceOf(code string) decimal.Decimal {
	for _, r := range tb.Rows {
		if r.AccountCode == code {
			return r.Balance
		}
	}
	return decimal.Zero
}
