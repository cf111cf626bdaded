package models

import (
	"database/sql"
	"time"
)

// Account is a row of the accounts table. Capability flags are stored as
// one boolean column each.
type Account struct {
	AccountID           int64         `db:"account_id"`
	Code                string        `db:"code"`
	Name                string        `db:"name"`
	AccountType         string        `db:"account_type"`
	CurrencyCode        string        `db:"currency_code"`
	ParentAccountID     sql.NullInt64 `db:"parent_account_id"`
	IsActive            bool          `db:"is_active"`
	IsCash              bool          `db:"is_cash"`
	IsClientAccount     bool          `db:"is_client_account"`
	IsFxResult          bool          `db:"is_fx_result"`
	IsCommissionIncome  bool          `db:"is_commission_income"`
	IsCommissionExpense bool          `db:"is_commission_expense"`
	IsInterestIncome    bool          `db:"is_interest_income"`
	Version             int64         `db:"version"`
	CreatedAt           time.Time     `db:"created_at"`
	CreatedBy           int64         `db:"created_by"`
}
