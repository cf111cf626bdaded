package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Cheque is a row of the cheques table.
type Cheque struct {
	ChequeID                  int64           `db:"cheque_id"`
	OperationID               int64           `db:"operation_id"`
	PartyID                   int64           `db:"party_id"`
	Bank                      string          `db:"bank"`
	Number                    string          `db:"number"`
	CurrencyCode              string          `db:"currency_code"`
	NominalAmount             decimal.Decimal `db:"nominal_amount"`
	IssueDate                 time.Time       `db:"issue_date"`
	DueDate                   time.Time       `db:"due_date"`
	ExpectedAccreditationDate sql.NullTime    `db:"expected_accreditation_date"`
	InterestRate              decimal.Decimal `db:"interest_rate"`
	InterestBase              int             `db:"interest_base"`
	DayCount                  string          `db:"day_count"`
	DaysToDue                 int             `db:"days_to_due"`
	Expenses                  decimal.Decimal `db:"expenses"`
	Commissions               decimal.Decimal `db:"commissions"`
	Interest                  decimal.Decimal `db:"interest"`
	NetAmount                 decimal.Decimal `db:"net_amount"`
	Status                    string          `db:"status"`
	HoldingAccountID          int64           `db:"holding_account_id"`
	ClientAccountID           int64           `db:"client_account_id"`
	CashAccountID             int64           `db:"cash_account_id"`
	SettlementOperationID     sql.NullInt64   `db:"settlement_operation_id"`
	StatusChangedAt           sql.NullTime    `db:"status_changed_at"`
	CreatedAt                 time.Time       `db:"created_at"`
}
