package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChequeStatus is the lifecycle state of a cheque.
type ChequeStatus string

const (
	ChequePending    ChequeStatus = "pending"
	ChequeAccredited ChequeStatus = "accredited"
	ChequeExpired    ChequeStatus = "expired"
	ChequeRejected   ChequeStatus = "rejected"
	ChequeCancelled  ChequeStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s ChequeStatus) Valid() bool {
	switch s {
	case ChequePending, ChequeAccredited, ChequeExpired, ChequeRejected, ChequeCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s ChequeStatus) IsTerminal() bool {
	return s.Valid() && s != ChequePending
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to ChequeStatus) bool {
	return from == ChequePending && to.IsTerminal()
}

// SettlementType returns the operation type posted when a cheque enters status s.
func (s ChequeStatus) SettlementType() string {
	switch s {
	case ChequeAccredited:
		return OpChequeAccredit
	case ChequeRejected:
		return OpChequeReject
	case ChequeExpired:
		return OpChequeExpire
	case ChequeCancelled:
		return OpChequeCancel
	}
	return ""
}

// DayCount is the convention used to count days between two dates.
type DayCount string

const (
	DayCountActual365 DayCount = "ACT/365"
	DayCount30360     DayCount = "30/360"
)

// Valid reports whether d is a supported convention.
func (d DayCount) Valid() bool {
	return d == DayCountActual365 || d == DayCount30360
}

// DefaultInterestBase is the day base used when a cheque does not specify one.
const DefaultInterestBase = 365

// Cheque is a settlement instrument created by a CHEQUE_BUY operation. Its
// status evolves independently of the operation; NetAmount never changes.
type Cheque struct {
	ChequeID                  int64           `json:"chequeID"`
	OperationID               int64           `json:"operationID"`
	PartyID                   int64           `json:"partyID"`
	Bank                      string          `json:"bank"`
	Number                    string          `json:"number"`
	CurrencyCode              string          `json:"currencyCode"`
	NominalAmount             decimal.Decimal `json:"nominalAmount"`
	IssueDate                 time.Time       `json:"issueDate"`
	DueDate                   time.Time       `json:"dueDate"`
	ExpectedAccreditationDate *time.Time      `json:"expectedAccreditationDate,omitempty"`
	InterestRate              decimal.Decimal `json:"interestRate"`
	InterestBase              int             `json:"interestBase"`
	DayCount                  DayCount        `json:"dayCount"`
	DaysToDue                 int             `json:"daysToDue"`
	Expenses                  decimal.Decimal `json:"expenses"`
	Commissions               decimal.Decimal `json:"commissions"`
	Interest                  decimal.Decimal `json:"interest"`
	NetAmount                 decimal.Decimal `json:"netAmount"`
	Status                    ChequeStatus    `json:"status"`
	HoldingAccountID          int64           `json:"holdingAccountID"`
	ClientAccountID           int64           `json:"clientAccountID"`
	CashAccountID             int64           `json:"cashAccountID"`
	SettlementOperationID     *int64          `json:"settlementOperationID,omitempty"`
	StatusChangedAt           *time.Time      `json:"statusChangedAt,omitempty"`
	CreatedAt                 time.Time       `json:"createdAt"`
}
