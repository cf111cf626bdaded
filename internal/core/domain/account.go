package domain

import (
	"fmt"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// AccountFlag names a single capability flag, used for lookups by capability.
type AccountFlag string

const (
	FlagCash              AccountFlag = "cash"
	FlagClientAccount     AccountFlag = "client_account"
	FlagFxResult          AccountFlag = "fx_result"
	FlagCommissionIncome  AccountFlag = "commission_income"
	FlagCommissionExpense AccountFlag = "commission_expense"
	FlagInterestIncome    AccountFlag = "interest_income"
)

// AccountFlags are the capability flags that decide which postings an account may receive.
type AccountFlags struct {
	IsCash              bool `json:"isCash" yaml:"is_cash"`
	IsClientAccount     bool `json:"isClientAccount" yaml:"is_client_account"`
	IsFxResult          bool `json:"isFxResult" yaml:"is_fx_result"`
	IsCommissionIncome  bool `json:"isCommissionIncome" yaml:"is_commission_income"`
	IsCommissionExpense bool `json:"isCommissionExpense" yaml:"is_commission_expense"`
	IsInterestIncome    bool `json:"isInterestIncome" yaml:"is_interest_income"`
}

// Has reports whether the given flag is set.
func (f AccountFlags) Has(flag AccountFlag) bool {
	switch flag {
	case FlagCash:
		return f.IsCash
	case FlagClientAccount:
		return f.IsClientAccount
	case FlagFxResult:
		return f.IsFxResult
	case FlagCommissionIncome:
		return f.IsCommissionIncome
	case FlagCommissionExpense:
		return f.IsCommissionExpense
	case FlagInterestIncome:
		return f.IsInterestIncome
	}
	return false
}

// Account represents a node of the chart of accounts.
type Account struct {
	AccountID       int64        `json:"accountID"`
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	AccountType     AccountType  `json:"accountType"`
	CurrencyCode    string       `json:"currencyCode"`
	ParentAccountID *int64       `json:"parentAccountID,omitempty"`
	IsActive        bool         `json:"isActive"`
	Flags           AccountFlags `json:"flags"`
	// Version is bumped by every posting that touches the account.
	Version int64 `json:"version"`
	AuditFields
}

func (a *Account) IsCashAccount() bool              { return a.Flags.IsCash }
func (a *Account) IsClientAccount() bool            { return a.Flags.IsClientAccount }
func (a *Account) IsFxResultAccount() bool          { return a.Flags.IsFxResult }
func (a *Account) IsCommissionIncomeAccount() bool  { return a.Flags.IsCommissionIncome }
func (a *Account) IsCommissionExpenseAccount() bool { return a.Flags.IsCommissionExpense }
func (a *Account) IsInterestIncomeAccount() bool    { return a.Flags.IsInterestIncome }

// IsCommissionAccount reports whether either commission flag is set.
func (a *Account) IsCommissionAccount() bool {
	return a.Flags.IsCommissionIncome || a.Flags.IsCommissionExpense
}

// IsDebitNormal reports whether the account's natural balance is a debit.
func (a *Account) IsDebitNormal() bool {
	return a.AccountType == Asset || a.AccountType == Expense
}

// ValidateCapabilities checks that the capability flags are compatible with the account type.
func (a *Account) ValidateCapabilities() error {
	if !a.AccountType.Valid() {
		return fmt.Errorf("account %s: unknown account type %q", a.Code, a.AccountType)
	}
	check := func(set bool, flag AccountFlag, allowed ...AccountType) error {
		if !set {
			return nil
		}
		for _, t := range allowed {
			if a.AccountType == t {
				return nil
			}
		}
		return fmt.Errorf("account %s: flag %s is not allowed on %s accounts", a.Code, flag, a.AccountType)
	}
	if err := check(a.Flags.IsFxResult, FlagFxResult, Income, Expense); err != nil {
		return err
	}
	if err := check(a.Flags.IsCash, FlagCash, Asset); err != nil {
		return err
	}
	if err := check(a.Flags.IsClientAccount, FlagClientAccount, Asset, Liability); err != nil {
		return err
	}
	if err := check(a.Flags.IsCommissionIncome, FlagCommissionIncome, Income); err != nil {
		return err
	}
	if err := check(a.Flags.IsCommissionExpense, FlagCommissionExpense, Expense); err != nil {
		return err
	}
	return check(a.Flags.IsInterestIncome, FlagInterestIncome, Income)
}
