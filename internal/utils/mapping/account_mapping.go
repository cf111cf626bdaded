package mapping

import (
	"database/sql"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:           d.AccountID,
		Code:                d.Code,
		Name:                d.Name,
		AccountType:         string(d.AccountType),
		CurrencyCode:        d.CurrencyCode,
		IsActive:            d.IsActive,
		IsCash:              d.Flags.IsCash,
		IsClientAccount:     d.Flags.IsClientAccount,
		IsFxResult:          d.Flags.IsFxResult,
		IsCommissionIncome:  d.Flags.IsCommissionIncome,
		IsCommissionExpense: d.Flags.IsCommissionExpense,
		IsInterestIncome:    d.Flags.IsInterestIncome,
		Version:             d.Version,
		CreatedAt:           d.CreatedAt,
		CreatedBy:           d.CreatedBy,
	}
	if d.ParentAccountID != nil {
		m.ParentAccountID = sql.NullInt64{Int64: *d.ParentAccountID, Valid: true}
	}
	return m
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	d := domain.Account{
		AccountID:    m.AccountID,
		Code:         m.Code,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		CurrencyCode: m.CurrencyCode,
		IsActive:     m.IsActive,
		Flags: domain.AccountFlags{
			IsCash:              m.IsCash,
			IsClientAccount:     m.IsClientAccount,
			IsFxResult:          m.IsFxResult,
			IsCommissionIncome:  m.IsCommissionIncome,
			IsCommissionExpense: m.IsCommissionExpense,
			IsInterestIncome:    m.IsInterestIncome,
		},
		Version: m.Version,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		},
	}
	if m.ParentAccountID.Valid {
		parent := m.ParentAccountID.Int64
		d.ParentAccountID = &parent
	}
	return d
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
