package mapping

import (
	"database/sql"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/models"
)

// ToModelCheque converts a domain Cheque to a model Cheque
func ToModelCheque(d domain.Cheque) models.Cheque {
	m := models.Cheque{
		ChequeID:         d.ChequeID,
		OperationID:      d.OperationID,
		PartyID:          d.PartyID,
		Bank:             d.Bank,
		Number:           d.Number,
		CurrencyCode:     d.CurrencyCode,
		NominalAmount:    d.NominalAmount,
		IssueDate:        d.IssueDate,
		DueDate:          d.DueDate,
		InterestRate:     d.InterestRate,
		InterestBase:     d.InterestBase,
		DayCount:         string(d.DayCount),
		DaysToDue:        d.DaysToDue,
		Expenses:         d.Expenses,
		Commissions:      d.Commissions,
		Interest:         d.Interest,
		NetAmount:        d.NetAmount,
		Status:           string(d.Status),
		HoldingAccountID: d.HoldingAccountID,
		ClientAccountID:  d.ClientAccountID,
		CashAccountID:    d.CashAccountID,
		CreatedAt:        d.CreatedAt,
	}
	if d.ExpectedAccreditationDate != nil {
		m.ExpectedAccreditationDate = sql.NullTime{Time: *d.ExpectedAccreditationDate, Valid: true}
	}
	if d.SettlementOperationID != nil {
		m.SettlementOperationID = sql.NullInt64{Int64: *d.SettlementOperationID, Valid: true}
	}
	if d.StatusChangedAt != nil {
		m.StatusChangedAt = sql.NullTime{Time: *d.StatusChangedAt, Valid: true}
	}
	return m
}

// ToDomainCheque converts a model Cheque to a domain Cheque
func ToDomainCheque(m models.Cheque) domain.Cheque {
	d := domain.Cheque{
		ChequeID:         m.ChequeID,
		OperationID:      m.OperationID,
		PartyID:          m.PartyID,
		Bank:             m.Bank,
		Number:           m.Number,
		CurrencyCode:     m.CurrencyCode,
		NominalAmount:    m.NominalAmount,
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		InterestRate:     m.InterestRate,
		InterestBase:     m.InterestBase,
		DayCount:         domain.DayCount(m.DayCount),
		DaysToDue:        m.DaysToDue,
		Expenses:         m.Expenses,
		Commissions:      m.Commissions,
		Interest:         m.Interest,
		NetAmount:        m.NetAmount,
		Status:           domain.ChequeStatus(m.Status),
		HoldingAccountID: m.HoldingAccountID,
		ClientAccountID:  m.ClientAccountID,
		CashAccountID:    m.CashAccountID,
		CreatedAt:        m.CreatedAt,
	}
	if m.ExpectedAccreditationDate.Valid {
		v := m.ExpectedAccreditationDate.Time
		d.ExpectedAccreditationDate = &v
	}
	if m.SettlementOperationID.Valid {
		v := m.SettlementOperationID.Int64
		d.SettlementOperationID = &v
	}
	if m.StatusChangedAt.Valid {
		v := m.StatusChangedAt.Time
		d.StatusChangedAt = &v
	}
	return d
}
