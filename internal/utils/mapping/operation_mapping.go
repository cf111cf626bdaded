package mapping

import (
	"database/sql"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelOperation converts a domain Operation header to a model Operation
func ToModelOperation(d domain.Operation) models.Operation {
	m := models.Operation{
		OperationID:   d.OperationID,
		OperationDate: d.OperationDate,
		TypeCode:      d.TypeCode,
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Notes:         d.Notes,
		UserID:        d.UserID,
		CreatedAt:     d.CreatedAt,
	}
	if d.PartyID != nil {
		m.PartyID = sql.NullInt64{Int64: *d.PartyID, Valid: true}
	}
	if d.ExchangeRate != nil {
		m.ExchangeRate = decimal.NullDecimal{Decimal: *d.ExchangeRate, Valid: true}
	}
	if d.IdempotencyKey != nil {
		m.IdempotencyKey = sql.NullString{String: *d.IdempotencyKey, Valid: true}
	}
	if d.ReversalOf != nil {
		m.ReversalOf = sql.NullInt64{Int64: *d.ReversalOf, Valid: true}
	}
	return m
}

// ToDomainOperation converts a model Operation, its entries and its extension
// row (nil when the operation has none) to a domain Operation.
func ToDomainOperation(m models.Operation, entries []models.JournalEntry, ext *models.OperationExtension) (*domain.Operation, error) {
	d := &domain.Operation{
		OperationID:   m.OperationID,
		OperationDate: m.OperationDate,
		TypeCode:      m.TypeCode,
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Notes:         m.Notes,
		UserID:        m.UserID,
		Entries:       ToDomainJournalEntrySlice(entries),
		CreatedAt:     m.CreatedAt,
	}
	if m.PartyID.Valid {
		v := m.PartyID.Int64
		d.PartyID = &v
	}
	if m.ExchangeRate.Valid {
		v := m.ExchangeRate.Decimal
		d.ExchangeRate = &v
	}
	if m.IdempotencyKey.Valid {
		v := m.IdempotencyKey.String
		d.IdempotencyKey = &v
	}
	if m.ReversalOf.Valid {
		v := m.ReversalOf.Int64
		d.ReversalOf = &v
	}
	if ext != nil {
		extension, err := domain.UnmarshalExtension(domain.ExtensionKind(ext.Kind), ext.Payload)
		if err != nil {
			return nil, err
		}
		d.Extension = extension
	}
	return d, nil
}

// ToModelExtension converts an operation's extension to its row, nil when it carries none.
func ToModelExtension(d domain.Operation) (*models.OperationExtension, error) {
	kind, payload, err := domain.MarshalExtension(d.Extension)
	if err != nil {
		return nil, err
	}
	if kind == domain.ExtensionNone {
		return nil, nil
	}
	return &models.OperationExtension{OperationID: d.OperationID, Kind: string(kind), Payload: payload}, nil
}

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:            d.EntryID,
		OperationID:        d.OperationID,
		LineNo:             d.LineNo,
		AccountID:          d.AccountID,
		AccountCode:        d.AccountCode,
		Side:               string(d.Side),
		Amount:             d.Amount,
		CurrencyCode:       d.CurrencyCode,
		EquivalentAmount:   d.EquivalentAmount,
		EquivalentCurrency: d.EquivalentCurrency,
		IsFxResult:         d.IsFxResult,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:            m.EntryID,
		OperationID:        m.OperationID,
		LineNo:             m.LineNo,
		AccountID:          m.AccountID,
		AccountCode:        m.AccountCode,
		Side:               domain.Side(m.Side),
		Amount:             m.Amount,
		CurrencyCode:       m.CurrencyCode,
		EquivalentAmount:   m.EquivalentAmount,
		EquivalentCurrency: m.EquivalentCurrency,
		IsFxResult:         m.IsFxResult,
	}
}

// ToDomainJournalEntrySlice converts a slice of model JournalEntries to domain JournalEntries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
