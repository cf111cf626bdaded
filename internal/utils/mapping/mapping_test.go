package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountMapping_FlagsAndParent(t *testing.T) {
	parent := int64(7)
	acc := domain.Account{
		AccountID:    12,
		Code:         "1100",
		AccountType:  domain.Asset,
		CurrencyCode: "ARS",
		IsActive:     true,
		Flags:        domain.AccountFlags{IsClientAccount: true},
		Version:      3,
	}

	m := ToModelAccount(acc)
	assert.False(t, m.ParentAccountID.Valid)
	assert.True(t, m.IsClientAccount)
	assert.Equal(t, acc, ToDomainAccount(m))

	acc.ParentAccountID = &parent
	back := ToDomainAccount(ToModelAccount(acc))
	require.NotNil(t, back.ParentAccountID)
	assert.Equal(t, parent, *back.ParentAccountID)
}

func TestOperationMapping_NullableColumnsAndExtension(t *testing.T) {
	rate := decimal.RequireFromString("1000")
	key := "op-1"
	op := domain.Operation{
		OperationID:    5,
		OperationDate:  time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		TypeCode:       domain.OpFxBuy,
		Amount:         decimal.NewFromInt(100),
		CurrencyCode:   "USD",
		ExchangeRate:   &rate,
		IdempotencyKey: &key,
		UserID:         1,
		Extension: domain.FxDetail{
			Side:           domain.FxBuy,
			QuotedCurrency: "USD",
			QuotedAmount:   decimal.NewFromInt(100),
			BaseCurrency:   "ARS",
			BaseAmount:     decimal.NewFromInt(100000),
			Rate:           rate,
		},
	}

	m := ToModelOperation(op)
	assert.False(t, m.PartyID.Valid)
	assert.False(t, m.ReversalOf.Valid)
	assert.True(t, m.ExchangeRate.Valid)

	ext, err := ToModelExtension(op)
	require.NoError(t, err)
	require.NotNil(t, ext)
	assert.Equal(t, "fx", ext.Kind)

	back, err := ToDomainOperation(m, nil, ext)
	require.NoError(t, err)
	assert.Nil(t, back.PartyID)
	require.NotNil(t, back.IdempotencyKey)
	assert.Equal(t, key, *back.IdempotencyKey)
	assert.True(t, back.ExchangeRate.Equal(rate))
	detail, ok := back.Extension.(domain.FxDetail)
	require.True(t, ok)
	assert.True(t, detail.BaseAmount.Equal(decimal.NewFromInt(100000)))

	op.Extension = nil
	none, err := ToModelExtension(op)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestChequeMapping_Optionals(t *testing.T) {
	settled := int64(9)
	at := time.Date(2024, time.February, 9, 15, 0, 0, 0, time.UTC)
	ch := domain.Cheque{
		ChequeID:              1,
		Status:                domain.ChequeAccredited,
		DayCount:              domain.DayCount30360,
		NetAmount:             decimal.RequireFromString("975.34"),
		SettlementOperationID: &settled,
		StatusChangedAt:       &at,
	}

	m := ToModelCheque(ch)
	assert.False(t, m.ExpectedAccreditationDate.Valid)
	assert.Equal(t, "30/360", m.DayCount)

	back := ToDomainCheque(m)
	assert.Nil(t, back.ExpectedAccreditationDate)
	require.NotNil(t, back.SettlementOperationID)
	assert.Equal(t, settled, *back.SettlementOperationID)
	assert.Equal(t, domain.ChequeAccredited, back.Status)
}
