package dto

import (
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    string          `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
	DisplayBalance decimal.Decimal `json:"displayBalance"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf     string                     `json:"asOf"`
	Rows     []TrialBalanceRowResponse  `json:"rows"`
	Totals   map[string]decimal.Decimal `json:"totals"`
	Balanced bool                       `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf:     tb.AsOf.Format("2006-01-02"),
		Rows:     make([]TrialBalanceRowResponse, 0, len(tb.Rows)),
		Totals:   tb.Totals,
		Balanced: tb.Balanced,
	}
	for _, r := range tb.Rows {
		display, err := accounting.DisplayBalance(r.Balance, r.AccountType)
		if err != nil {
			display = r.Balance
		}
		resp.Rows = append(resp.Rows, TrialBalanceRowResponse{
			AccountCode:    r.AccountCode,
			AccountName:    r.AccountName,
			AccountType:    string(r.AccountType),
			CurrencyCode:   r.CurrencyCode,
			Debit:          r.Debit,
			Credit:         r.Credit,
			Balance:        r.Balance,
			DisplayBalance: display,
		})
	}
	return resp
}

// ConvertRequest asks the FX service for a conversion.
type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from" binding:"required,uppercase,len=3"`
	To     string          `json:"to" binding:"required,uppercase,len=3"`
	Rate   decimal.Decimal `json:"rate"`
}

// ConvertResponse is the result of a conversion.
type ConvertResponse struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Rate   decimal.Decimal `json:"rate"`
	Result decimal.Decimal `json:"result"`
}
