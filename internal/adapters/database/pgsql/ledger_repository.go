package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (q *queries) AccountTotals(ctx context.Context, accountID int64, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var debit, credit decimal.Decimal
	err := q.db.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN je.side = 'DEBIT' THEN je.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN je.side = 'CREDIT' THEN je.amount ELSE 0 END), 0)
		FROM journal_entries je
		JOIN operations o ON o.operation_id = je.operation_id
		WHERE je.account_id = $1 AND o.operation_date <= $2`,
		accountID, asOf,
	).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to total account %d: %w", accountID, err)
	}
	return debit, credit, nil
}

func (q *queries) TrialBalanceRows(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := q.db.Query(ctx, `
		SELECT a.account_id, a.code, a.name, a.account_type, a.currency_code,
			SUM(CASE WHEN je.side = 'DEBIT' THEN je.amount ELSE 0 END) AS debit,
			SUM(CASE WHEN je.side = 'CREDIT' THEN je.amount ELSE 0 END) AS credit
		FROM journal_entries je
		JOIN operations o ON o.operation_id = je.operation_id
		JOIN accounts a ON a.account_id = je.account_id
		WHERE o.operation_date <= $1
		GROUP BY a.account_id
		ORDER BY a.code`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	return collectRows(rows, func(row pgx.Row) (domain.TrialBalanceRow, error) {
		var r domain.TrialBalanceRow
		err := row.Scan(&r.AccountID, &r.AccountCode, &r.AccountName, &r.AccountType, &r.CurrencyCode, &r.Debit, &r.Credit)
		r.Balance = r.Debit.Sub(r.Credit)
		return r, err
	})
}

func (q *queries) EquivalentTotals(ctx context.Context, asOf time.Time) (map[string]decimal.Decimal, error) {
	rows, err := q.db.Query(ctx, `
		SELECT je.equivalent_currency,
			SUM(CASE WHEN je.side = 'DEBIT' THEN je.equivalent_amount ELSE -je.equivalent_amount END)
		FROM journal_entries je
		JOIN operations o ON o.operation_id = je.operation_id
		WHERE o.operation_date <= $1
		GROUP BY je.equivalent_currency`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to total equivalents: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var currency string
		var total decimal.Decimal
		if err := rows.Scan(&currency, &total); err != nil {
			return nil, fmt.Errorf("failed to scan equivalent total: %w", err)
		}
		totals[currency] = total
	}
	return totals, rows.Err()
}
