package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/models"
	"github.com/SscSPs/posting_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const chequeColumns = `
	cheque_id, operation_id, party_id, bank, number, currency_code, nominal_amount, issue_date, due_date,
	expected_accreditation_date, interest_rate, interest_base, day_count, days_to_due, expenses, commissions,
	interest, net_amount, status, holding_account_id, client_account_id, cash_account_id,
	settlement_operation_id, status_changed_at, created_at`

func scanCheque(row pgx.Row) (domain.Cheque, error) {
	var m models.Cheque
	err := row.Scan(
		&m.ChequeID, &m.OperationID, &m.PartyID, &m.Bank, &m.Number, &m.CurrencyCode, &m.NominalAmount, &m.IssueDate, &m.DueDate,
		&m.ExpectedAccreditationDate, &m.InterestRate, &m.InterestBase, &m.DayCount, &m.DaysToDue, &m.Expenses, &m.Commissions,
		&m.Interest, &m.NetAmount, &m.Status, &m.HoldingAccountID, &m.ClientAccountID, &m.CashAccountID,
		&m.SettlementOperationID, &m.StatusChangedAt, &m.CreatedAt,
	)
	if err != nil {
		return domain.Cheque{}, err
	}
	return mapping.ToDomainCheque(m), nil
}

func (q *queries) findCheque(ctx context.Context, where string, arg int64) (*domain.Cheque, error) {
	ch, err := scanCheque(q.db.QueryRow(ctx, `SELECT `+chequeColumns+` FROM cheques WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cheque: %w", err)
	}
	return &ch, nil
}

func (q *queries) FindChequeByID(ctx context.Context, chequeID int64) (*domain.Cheque, error) {
	return q.findCheque(ctx, `cheque_id = $1`, chequeID)
}

func (q *queries) FindChequeByOperationID(ctx context.Context, operationID int64) (*domain.Cheque, error) {
	return q.findCheque(ctx, `operation_id = $1`, operationID)
}

func (q *queries) ListCheques(ctx context.Context, status *domain.ChequeStatus) ([]domain.Cheque, error) {
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}
	rows, err := q.db.Query(ctx,
		`SELECT `+chequeColumns+` FROM cheques WHERE $1::text IS NULL OR status = $1 ORDER BY cheque_id`, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cheques: %w", err)
	}
	return collectRows(rows, scanCheque)
}

func (t *ledgerTx) InsertCheque(ctx context.Context, cheque *domain.Cheque) error {
	m := mapping.ToModelCheque(*cheque)
	err := t.db.QueryRow(ctx, `
		INSERT INTO cheques (operation_id, party_id, bank, number, currency_code, nominal_amount, issue_date, due_date,
			expected_accreditation_date, interest_rate, interest_base, day_count, days_to_due, expenses, commissions,
			interest, net_amount, status, holding_account_id, client_account_id, cash_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING cheque_id, created_at`,
		m.OperationID, m.PartyID, m.Bank, m.Number, m.CurrencyCode, m.NominalAmount, m.IssueDate, m.DueDate,
		m.ExpectedAccreditationDate, m.InterestRate, m.InterestBase, m.DayCount, m.DaysToDue, m.Expenses, m.Commissions,
		m.Interest, m.NetAmount, m.Status, m.HoldingAccountID, m.ClientAccountID, m.CashAccountID,
	).Scan(&cheque.ChequeID, &cheque.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cheque %s/%s: %w", cheque.Bank, cheque.Number, err)
	}
	return nil
}

// CompareAndSwapChequeStatus updates the status only if it still equals from.
func (t *ledgerTx) CompareAndSwapChequeStatus(ctx context.Context, chequeID int64, from, to domain.ChequeStatus, settlementOperationID int64, at time.Time) error {
	tag, err := t.db.Exec(ctx, `
		UPDATE cheques SET status = $3, settlement_operation_id = $4, status_changed_at = $5
		WHERE cheque_id = $1 AND status = $2`,
		chequeID, string(from), string(to), settlementOperationID, at)
	if err != nil {
		return fmt.Errorf("failed to update status of cheque %d: %w", chequeID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := t.FindChequeByID(ctx, chequeID)
	if err != nil {
		return err
	}
	return apperrors.New(apperrors.ErrConcurrentModification, "cheque %d is %s, expected %s", chequeID, current.Status, from)
}
