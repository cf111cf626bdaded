package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/SscSPs/posting_engine/internal/models"
	"github.com/SscSPs/posting_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

func (q *queries) FindOperationByID(ctx context.Context, operationID int64) (*domain.Operation, error) {
	var m models.Operation
	err := q.db.QueryRow(ctx, `
		SELECT operation_id, operation_date, type_code, party_id, amount, currency_code, exchange_rate,
			notes, user_id, idempotency_key, reversal_of, created_at
		FROM operations WHERE operation_id = $1`, operationID,
	).Scan(&m.OperationID, &m.OperationDate, &m.TypeCode, &m.PartyID, &m.Amount, &m.CurrencyCode, &m.ExchangeRate,
		&m.Notes, &m.UserID, &m.IdempotencyKey, &m.ReversalOf, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operation %d: %w", operationID, err)
	}

	rows, err := q.db.Query(ctx, `
		SELECT je.entry_id, je.operation_id, je.line_no, je.account_id, a.code, je.side, je.amount,
			je.currency_code, je.equivalent_amount, je.equivalent_currency, je.is_fx_result
		FROM journal_entries je
		JOIN accounts a ON a.account_id = je.account_id
		WHERE je.operation_id = $1
		ORDER BY je.line_no`, operationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries of operation %d: %w", operationID, err)
	}
	entries, err := collectRows(rows, func(row pgx.Row) (models.JournalEntry, error) {
		var e models.JournalEntry
		err := row.Scan(&e.EntryID, &e.OperationID, &e.LineNo, &e.AccountID, &e.AccountCode, &e.Side, &e.Amount,
			&e.CurrencyCode, &e.EquivalentAmount, &e.EquivalentCurrency, &e.IsFxResult)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan entries of operation %d: %w", operationID, err)
	}

	var ext *models.OperationExtension
	var row models.OperationExtension
	err = q.db.QueryRow(ctx,
		`SELECT operation_id, kind, payload FROM operation_extensions WHERE operation_id = $1`, operationID,
	).Scan(&row.OperationID, &row.Kind, &row.Payload)
	switch {
	case err == nil:
		ext = &row
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to find extension of operation %d: %w", operationID, err)
	}

	return mapping.ToDomainOperation(m, entries, ext)
}

func (q *queries) FindReversalOf(ctx context.Context, operationID int64) (*int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `SELECT operation_id FROM operations WHERE reversal_of = $1`, operationID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find reversal of operation %d: %w", operationID, err)
	}
	return &id, nil
}

// LockAccounts implements portsrepo.LedgerTx with SELECT ... FOR UPDATE, so
// concurrent postings on the same accounts queue behind this transaction.
func (t *ledgerTx) LockAccounts(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	rows, err := t.db.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	accounts, err := collectRows(rows, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	out := make(map[int64]domain.Account, len(accounts))
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	for _, id := range accountIDs {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, id)
		}
	}
	return out, nil
}

func (t *ledgerTx) BumpAccountVersions(ctx context.Context, expected map[int64]int64) error {
	batch := &pgx.Batch{}
	ids := make([]int64, 0, len(expected))
	for id, version := range expected {
		batch.Queue(`UPDATE accounts SET version = version + 1 WHERE account_id = $1 AND version = $2`, id, version)
		ids = append(ids, id)
	}

	br := t.db.SendBatch(ctx, batch)
	defer br.Close()
	for _, id := range ids {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to bump version of account %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.New(apperrors.ErrConcurrentModification,
				"account %d changed since it was read (expected version %d)", id, expected[id])
		}
	}
	return nil
}

// InsertOperation writes the header, then every entry in one batch, then the extension row.
func (t *ledgerTx) InsertOperation(ctx context.Context, op *domain.Operation) error {
	m := mapping.ToModelOperation(*op)
	err := t.db.QueryRow(ctx, `
		INSERT INTO operations (operation_date, type_code, party_id, amount, currency_code, exchange_rate,
			notes, user_id, idempotency_key, reversal_of)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING operation_id, created_at`,
		m.OperationDate, m.TypeCode, m.PartyID, m.Amount, m.CurrencyCode, m.ExchangeRate,
		m.Notes, m.UserID, m.IdempotencyKey, m.ReversalOf,
	).Scan(&op.OperationID, &op.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return classifyError(err)
		}
		return fmt.Errorf("failed to insert operation: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range op.Entries {
		op.Entries[i].OperationID = op.OperationID
		e := mapping.ToModelJournalEntry(op.Entries[i])
		batch.Queue(`
			INSERT INTO journal_entries (operation_id, line_no, account_id, side, amount, currency_code,
				equivalent_amount, equivalent_currency, is_fx_result)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING entry_id`,
			e.OperationID, e.LineNo, e.AccountID, e.Side, e.Amount, e.CurrencyCode,
			e.EquivalentAmount, e.EquivalentCurrency, e.IsFxResult)
	}
	br := t.db.SendBatch(ctx, batch)
	for i := range op.Entries {
		if err := br.QueryRow().Scan(&op.Entries[i].EntryID); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert entry %d of operation %d: %w", op.Entries[i].LineNo, op.OperationID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert entries of operation %d: %w", op.OperationID, err)
	}

	ext, err := mapping.ToModelExtension(*op)
	if err != nil {
		return err
	}
	if ext == nil {
		return nil
	}
	if _, err := t.db.Exec(ctx,
		`INSERT INTO operation_extensions (operation_id, kind, payload) VALUES ($1, $2, $3)`,
		ext.OperationID, ext.Kind, ext.Payload,
	); err != nil {
		return fmt.Errorf("failed to insert extension of operation %d: %w", op.OperationID, err)
	}
	return nil
}
