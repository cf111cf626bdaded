package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of the ledger store.
type Store struct {
	BaseRepository
	queries
}

// NewStore creates a store on the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		BaseRepository: BaseRepository{Pool: pool},
		queries:        queries{db: pool},
	}
}

var (
	_ portsrepo.Store          = (*Store)(nil)
	_ portsrepo.RegistryWriter = (*Store)(nil)
	_ portsrepo.LedgerTx       = (*ledgerTx)(nil)
)

// WithinTransaction implements portsrepo.TransactionManager. Serialization
// failures and deadlocks surface as apperrors.ErrConcurrentModification.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.Rollback(ctx, tx) // no-op once committed

	if err := fn(ctx, &ledgerTx{queries: queries{db: tx}}); err != nil {
		return classifyError(err)
	}
	return s.Commit(ctx, tx)
}

// ledgerTx runs every read and write on one pgx transaction.
type ledgerTx struct {
	queries
}

// queries holds the statements shared by the pool and transactions.
type queries struct {
	db dbtx
}

func collectRows[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
