package memory

import (
	"context"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
)

type versionBump struct {
	base  int64
	count int64
}

type statusCAS struct {
	from, to              domain.ChequeStatus
	settlementOperationID int64
	at                    time.Time
}

// memTx buffers the writes of one transaction on top of the committed store.
type memTx struct {
	*Store

	bumps      map[int64]versionBump
	operations map[int64]domain.Operation
	opOrder    []int64
	cheques    map[int64]domain.Cheque
	chequeCAS  map[int64]statusCAS
}

var _ portsrepo.LedgerTx = (*memTx)(nil)

func newTx(s *Store) *memTx {
	return &memTx{
		Store:      s,
		bumps:      make(map[int64]versionBump),
		operations: make(map[int64]domain.Operation),
		cheques:    make(map[int64]domain.Cheque),
		chequeCAS:  make(map[int64]statusCAS),
	}
}

// overlay applies buffered version bumps to a committed account.
func (t *memTx) overlay(acc *domain.Account) *domain.Account {
	if b, ok := t.bumps[acc.AccountID]; ok {
		acc.Version = b.base + b.count
	}
	return acc
}

func (t *memTx) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	acc, err := t.Store.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return t.overlay(acc), nil
}

func (t *memTx) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	acc, err := t.Store.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return t.overlay(acc), nil
}

func (t *memTx) FindAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	acc, err := t.Store.FindAccountByFlag(ctx, flag, currencyCode)
	if err != nil {
		return nil, err
	}
	return t.overlay(acc), nil
}

func (t *memTx) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := t.Store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		t.overlay(&accounts[i])
	}
	return accounts, nil
}

func (t *memTx) FindOperationByID(ctx context.Context, operationID int64) (*domain.Operation, error) {
	if op, ok := t.operations[operationID]; ok {
		return cloneOperation(op), nil
	}
	return t.Store.FindOperationByID(ctx, operationID)
}

func (t *memTx) FindReversalOf(ctx context.Context, operationID int64) (*int64, error) {
	for _, id := range t.opOrder {
		if r := t.operations[id].ReversalOf; r != nil && *r == operationID {
			return &id, nil
		}
	}
	return t.Store.FindReversalOf(ctx, operationID)
}

func (t *memTx) FindChequeByID(ctx context.Context, chequeID int64) (*domain.Cheque, error) {
	var ch *domain.Cheque
	if buffered, ok := t.cheques[chequeID]; ok {
		ch = &buffered
	} else {
		found, err := t.Store.FindChequeByID(ctx, chequeID)
		if err != nil {
			return nil, err
		}
		ch = found
	}
	if c, ok := t.chequeCAS[chequeID]; ok {
		ch.Status = c.to
		settlement := c.settlementOperationID
		ch.SettlementOperationID = &settlement
	}
	return ch, nil
}

func (t *memTx) FindChequeByOperationID(ctx context.Context, operationID int64) (*domain.Cheque, error) {
	for _, ch := range t.cheques {
		if ch.OperationID == operationID {
			return &ch, nil
		}
	}
	return t.Store.FindChequeByOperationID(ctx, operationID)
}

// LockAccounts implements portsrepo.LedgerTx. Nothing is locked: conflicts
// surface at commit through the version check.
func (t *memTx) LockAccounts(ctx context.Context, accountIDs []int64) (map[int64]domain.Account, error) {
	out := make(map[int64]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		acc, err := t.FindAccountByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = *acc
	}
	return out, nil
}

func (t *memTx) BumpAccountVersions(ctx context.Context, expected map[int64]int64) error {
	for id, version := range expected {
		acc, err := t.FindAccountByID(ctx, id)
		if err != nil {
			return err
		}
		if acc.Version != version {
			return apperrors.New(apperrors.ErrConcurrentModification, "expected version %d, found %d", version, acc.Version).WithAccount(acc.Code)
		}
		b, ok := t.bumps[id]
		if !ok {
			b = versionBump{base: version}
		}
		b.count++
		t.bumps[id] = b
	}
	return nil
}

func (t *memTx) InsertOperation(ctx context.Context, op *domain.Operation) error {
	if op.IdempotencyKey != nil {
		t.Store.mu.RLock()
		_, dup := t.Store.idempotency[*op.IdempotencyKey]
		t.Store.mu.RUnlock()
		for _, buffered := range t.operations {
			if buffered.IdempotencyKey != nil && *buffered.IdempotencyKey == *op.IdempotencyKey {
				dup = true
			}
		}
		if dup {
			return apperrors.New(apperrors.ErrDuplicate, "idempotency key %q already used", *op.IdempotencyKey).
				WithConstraint(portsrepo.UniqueIdempotencyKey)
		}
	}
	if op.ReversalOf != nil {
		existing, err := t.FindReversalOf(ctx, *op.ReversalOf)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.New(apperrors.ErrDuplicate, "already reversed by operation %d", *existing).
				WithOperation(*op.ReversalOf).WithConstraint(portsrepo.UniqueReversalOf)
		}
	}

	op.OperationID = t.Store.nextOperationID.Add(1)
	for i := range op.Entries {
		op.Entries[i].EntryID = t.Store.nextEntryID.Add(1)
		op.Entries[i].OperationID = op.OperationID
	}
	t.operations[op.OperationID] = *cloneOperation(*op)
	t.opOrder = append(t.opOrder, op.OperationID)
	return nil
}

func (t *memTx) InsertCheque(_ context.Context, cheque *domain.Cheque) error {
	cheque.ChequeID = t.Store.nextChequeID.Add(1)
	t.cheques[cheque.ChequeID] = *cheque
	return nil
}

func (t *memTx) CompareAndSwapChequeStatus(ctx context.Context, chequeID int64, from, to domain.ChequeStatus, settlementOperationID int64, at time.Time) error {
	ch, err := t.FindChequeByID(ctx, chequeID)
	if err != nil {
		return err
	}
	if ch.Status != from {
		return apperrors.New(apperrors.ErrConcurrentModification, "cheque %d is %s, expected %s", chequeID, ch.Status, from)
	}
	t.chequeCAS[chequeID] = statusCAS{from: from, to: to, settlementOperationID: settlementOperationID, at: at}
	return nil
}
