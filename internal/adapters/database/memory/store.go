// Package memory is an in-process implementation of the ledger store. Reads
// see committed state, writes are buffered per transaction and validated
// against account versions and cheque statuses when the transaction commits.
package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store keeps the whole ledger in memory. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	currencies   map[string]domain.Currency
	accounts     map[int64]domain.Account
	accountCodes map[string]int64
	parties      map[int64]domain.Party
	users        map[int64]domain.User
	opTypes      map[string]domain.OperationType
	operations   map[int64]domain.Operation
	idempotency  map[string]int64
	reversals    map[int64]int64
	cheques      map[int64]domain.Cheque

	nextAccountID   atomic.Int64
	nextPartyID     atomic.Int64
	nextOperationID atomic.Int64
	nextEntryID     atomic.Int64
	nextChequeID    atomic.Int64

	// BeforeCommit, when set, runs after a transaction callback succeeded and
	// before its writes are validated. A non-nil error rolls the transaction back.
	BeforeCommit func(ctx context.Context) error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		currencies:   make(map[string]domain.Currency),
		accounts:     make(map[int64]domain.Account),
		accountCodes: make(map[string]int64),
		parties:      make(map[int64]domain.Party),
		users:        make(map[int64]domain.User),
		opTypes:      make(map[string]domain.OperationType),
		operations:   make(map[int64]domain.Operation),
		idempotency:  make(map[string]int64),
		reversals:    make(map[int64]int64),
		cheques:      make(map[int64]domain.Cheque),
	}
}

var (
	_ portsrepo.Store          = (*Store)(nil)
	_ portsrepo.RegistryWriter = (*Store)(nil)
)

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{Store: store, Registry: store}
}

// WithinTransaction implements portsrepo.TransactionManager.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx := newTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if s.BeforeCommit != nil {
		if err := s.BeforeCommit(ctx); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *Store) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range tx.bumps {
		acc, ok := s.accounts[id]
		if !ok {
			return apperrors.New(apperrors.ErrNotFound, "account id %d", id)
		}
		if acc.Version != b.base {
			return apperrors.New(apperrors.ErrConcurrentModification, "account version moved from %d to %d", b.base, acc.Version).WithAccount(acc.Code)
		}
	}
	for id, c := range tx.chequeCAS {
		current, ok := s.cheques[id]
		if !ok {
			if _, inserted := tx.cheques[id]; inserted {
				continue
			}
			return apperrors.New(apperrors.ErrNotFound, "cheque %d", id)
		}
		if current.Status != c.from {
			return apperrors.New(apperrors.ErrConcurrentModification, "cheque %d is now %s", id, current.Status).WithOperation(current.OperationID)
		}
	}
	for _, op := range tx.operations {
		if op.IdempotencyKey != nil {
			if _, dup := s.idempotency[*op.IdempotencyKey]; dup {
				return apperrors.New(apperrors.ErrDuplicate, "idempotency key %q already used", *op.IdempotencyKey).
					WithConstraint(portsrepo.UniqueIdempotencyKey)
			}
		}
		if op.ReversalOf != nil {
			if existing, dup := s.reversals[*op.ReversalOf]; dup {
				return apperrors.New(apperrors.ErrDuplicate, "already reversed by operation %d", existing).
					WithOperation(*op.ReversalOf).WithConstraint(portsrepo.UniqueReversalOf)
			}
		}
	}

	for id, b := range tx.bumps {
		acc := s.accounts[id]
		acc.Version = b.base + b.count
		s.accounts[id] = acc
	}
	for _, id := range tx.opOrder {
		op := tx.operations[id]
		s.operations[id] = op
		if op.IdempotencyKey != nil {
			s.idempotency[*op.IdempotencyKey] = id
		}
		if op.ReversalOf != nil {
			s.reversals[*op.ReversalOf] = id
		}
	}
	for id, ch := range tx.cheques {
		s.cheques[id] = ch
	}
	for id, c := range tx.chequeCAS {
		ch := s.cheques[id]
		ch.Status = c.to
		settlement := c.settlementOperationID
		ch.SettlementOperationID = &settlement
		at := c.at
		ch.StatusChangedAt = &at
		s.cheques[id] = ch
	}
	return nil
}

// --- registry reads ---

func (s *Store) FindCurrencyByCode(_ context.Context, code string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cur, ok := s.currencies[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &cur, nil
}

func (s *Store) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	id, ok := s.accountCodes[code]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return s.FindAccountByID(ctx, id)
}

func (s *Store) FindAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		acc := accounts[i]
		if acc.IsActive && acc.CurrencyCode == currencyCode && acc.Flags.Has(flag) {
			return &acc, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// ListAccounts returns all accounts ordered by code.
func (s *Store) ListAccounts(_ context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) FindPartyByID(_ context.Context, partyID int64) (*domain.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parties[partyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindUserByID(_ context.Context, userID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindOperationType(_ context.Context, code string) (*domain.OperationType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.opTypes[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

// --- registry writes ---

func (s *Store) SaveCurrency(_ context.Context, currency domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[currency.CurrencyCode] = currency
	return nil
}

// SaveAccount inserts a new account or replaces the one with the same code.
// Replacing bumps the version so in-flight postings notice the change.
func (s *Store) SaveAccount(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.accountCodes[account.Code]; ok {
		account.AccountID = id
		account.Version = s.accounts[id].Version + 1
	} else {
		if account.AccountID == 0 {
			account.AccountID = s.nextAccountID.Add(1)
		}
		s.accountCodes[account.Code] = account.AccountID
	}
	s.accounts[account.AccountID] = *account
	return nil
}

// SaveParty inserts a party, or updates the one with the same name when no id is given.
func (s *Store) SaveParty(_ context.Context, party *domain.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if party.PartyID == 0 {
		for id, p := range s.parties {
			if p.Name == party.Name {
				party.PartyID = id
				break
			}
		}
	}
	if party.PartyID == 0 {
		party.PartyID = s.nextPartyID.Add(1)
	}
	s.parties[party.PartyID] = *party
	return nil
}

func (s *Store) SaveUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = *user
	return nil
}

func (s *Store) SaveOperationType(_ context.Context, opType domain.OperationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opTypes[opType.Code] = opType
	return nil
}

// --- operations and cheques ---

func (s *Store) FindOperationByID(_ context.Context, operationID int64) (*domain.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.operations[operationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneOperation(op), nil
}

func (s *Store) FindReversalOf(_ context.Context, operationID int64) (*int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.reversals[operationID]; ok {
		return &id, nil
	}
	return nil, nil
}

func (s *Store) FindChequeByID(_ context.Context, chequeID int64) (*domain.Cheque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.cheques[chequeID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &ch, nil
}

func (s *Store) FindChequeByOperationID(_ context.Context, operationID int64) (*domain.Cheque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.cheques {
		if ch.OperationID == operationID {
			return &ch, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) ListCheques(_ context.Context, status *domain.ChequeStatus) ([]domain.Cheque, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Cheque{}
	for _, ch := range s.cheques {
		if status == nil || ch.Status == *status {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChequeID < out[j].ChequeID })
	return out, nil
}

// --- ledger queries ---

// entriesUpTo returns every entry of operations dated on or before asOf.
func (s *Store) entriesUpTo(asOf time.Time) []domain.JournalEntry {
	var out []domain.JournalEntry
	for _, op := range s.operations {
		if op.OperationDate.After(asOf) {
			continue
		}
		out = append(out, op.Entries...)
	}
	return out
}

func (s *Store) AccountTotals(_ context.Context, accountID int64, asOf time.Time) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range s.entriesUpTo(asOf) {
		if e.AccountID != accountID {
			continue
		}
		debit = debit.Add(e.Debit())
		credit = credit.Add(e.Credit())
	}
	return debit, credit, nil
}

func (s *Store) TrialBalanceRows(_ context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make(map[int64]*domain.TrialBalanceRow)
	for _, e := range s.entriesUpTo(asOf) {
		row, ok := rows[e.AccountID]
		if !ok {
			acc := s.accounts[e.AccountID]
			row = &domain.TrialBalanceRow{
				AccountID:    acc.AccountID,
				AccountCode:  acc.Code,
				AccountName:  acc.Name,
				AccountType:  acc.AccountType,
				CurrencyCode: acc.CurrencyCode,
			}
			rows[e.AccountID] = row
		}
		row.Debit = row.Debit.Add(e.Debit())
		row.Credit = row.Credit.Add(e.Credit())
	}
	out := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, r := range rows {
		r.Balance = r.Debit.Sub(r.Credit)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (s *Store) EquivalentTotals(_ context.Context, asOf time.Time) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	totals := make(map[string]decimal.Decimal)
	for _, e := range s.entriesUpTo(asOf) {
		totals[e.EquivalentCurrency] = totals[e.EquivalentCurrency].Add(e.SignedEquivalent())
	}
	return totals, nil
}

func cloneOperation(op domain.Operation) *domain.Operation {
	out := op
	out.Entries = append([]domain.JournalEntry(nil), op.Entries...)
	return &out
}
