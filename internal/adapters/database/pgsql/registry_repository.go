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

const accountColumns = `
	account_id, code, name, account_type, currency_code, parent_account_id, is_active,
	is_cash, is_client_account, is_fx_result, is_commission_income, is_commission_expense, is_interest_income,
	version, created_at, created_by`

// flagColumns whitelists the columns FindAccountByFlag may filter on.
var flagColumns = map[domain.AccountFlag]string{
	domain.FlagCash:              "is_cash",
	domain.FlagClientAccount:     "is_client_account",
	domain.FlagFxResult:          "is_fx_result",
	domain.FlagCommissionIncome:  "is_commission_income",
	domain.FlagCommissionExpense: "is_commission_expense",
	domain.FlagInterestIncome:    "is_interest_income",
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.Code, &m.Name, &m.AccountType, &m.CurrencyCode, &m.ParentAccountID, &m.IsActive,
		&m.IsCash, &m.IsClientAccount, &m.IsFxResult, &m.IsCommissionIncome, &m.IsCommissionExpense, &m.IsInterestIncome,
		&m.Version, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (q *queries) findAccount(ctx context.Context, where string, args ...any) (*domain.Account, error) {
	acc, err := scanAccount(q.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &acc, nil
}

// --- registry reads ---

func (q *queries) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	var c domain.Currency
	err := q.db.QueryRow(ctx,
		`SELECT currency_code, symbol, name, minor_units FROM currencies WHERE currency_code = $1`, code,
	).Scan(&c.CurrencyCode, &c.Symbol, &c.Name, &c.MinorUnits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find currency %s: %w", code, err)
	}
	return &c, nil
}

func (q *queries) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	rows, err := q.db.Query(ctx, `SELECT currency_code, symbol, name, minor_units FROM currencies ORDER BY currency_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return collectRows(rows, func(row pgx.Row) (domain.Currency, error) {
		var c domain.Currency
		err := row.Scan(&c.CurrencyCode, &c.Symbol, &c.Name, &c.MinorUnits)
		return c, err
	})
}

func (q *queries) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return q.findAccount(ctx, `account_id = $1`, accountID)
}

func (q *queries) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return q.findAccount(ctx, `code = $1`, code)
}

func (q *queries) FindAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	column, ok := flagColumns[flag]
	if !ok {
		return nil, fmt.Errorf("%w: unknown account flag %q", apperrors.ErrValidation, flag)
	}
	return q.findAccount(ctx, column+` AND is_active AND currency_code = $1 ORDER BY code LIMIT 1`, currencyCode)
}

func (q *queries) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := q.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return collectRows(rows, scanAccount)
}

func (q *queries) FindPartyByID(ctx context.Context, partyID int64) (*domain.Party, error) {
	var p domain.Party
	err := q.db.QueryRow(ctx, `SELECT party_id, name, party_type FROM parties WHERE party_id = $1`, partyID).
		Scan(&p.PartyID, &p.Name, &p.PartyType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find party %d: %w", partyID, err)
	}
	return &p, nil
}

func (q *queries) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, `SELECT user_id, email, name FROM users WHERE user_id = $1`, userID).
		Scan(&u.UserID, &u.Email, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %d: %w", userID, err)
	}
	return &u, nil
}

func (q *queries) FindOperationType(ctx context.Context, code string) (*domain.OperationType, error) {
	var t domain.OperationType
	err := q.db.QueryRow(ctx, `
		SELECT code, description, requires_rate, extension_kind, forbids_cash, forbids_commission, reversible
		FROM operation_types WHERE code = $1`, code,
	).Scan(&t.Code, &t.Description, &t.RequiresRate, &t.Extension, &t.ForbidsCash, &t.ForbidsCommission, &t.Reversible)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operation type %s: %w", code, err)
	}
	return &t, nil
}

// --- registry writes; used by seeding, never by the engine ---

func (s *Store) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO currencies (currency_code, symbol, name, minor_units)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (currency_code) DO UPDATE
		SET symbol = EXCLUDED.symbol, name = EXCLUDED.name, minor_units = EXCLUDED.minor_units`,
		currency.CurrencyCode, currency.Symbol, currency.Name, currency.Precision(),
	)
	if err != nil {
		return fmt.Errorf("failed to save currency %s: %w", currency.CurrencyCode, err)
	}
	return nil
}

// SaveAccount inserts the account or updates the one with the same code.
// Updating bumps the version so in-flight postings notice the change.
func (s *Store) SaveAccount(ctx context.Context, account *domain.Account) error {
	m := mapping.ToModelAccount(*account)
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO accounts (code, name, account_type, currency_code, parent_account_id, is_active,
			is_cash, is_client_account, is_fx_result, is_commission_income, is_commission_expense, is_interest_income,
			created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO UPDATE
		SET name = EXCLUDED.name, account_type = EXCLUDED.account_type, currency_code = EXCLUDED.currency_code,
			parent_account_id = EXCLUDED.parent_account_id, is_active = EXCLUDED.is_active,
			is_cash = EXCLUDED.is_cash, is_client_account = EXCLUDED.is_client_account,
			is_fx_result = EXCLUDED.is_fx_result, is_commission_income = EXCLUDED.is_commission_income,
			is_commission_expense = EXCLUDED.is_commission_expense, is_interest_income = EXCLUDED.is_interest_income,
			version = accounts.version + 1
		RETURNING account_id, version, created_at`,
		m.Code, m.Name, m.AccountType, m.CurrencyCode, m.ParentAccountID, m.IsActive,
		m.IsCash, m.IsClientAccount, m.IsFxResult, m.IsCommissionIncome, m.IsCommissionExpense, m.IsInterestIncome,
		m.CreatedBy,
	).Scan(&account.AccountID, &account.Version, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save account %s: %w", account.Code, err)
	}
	return nil
}

// SaveParty inserts the party or updates the one with the same name.
func (s *Store) SaveParty(ctx context.Context, party *domain.Party) error {
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO parties (name, party_type) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET party_type = EXCLUDED.party_type
		RETURNING party_id`,
		party.Name, party.PartyType,
	).Scan(&party.PartyID)
	if err != nil {
		return fmt.Errorf("failed to save party %s: %w", party.Name, err)
	}
	return nil
}

func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO users (user_id, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name`,
		user.UserID, user.Email, user.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user with email %s already exists", apperrors.ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to save user %d: %w", user.UserID, err)
	}
	return nil
}

func (s *Store) SaveOperationType(ctx context.Context, opType domain.OperationType) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO operation_types (code, description, requires_rate, extension_kind, forbids_cash, forbids_commission, reversible)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (code) DO UPDATE
		SET description = EXCLUDED.description, requires_rate = EXCLUDED.requires_rate,
			extension_kind = EXCLUDED.extension_kind, forbids_cash = EXCLUDED.forbids_cash,
			forbids_commission = EXCLUDED.forbids_commission, reversible = EXCLUDED.reversible`,
		opType.Code, opType.Description, opType.RequiresRate, string(opType.Extension),
		opType.ForbidsCash, opType.ForbidsCommission, opType.Reversible,
	)
	if err != nil {
		return fmt.Errorf("failed to save operation type %s: %w", opType.Code, err)
	}
	return nil
}
