package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	plain := errors.New("boom")
	ledger := apperrors.New(apperrors.ErrUnbalancedEntry, "off by one")

	tests := []struct {
		name      string
		err       error
		wantKind  error
		retryable bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: codeSerializationFailure}, wantKind: apperrors.ErrConcurrentModification, retryable: true},
		{name: "deadlock", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeDeadlockDetected}), wantKind: apperrors.ErrConcurrentModification, retryable: true},
		{name: "unique violation", err: &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "operations_idempotency_key_key"}, wantKind: apperrors.ErrDuplicate},
		{name: "ledger error kept", err: ledger, wantKind: apperrors.ErrUnbalancedEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			assert.ErrorIs(t, got, tt.wantKind)
			assert.Equal(t, tt.retryable, apperrors.IsRetryable(got))
		})
	}

	dup := classifyError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: portsrepo.UniqueReversalOf})
	assert.Equal(t, portsrepo.UniqueReversalOf, apperrors.ConstraintOf(dup))

	assert.Same(t, plain, classifyError(plain))
	assert.NoError(t, classifyError(nil))
}

func TestFlagColumnsCoverEveryFlag(t *testing.T) {
	flags := []domain.AccountFlag{
		domain.FlagCash, domain.FlagClientAccount, domain.FlagFxResult,
		domain.FlagCommissionIncome, domain.FlagCommissionExpense, domain.FlagInterestIncome,
	}
	for _, f := range flags {
		assert.Contains(t, flagColumns, f)
	}
	assert.Len(t, flagColumns, len(flags))
}
