package services

import (
	"errors"
	"testing"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeDuplicate(t *testing.T) {
	key := "rev-7"
	original := int64(7)
	reversal := &domain.Operation{TypeCode: domain.OpReversal, IdempotencyKey: &key, ReversalOf: &original}

	t.Run("racing reversal keeps its cause", func(t *testing.T) {
		raw := apperrors.New(apperrors.ErrDuplicate, "unique key %s violated", portsrepo.UniqueReversalOf).
			WithConstraint(portsrepo.UniqueReversalOf)

		err := describeDuplicate(raw, reversal)

		require.ErrorIs(t, err, apperrors.ErrDuplicate)
		var le *apperrors.LedgerError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, original, le.OperationID)
		assert.Equal(t, portsrepo.UniqueReversalOf, le.Constraint)
		assert.Contains(t, err.Error(), "already reversed")
		assert.NotContains(t, err.Error(), "idempotency key")
	})

	t.Run("reused idempotency key", func(t *testing.T) {
		raw := apperrors.New(apperrors.ErrDuplicate, "unique key %s violated", portsrepo.UniqueIdempotencyKey).
			WithConstraint(portsrepo.UniqueIdempotencyKey)

		err := describeDuplicate(raw, reversal)

		require.ErrorIs(t, err, apperrors.ErrDuplicate)
		assert.Contains(t, err.Error(), `idempotency key "rev-7" already used`)
	})

	t.Run("unknown key is left alone", func(t *testing.T) {
		raw := apperrors.New(apperrors.ErrDuplicate, "unique key %s violated", "journal_entries_operation_id_line_no_key").
			WithConstraint("journal_entries_operation_id_line_no_key")

		assert.Same(t, raw, describeDuplicate(raw, reversal))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, describeDuplicate(boom, reversal))
	})
}
