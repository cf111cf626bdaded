package repositories

// Unique keys on operations. Stores report a violation of either as an
// apperrors.ErrDuplicate carrying the key name.
const (
	UniqueIdempotencyKey = "operations_idempotency_key_key"
	UniqueReversalOf     = "operations_reversal_of_key"
)

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Store    Store
	Registry RegistryWriter
}
