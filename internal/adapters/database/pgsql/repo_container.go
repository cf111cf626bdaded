package pgsql

import (
	portsrepo "github.com/SscSPs/posting_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates a new repository provider with all repositories initialized
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	store := NewStore(pool)
	return portsrepo.RepositoryProvider{
		Store:    store,
		Registry: store,
	}
}
