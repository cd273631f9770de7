package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

// NewStore wires the Postgres repositories around one pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Users:    NewUserRepository(pool),
		Contacts: NewContactRepository(pool),
		Tx:       NewTxManager(pool),
	}
}
