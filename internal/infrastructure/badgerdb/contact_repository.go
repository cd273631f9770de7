package badgerdb

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

type contactRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r contactRecord) entity() entity.Contact {
	return entity.Contact(r)
}

type ContactRepository struct {
	db *DB
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, contactKey(c.ID), contactRecord(*c))
	})
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	var rec contactRecord
	if err := r.db.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, contactKey(id), &rec)
	}); err != nil {
		return nil, err
	}
	c := rec.entity()
	return &c, nil
}

func (r *ContactRepository) List(ctx context.Context) ([]entity.Contact, error) {
	var recs []contactRecord
	err := r.db.view(ctx, func(txn *badger.Txn) error {
		var err error
		recs, err = scanPrefix[contactRecord](txn, prefixContact)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.Contact, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.entity())
	}
	return out, nil
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		var rec contactRecord
		if err := getJSON(txn, contactKey(c.ID), &rec); err != nil {
			return err
		}
		rec.Name, rec.Number, rec.UpdatedAt = c.Name, c.Number, c.UpdatedAt
		return setJSON(txn, contactKey(c.ID), rec)
	})
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(contactKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return repository.ErrNotFound
			}
			return err
		}
		return txn.Delete(contactKey(id))
	})
}

func (r *ContactRepository) DeleteAll(context.Context) error {
	return r.db.DB.DropPrefix(prefixContact)
}

var _ repository.ContactRepository = (*ContactRepository)(nil)
