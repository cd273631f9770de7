package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

type userRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	ContactIDs   []string  `json:"contact_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserRecord(u *entity.User) userRecord {
	ids := u.ContactIDs
	if ids == nil {
		ids = []string{}
	}
	return userRecord{u.ID, u.Username, u.Name, u.PasswordHash, ids, u.CreatedAt}
}

func (r userRecord) entity() entity.User {
	return entity.User{
		ID:           r.ID,
		Username:     r.Username,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		ContactIDs:   r.ContactIDs,
		CreatedAt:    r.CreatedAt,
	}
}

type UserRepository struct {
	db *DB
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(userNameKey(u.Username))
		if err == nil {
			return repository.ErrDuplicateUsername
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := setJSON(txn, userIDKey(u.ID), toUserRecord(u)); err != nil {
			return fmt.Errorf("put user: %w", err)
		}
		return txn.Set(userNameKey(u.Username), []byte(u.ID))
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var rec userRecord
	if err := r.db.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, userIDKey(id), &rec)
	}); err != nil {
		return nil, err
	}
	u := rec.entity()
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var rec userRecord
	err := r.db.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(userNameKey(username))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return repository.ErrNotFound
			}
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userIDKey(string(id)), &rec)
	})
	if err != nil {
		return nil, err
	}
	u := rec.entity()
	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	out := make([]entity.User, 0, len(ids))
	err := r.db.view(ctx, func(txn *badger.Txn) error {
		for _, id := range ids {
			var rec userRecord
			err := getJSON(txn, userIDKey(id), &rec)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			out = append(out, rec.entity())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	var recs []userRecord
	err := r.db.view(ctx, func(txn *badger.Txn) error {
		var err error
		recs, err = scanPrefix[userRecord](txn, prefixUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.entity())
	}
	return out, nil
}

func (r *UserRepository) AppendContact(ctx context.Context, userID, contactID string) error {
	return r.db.update(ctx, func(txn *badger.Txn) error {
		var rec userRecord
		if err := getJSON(txn, userIDKey(userID), &rec); err != nil {
			return err
		}
		rec.ContactIDs = append(rec.ContactIDs, contactID)
		return setJSON(txn, userIDKey(userID), rec)
	})
}

func (r *UserRepository) DeleteAll(context.Context) error {
	return r.db.DB.DropPrefix(prefixUserID, prefixUserName)
}

var _ repository.UserRepository = (*UserRepository)(nil)
