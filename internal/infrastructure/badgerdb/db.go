package badgerdb

import (
	"context"
	"encoding/json"
	"errors"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

const maxConflictRetries = 5

// DB holds a Badger handle. Keys are laid out as
//
//	user/id/<id>          -> userRecord
//	user/name/<username>  -> user id
//	contact/<id>          -> contactRecord
//
// Ids are UUIDv7, so prefix iteration yields creation order.
type DB struct {
	InMemory bool
	DB       *badger.DB
}

var (
	prefixUserID   = []byte("user/id/")
	prefixUserName = []byte("user/name/")
	prefixContact  = []byte("contact/")
)

func userIDKey(id string) []byte     { return append(append([]byte{}, prefixUserID...), id...) }
func userNameKey(name string) []byte { return append(append([]byte{}, prefixUserName...), name...) }
func contactKey(id string) []byte    { return append(append([]byte{}, prefixContact...), id...) }

// Open opens the store at dir. An empty dir keeps everything in memory.
func Open(dir string) (*DB, error) {
	inMemory := dir == ""
	opts := badger.DefaultOptions(dir).WithInMemory(inMemory).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DB{DB: db, InMemory: inMemory}, nil
}

// Close handles closing all connections to the database.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Store wires the Badger repositories around d.
func (d *DB) Store() repository.Store {
	return repository.Store{
		Users:    &UserRepository{db: d},
		Contacts: &ContactRepository{db: d},
		Tx:       &TxManager{db: d},
	}
}

type txnKey struct{}

func txnFrom(ctx context.Context) (*badger.Txn, bool) {
	txn, ok := ctx.Value(txnKey{}).(*badger.Txn)
	return txn, ok
}

// update runs fn in the transaction carried by ctx, or in a new read-write
// transaction that is retried on conflict.
func (d *DB) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := txnFrom(ctx); ok {
		return fn(txn)
	}
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = d.DB.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (d *DB) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if txn, ok := txnFrom(ctx); ok {
		return fn(txn)
	}
	return d.DB.View(fn)
}

// TxManager groups repository writes into one Badger transaction.
type TxManager struct {
	db *DB
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txnFrom(ctx); ok {
		return fn(ctx)
	}
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = m.runOnce(ctx, fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (m *TxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	txn := m.db.DB.NewTransaction(true)
	defer txn.Discard()

	if err := fn(context.WithValue(ctx, txnKey{}, txn)); err != nil {
		return err
	}
	return txn.Commit()
}

func getJSON(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return repository.ErrNotFound
		}
		return err
	}
	return item.Value(func(b []byte) error {
		return json.Unmarshal(b, dest)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

// scanPrefix decodes every value under prefix in key order.
func scanPrefix[T any](txn *badger.Txn, prefix []byte) ([]T, error) {
	out := []T{}
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(b []byte) error {
			return json.Unmarshal(b, &v)
		}); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var _ repository.TxManager = (*TxManager)(nil)
