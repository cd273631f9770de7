package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// TxManager runs fn so that every repository call made with the ctx it
// receives commits or rolls back together.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoTx runs fn directly. Writes made before a failure stay in place.
type NoTx struct{}

func (NoTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Users    UserRepository
	Contacts ContactRepository
	Tx       TxManager
}
