package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

// Runs against a real database when PHONEBOOK_TEST_DATABASE_URL is set.
func openTestStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := os.Getenv("PHONEBOOK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PHONEBOOK_TEST_DATABASE_URL not set")
	}
	require.NoError(t, RunMigrations(dsn, "", helpers.NewNopLogger()))

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewStore(pool)
	require.NoError(t, store.Contacts.DeleteAll(ctx))
	require.NoError(t, store.Users.DeleteAll(ctx))
	return store
}

func TestStore_UsersAndContacts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	u := &entity.User{ID: entity.NewID(), Username: "root", Name: "Superuser", PasswordHash: "x", CreatedAt: now}
	require.NoError(t, store.Users.Create(ctx, u))

	dup := &entity.User{ID: entity.NewID(), Username: "root", PasswordHash: "y", CreatedAt: now}
	assert.ErrorIs(t, store.Users.Create(ctx, dup), repository.ErrDuplicateUsername)

	c := &entity.Contact{ID: entity.NewID(), Name: "Arto Hellas", Number: "040-123456", OwnerID: u.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Contacts.Create(ctx, c))
	require.NoError(t, store.Users.AppendContact(ctx, u.ID, c.ID))

	got, err := store.Users.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, got.ContactIDs)

	c.Number = "040-654321"
	require.NoError(t, store.Contacts.Update(ctx, c))
	gc, err := store.Contacts.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "040-654321", gc.Number)
	assert.Equal(t, u.ID, gc.OwnerID)

	byIDs, err := store.Users.GetByIDs(ctx, []string{u.ID, entity.NewID()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, store.Contacts.Delete(ctx, c.ID))
	assert.ErrorIs(t, store.Contacts.Delete(ctx, c.ID), repository.ErrNotFound)
	_, err = store.Contacts.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_TxRollsBack(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	u := &entity.User{ID: entity.NewID(), Username: "tx", PasswordHash: "x", CreatedAt: now}
	require.NoError(t, store.Users.Create(ctx, u))

	boom := errors.New("boom")
	c := &entity.Contact{ID: entity.NewID(), Name: "Rolled Back", Number: "12-3456789", OwnerID: u.ID, CreatedAt: now, UpdatedAt: now}
	err := store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.Contacts.Create(ctx, c); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Contacts.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
