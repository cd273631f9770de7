package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeyaD/phonebook-server/internal/domain/apperr"
	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func names(views []ContactView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Name)
	}
	return out
}

func TestContactService_CreateAddsContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := f.register(t, "root")

	before, err := f.contactS.List(ctx)
	require.NoError(t, err)

	v, err := f.contactS.Create(ctx, uc, ContactInput{Name: "Dawson Creek", Number: "053-98765"})
	require.NoError(t, err)
	assert.True(t, entity.IsValidID(v.ID))
	assert.Equal(t, uc.User.ID, v.User.ID)
	assert.True(t, v.User.Resolved)

	after, err := f.contactS.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.Contains(t, names(after), "Dawson Creek")

	owner, err := f.users.GetByID(ctx, uc.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{v.ID}, owner.ContactIDs)
}

func TestContactService_CreateMissingName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := f.register(t, "root")

	_, err := f.contactS.Create(ctx, uc, ContactInput{Number: "234-56789"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, f.contacts.count())
}

func TestContactService_CreateRequiresCaller(t *testing.T) {
	f := newFixture(t)

	_, err := f.contactS.Create(context.Background(), UserContext{}, ContactInput{Name: "Dawson Creek", Number: "053-98765"})
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Zero(t, f.contacts.count())
}

func TestContactService_RoundTripAndIdempotentGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := f.register(t, "root")

	created, err := f.contactS.Create(ctx, uc, ContactInput{Name: "Arto Hellas", Number: "040-123456"})
	require.NoError(t, err)

	first, err := f.contactS.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, first)

	second, err := f.contactS.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestContactService_GetMalformedVersusMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.contactS.Get(ctx, "h4b5a6154c465559015493b6")
	assert.ErrorIs(t, err, ErrMalformedID)
	assert.Equal(t, apperr.KindMalformedID, apperr.KindOf(err))

	_, err = f.contactS.Get(ctx, entity.NewID())
	assert.ErrorIs(t, err, ErrContactNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestContactService_DeleteByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := f.register(t, "root")
	v, err := f.contactS.Create(ctx, uc, ContactInput{Name: "Ada Lovelace", Number: "39-44532"})
	require.NoError(t, err)

	require.NoError(t, f.contactS.Delete(ctx, uc, v.ID))

	all, err := f.contactS.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names(all), "Ada Lovelace")
	assert.Zero(t, f.contacts.count())

	// the owner's list keeps the dangling id
	owner, err := f.users.GetByID(ctx, uc.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{v.ID}, owner.ContactIDs)

	err = f.contactS.Delete(ctx, uc, v.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestContactService_DeleteByOtherUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.register(t, "root")
	other, _ := f.register(t, "mallory")
	v, err := f.contactS.Create(ctx, owner, ContactInput{Name: "Ada Lovelace", Number: "39-44532"})
	require.NoError(t, err)

	err = f.contactS.Delete(ctx, other, v.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, 1, f.contacts.count())

	_, err = f.contactS.Get(ctx, v.ID)
	assert.NoError(t, err)
}

func TestContactService_DeleteMalformedID(t *testing.T) {
	f := newFixture(t)
	uc, _ := f.register(t, "root")

	err := f.contactS.Delete(context.Background(), uc, "123")
	assert.ErrorIs(t, err, ErrMalformedID)
}

func TestContactService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.register(t, "root")
	other, _ := f.register(t, "mallory")
	_, err := f.contactS.Create(ctx, owner, ContactInput{Name: "Mary Poppendieck", Number: "39-23-6423122"})
	require.Error(t, err, "hyphenated suffix is not a valid number")

	v, err := f.contactS.Create(ctx, owner, ContactInput{Name: "Mary Poppendieck", Number: "39-236423122"})
	require.NoError(t, err)

	t.Run("partial keeps other field", func(t *testing.T) {
		got, err := f.contactS.Update(ctx, &owner, v.ID, ContactPatch{Number: strPtr("040-7654321")})
		require.NoError(t, err)
		assert.Equal(t, "Mary Poppendieck", got.Name)
		assert.Equal(t, "040-7654321", got.Number)
		assert.Equal(t, owner.User.ID, got.User.ID)
	})

	t.Run("non-owner and anonymous may update", func(t *testing.T) {
		got, err := f.contactS.Update(ctx, &other, v.ID, ContactPatch{Name: strPtr("Mary P")})
		require.NoError(t, err)
		assert.Equal(t, "Mary P", got.Name)
		assert.Equal(t, owner.User.ID, got.User.ID, "owner never changes")

		_, err = f.contactS.Update(ctx, nil, v.ID, ContactPatch{Name: strPtr("Mary Q")})
		require.NoError(t, err)
	})

	t.Run("invalid merged record", func(t *testing.T) {
		_, err := f.contactS.Update(ctx, &owner, v.ID, ContactPatch{Number: strPtr("12")})
		assert.ErrorIs(t, err, ErrValidation)

		got, err := f.contactS.Get(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, "040-7654321", got.Number)
	})

	t.Run("missing and malformed", func(t *testing.T) {
		_, err := f.contactS.Update(ctx, &owner, entity.NewID(), ContactPatch{Name: strPtr("Nobody")})
		assert.ErrorIs(t, err, ErrContactNotFound)

		_, err = f.contactS.Update(ctx, &owner, "bad", ContactPatch{Name: strPtr("Nobody")})
		assert.ErrorIs(t, err, ErrMalformedID)
	})
}

// Without a transactional store a failed second write leaves the contact
// behind without a reference from its owner.
func TestContactService_CreateOrphanWithoutTx(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := f.register(t, "root")
	boom := errors.New("write failed")
	f.users.appendContactFunc = func(context.Context, string, string) error { return boom }

	_, err := f.contactS.Create(ctx, uc, ContactInput{Name: "Orphan Annie", Number: "12-3456789"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 1, f.contacts.count())
	owner, err := f.users.GetByID(ctx, uc.User.ID)
	require.NoError(t, err)
	assert.Empty(t, owner.ContactIDs)
}

func TestContactService_ListStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.contacts.listFunc = func(context.Context) ([]entity.Contact, error) { return nil, errors.New("timeout") }

	_, err := f.contactS.List(context.Background())
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestContactService_UnresolvedOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc, _ := f.register(t, "root")
	v, err := f.contactS.Create(ctx, uc, ContactInput{Name: "Left Behind", Number: "12-3456789"})
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteAll(ctx))

	got, err := f.contactS.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, got.User.Resolved)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+v.ID+`","name":"Left Behind","number":"12-3456789","user":"`+uc.User.ID+`"}`, string(b))
}

func TestContactView_JSON(t *testing.T) {
	v := ContactView{ID: "c1", Name: "Arto", Number: "040-123456", User: OwnerView{ID: "u1", Username: "hellas", Name: "Arto H", Resolved: true}}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","name":"Arto","number":"040-123456","user":{"id":"u1","username":"hellas","name":"Arto H"}}`, string(b))
}

func TestContactService_Search(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *fixture) {
		uc, _ := f.register(t, "root")
		for _, in := range []ContactInput{
			{"Arto Hellas", "040-123456"},
			{"Ada Lovelace", "39-44532"},
			{"Dan Abramov", "12-43234345"},
		} {
			_, err := f.contactS.Create(ctx, uc, in)
			require.NoError(t, err)
		}
	}

	t.Run("store scan", func(t *testing.T) {
		f := newFixture(t)
		seed(t, f)

		got, err := f.contactS.Search(ctx, "ada", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ada Lovelace"}, names(got))

		got, err = f.contactS.Search(ctx, "040", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Arto Hellas"}, names(got))

		got, err = f.contactS.Search(ctx, "a", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("index", func(t *testing.T) {
		f := newFixture(t)
		idx := newFakeIndex()
		f.contactS.Index = idx
		seed(t, f)
		assert.Len(t, idx.docs, 3)

		got, err := f.contactS.Search(ctx, "hellas", 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Arto Hellas", got[0].Name)
		assert.True(t, got[0].User.Resolved)
	})

	t.Run("stale index entries are skipped", func(t *testing.T) {
		f := newFixture(t)
		idx := newFakeIndex()
		f.contactS.Index = idx
		seed(t, f)
		idx.searchFn = func(context.Context, string, int) ([]string, error) {
			return []string{entity.NewID()}, nil
		}

		got, err := f.contactS.Search(ctx, "x", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("index failure falls back to scan", func(t *testing.T) {
		f := newFixture(t)
		idx := newFakeIndex()
		f.contactS.Index = idx
		seed(t, f)
		idx.searchFn = func(context.Context, string, int) ([]string, error) { return nil, errors.New("es down") }

		got, err := f.contactS.Search(ctx, "dan", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dan Abramov"}, names(got))
	})

	t.Run("empty query", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.contactS.Search(ctx, "   ", 10)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestContactService_DeleteRemovesFromIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	idx := newFakeIndex()
	f.contactS.Index = idx
	uc, _ := f.register(t, "root")

	v, err := f.contactS.Create(ctx, uc, ContactInput{Name: "Indexed", Number: "12-3456789"})
	require.NoError(t, err)
	require.Contains(t, idx.docs, v.ID)

	require.NoError(t, f.contactS.Delete(ctx, uc, v.ID))
	assert.NotContains(t, idx.docs, v.ID)

	n, err := f.contactS.Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
