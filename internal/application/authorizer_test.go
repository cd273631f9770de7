package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeyaD/phonebook-server/internal/domain/apperr"
	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
)

func TestAuthorizer_ResolvesUser(t *testing.T) {
	f := newFixture(t)
	uc, header := f.register(t, "mluukkai")

	claims, err := f.auth.Authenticate(header)
	require.NoError(t, err)

	got, err := f.authz.Authorize(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, uc.User.ID, got.User.ID)
	assert.Equal(t, "mluukkai", got.User.Username)
}

func TestAuthorizer_UnknownUser(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{entity.NewID(), "h4b5a6154c465559015493b6", ""} {
		_, err := f.authz.Authorize(context.Background(), Claims{UserID: id})
		assert.ErrorIs(t, err, ErrUnknownUser, id)
		assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
	}
}

func TestAuthorizer_DeletedUser(t *testing.T) {
	f := newFixture(t)
	_, header := f.register(t, "ghost")
	claims, err := f.auth.Authenticate(header)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteAll(context.Background()))

	_, err = f.authz.Authorize(context.Background(), claims)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestAuthorizer_StoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection reset")
	f.users.getByIDFunc = func(context.Context, string) (*entity.User, error) { return nil, boom }

	_, err := f.authz.Authorize(context.Background(), Claims{UserID: entity.NewID()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.ErrorIs(t, err, boom)
}
