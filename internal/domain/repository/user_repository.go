package repository

import (
	"context"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
)

// UserRepository defines the credential store.
type UserRepository interface {
	// Create fails with ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// GetByIDs skips ids that do not resolve.
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	// AppendContact adds contactID to the end of the user's ContactIDs.
	AppendContact(ctx context.Context, userID, contactID string) error
	DeleteAll(ctx context.Context) error
}
