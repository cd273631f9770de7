package repository

import (
	"context"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
)

// ContactRepository defines the contact store. List returns contacts in
// creation order.
type ContactRepository interface {
	Create(ctx context.Context, c *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	List(ctx context.Context) ([]entity.Contact, error)
	// Update persists Name, Number and UpdatedAt only.
	Update(ctx context.Context, c *entity.Contact) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}
