package application

import (
	"context"

	repo "github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

// ResetService empties the store. Only mounted in the test environment.
type ResetService struct {
	Store repo.Store
}

func (s *ResetService) Reset(ctx context.Context) error {
	if err := s.Store.Contacts.DeleteAll(ctx); err != nil {
		return storeFailure(err)
	}
	if err := s.Store.Users.DeleteAll(ctx); err != nil {
		return storeFailure(err)
	}
	return nil
}
