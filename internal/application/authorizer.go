package application

import (
	"context"
	"errors"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	repo "github.com/LeeyaD/phonebook-server/internal/domain/repository"
)

// UserContext is the resolved caller of a request. It is passed explicitly to
// every operation that depends on who is asking.
type UserContext struct {
	User entity.User
}

// Authorizer resolves verified claims to a stored user.
type Authorizer struct {
	Users repo.UserRepository
}

func NewAuthorizer(users repo.UserRepository) *Authorizer {
	return &Authorizer{Users: users}
}

func (a *Authorizer) Authorize(ctx context.Context, c Claims) (UserContext, error) {
	if !entity.IsValidID(c.UserID) {
		return UserContext{}, ErrUnknownUser
	}
	u, err := a.Users.GetByID(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return UserContext{}, ErrUnknownUser
		}
		return UserContext{}, storeFailure(err)
	}
	return UserContext{User: *u}, nil
}
