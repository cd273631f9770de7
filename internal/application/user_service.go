package application

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	repo "github.com/LeeyaD/phonebook-server/internal/domain/repository"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
	"github.com/LeeyaD/phonebook-server/pkg/validation"
)

// RegistrationNotifier is told about every new user. Failures are logged and
// never fail the registration.
type RegistrationNotifier interface {
	UserRegistered(ctx context.Context, u entity.User) error
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,username"`
	Name     string `json:"name" validate:"max=128"`
	Password string `json:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type ContactSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

type UserView struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Name     string           `json:"name"`
	Contacts []ContactSummary `json:"contacts"`
}

type UserService struct {
	Users    repo.UserRepository
	Contacts repo.ContactRepository
	Auth     *Authenticator
	Notifier RegistrationNotifier // optional
	Logger   *logrus.Logger

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	validate *validator.Validate
	now      func() time.Time
}

func NewUserService(store repo.Store, auth *Authenticator, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &UserService{
		Users:      store.Users,
		Contacts:   store.Contacts,
		Auth:       auth,
		Logger:     logger,
		BcryptCost: bcrypt.DefaultCost,
		validate:   validation.New(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (UserView, error) {
	if err := s.validate.Struct(in); err != nil {
		details := validation.ToDetails(err)
		return UserView{}, ErrValidation.
			WithDetails(details).
			WithMessage("user validation failed: " + validation.Summary(details))
	}

	hash, err := helpers.HashPasswordCost(in.Password, s.BcryptCost)
	if err != nil {
		return UserView{}, storeFailure(err)
	}
	u := entity.User{
		ID:           entity.NewID(),
		Username:     in.Username,
		Name:         in.Name,
		PasswordHash: hash,
		ContactIDs:   []string{},
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return UserView{}, ErrUsernameTaken
		}
		return UserView{}, storeFailure(err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")

	if s.Notifier != nil {
		if err := s.Notifier.UserRegistered(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("registration notification failed")
		}
	}
	return UserView{ID: u.ID, Username: u.Username, Name: u.Name, Contacts: []ContactSummary{}}, nil
}

// Login checks the password and issues a token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	u, err := s.Users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, storeFailure(err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	token, err := s.Auth.Issue(u)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, Username: u.Username, Name: u.Name}, nil
}

// List returns every user with the contacts they still own, in the order
// they were created. Ids of deleted contacts are skipped.
func (s *UserService) List(ctx context.Context) ([]UserView, error) {
	users, err := s.Users.List(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	contacts, err := s.Contacts.List(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	byID := make(map[string]entity.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	out := make([]UserView, 0, len(users))
	for _, u := range users {
		v := UserView{ID: u.ID, Username: u.Username, Name: u.Name, Contacts: make([]ContactSummary, 0, len(u.ContactIDs))}
		for _, id := range u.ContactIDs {
			if c, ok := byID[id]; ok {
				v.Contacts = append(v.Contacts, ContactSummary{ID: c.ID, Name: c.Name, Number: c.Number})
			}
		}
		out = append(out, v)
	}
	return out, nil
}
