package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/domain/apperr"
	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	repo "github.com/LeeyaD/phonebook-server/internal/domain/repository"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// ContactIndex is a full-text index over contacts. Search returns contact ids
// ordered by relevance.
type ContactIndex interface {
	Index(ctx context.Context, c entity.Contact) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// OwnerView is the public projection of a contact's owner.
// When the owner no longer resolves it serializes as the bare owner id.
type OwnerView struct {
	ID       string
	Username string
	Name     string
	Resolved bool
}

func (o OwnerView) MarshalJSON() ([]byte, error) {
	if !o.Resolved {
		return json.Marshal(o.ID)
	}
	return json.Marshal(struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
	}{o.ID, o.Username, o.Name})
}

func ownerOf(u entity.User) OwnerView {
	return OwnerView{ID: u.ID, Username: u.Username, Name: u.Name, Resolved: true}
}

type ContactView struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Number string    `json:"number"`
	User   OwnerView `json:"user"`
}

// ContactPatch holds the fields of an update. Nil fields keep their stored value.
type ContactPatch struct {
	Name   *string `json:"name"`
	Number *string `json:"number"`
}

type ContactService struct {
	Contacts  repo.ContactRepository
	Users     repo.UserRepository
	Tx        repo.TxManager
	Validator *ContactValidator
	Index     ContactIndex // optional
	Logger    *logrus.Logger

	now func() time.Time
}

func NewContactService(store repo.Store, logger *logrus.Logger) *ContactService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	tx := store.Tx
	if tx == nil {
		tx = repo.NoTx{}
	}
	return &ContactService{
		Contacts:  store.Contacts,
		Users:     store.Users,
		Tx:        tx,
		Validator: NewContactValidator(),
		Logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every contact with its owner, regardless of caller.
func (s *ContactService) List(ctx context.Context) ([]ContactView, error) {
	contacts, err := s.Contacts.List(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return s.views(ctx, contacts)
}

func (s *ContactService) Get(ctx context.Context, id string) (ContactView, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return ContactView{}, err
	}
	return s.view(ctx, *c)
}

// Create persists a contact owned by the caller and records it on the
// caller's contact list. Both writes share one transaction when the store
// supports it.
func (s *ContactService) Create(ctx context.Context, uc UserContext, in ContactInput) (ContactView, error) {
	if uc.User.ID == "" {
		return ContactView{}, ErrMissingToken
	}
	if err := s.Validator.Validate(in); err != nil {
		return ContactView{}, err
	}

	now := s.now()
	c := entity.Contact{
		ID:        entity.NewID(),
		Name:      in.Name,
		Number:    in.Number,
		OwnerID:   uc.User.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Contacts.Create(ctx, &c); err != nil {
			return err
		}
		return s.Users.AppendContact(ctx, uc.User.ID, c.ID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ContactView{}, ErrUnknownUser.WithCause(err)
		}
		s.Logger.WithError(err).WithField("user_id", uc.User.ID).Error("create contact failed")
		return ContactView{}, storeFailure(err)
	}

	s.indexContact(ctx, c)
	s.Logger.WithFields(logrus.Fields{"contact_id": c.ID, "user_id": uc.User.ID}).Info("contact created")
	return ContactView{ID: c.ID, Name: c.Name, Number: c.Number, User: ownerOf(uc.User)}, nil
}

// Update replaces name and number. Any caller may update any contact;
// callers other than the owner are only logged. caller may be nil.
func (s *ContactService) Update(ctx context.Context, caller *UserContext, id string, patch ContactPatch) (ContactView, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return ContactView{}, err
	}

	in := ContactInput{Name: c.Name, Number: c.Number}
	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Number != nil {
		in.Number = *patch.Number
	}
	if err := s.Validator.Validate(in); err != nil {
		return ContactView{}, err
	}

	if caller == nil || caller.User.ID != c.OwnerID {
		fields := logrus.Fields{"contact_id": c.ID, "owner_id": c.OwnerID}
		if caller != nil {
			fields["user_id"] = caller.User.ID
		}
		s.Logger.WithFields(fields).Warn("contact updated by non-owner")
	}

	c.Name, c.Number, c.UpdatedAt = in.Name, in.Number, s.now()
	if err := s.Contacts.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ContactView{}, ErrContactNotFound
		}
		return ContactView{}, storeFailure(err)
	}

	s.indexContact(ctx, *c)
	return s.view(ctx, *c)
}

// Delete removes a contact owned by the caller. The owner's contact list
// keeps the id.
func (s *ContactService) Delete(ctx context.Context, uc UserContext, id string) error {
	if uc.User.ID == "" {
		return ErrMissingToken
	}
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if c.OwnerID != uc.User.ID {
		return ErrNotOwner
	}
	if err := s.Contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrContactNotFound
		}
		return storeFailure(err)
	}

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("contact_id", id).Warn("contact index remove failed")
		}
	}
	s.Logger.WithFields(logrus.Fields{"contact_id": id, "user_id": uc.User.ID}).Info("contact deleted")
	return nil
}

// Search matches q against contact names and numbers. The index is used when
// configured; otherwise, or when it fails, the store is scanned.
func (s *ContactService) Search(ctx context.Context, q string, size int) ([]ContactView, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}

	if s.Index != nil {
		ids, err := s.Index.Search(ctx, q, size)
		if err == nil {
			return s.byIDs(ctx, ids)
		}
		s.Logger.WithError(err).Warn("contact index search failed; scanning store")
	}

	all, err := s.Contacts.List(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	needle := strings.ToLower(q)
	matched := make([]entity.Contact, 0, size)
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.Number, q) {
			matched = append(matched, c)
			if len(matched) == size {
				break
			}
		}
	}
	return s.views(ctx, matched)
}

// Reindex pushes every stored contact to the index.
func (s *ContactService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	all, err := s.Contacts.List(ctx)
	if err != nil {
		return 0, storeFailure(err)
	}
	for _, c := range all {
		if err := s.Index.Index(ctx, c); err != nil {
			return 0, apperr.Internal("index_failure", err)
		}
	}
	return len(all), nil
}

func (s *ContactService) load(ctx context.Context, id string) (*entity.Contact, error) {
	if !entity.IsValidID(id) {
		return nil, ErrMalformedID
	}
	c, err := s.Contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, storeFailure(err)
	}
	return c, nil
}

func (s *ContactService) byIDs(ctx context.Context, ids []string) ([]ContactView, error) {
	contacts := make([]entity.Contact, 0, len(ids))
	for _, id := range ids {
		c, err := s.Contacts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue // stale index entry
			}
			return nil, storeFailure(err)
		}
		contacts = append(contacts, *c)
	}
	return s.views(ctx, contacts)
}

func (s *ContactService) view(ctx context.Context, c entity.Contact) (ContactView, error) {
	out, err := s.views(ctx, []entity.Contact{c})
	if err != nil {
		return ContactView{}, err
	}
	return out[0], nil
}

func (s *ContactService) views(ctx context.Context, contacts []entity.Contact) ([]ContactView, error) {
	ownerIDs := make([]string, 0, len(contacts))
	seen := make(map[string]struct{}, len(contacts))
	for _, c := range contacts {
		if _, ok := seen[c.OwnerID]; ok {
			continue
		}
		seen[c.OwnerID] = struct{}{}
		ownerIDs = append(ownerIDs, c.OwnerID)
	}

	owners := map[string]entity.User{}
	if len(ownerIDs) > 0 {
		users, err := s.Users.GetByIDs(ctx, ownerIDs)
		if err != nil {
			return nil, storeFailure(err)
		}
		for _, u := range users {
			owners[u.ID] = u
		}
	}

	out := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		v := ContactView{ID: c.ID, Name: c.Name, Number: c.Number, User: OwnerView{ID: c.OwnerID}}
		if u, ok := owners[c.OwnerID]; ok {
			v.User = ownerOf(u)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *ContactService) indexContact(ctx context.Context, c entity.Contact) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, c); err != nil {
		s.Logger.WithError(err).WithField("contact_id", c.ID).Warn("contact index failed")
	}
}
