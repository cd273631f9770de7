package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	repo "github.com/LeeyaD/phonebook-server/internal/domain/repository"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

const testSecret = "test-secret"

// memUsers is an in-memory UserRepository. Set a *Func field to override
// one method.
type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	order []string

	getByIDFunc       func(ctx context.Context, id string) (*entity.User, error)
	appendContactFunc func(ctx context.Context, userID, contactID string) error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*entity.User{}}
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == u.Username {
			return repo.ErrDuplicateUsername
		}
	}
	cp := *u
	cp.ContactIDs = append([]string(nil), u.ContactIDs...)
	m.byID[u.ID] = &cp
	m.order = append(m.order, u.ID)
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	cp.ContactIDs = append([]string(nil), u.ContactIDs...)
	return &cp, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := m.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) List(ctx context.Context) ([]entity.User, error) {
	m.mu.Lock()
	ids := append([]string(nil), m.order...)
	m.mu.Unlock()
	return m.GetByIDs(ctx, ids)
}

func (m *memUsers) AppendContact(ctx context.Context, userID, contactID string) error {
	if m.appendContactFunc != nil {
		return m.appendContactFunc(ctx, userID, contactID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.ContactIDs = append(u.ContactIDs, contactID)
	return nil
}

func (m *memUsers) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = map[string]*entity.User{}
	m.order = nil
	return nil
}

type memContacts struct {
	mu   sync.Mutex
	byID map[string]entity.Contact

	listFunc func(ctx context.Context) ([]entity.Contact, error)
}

func newMemContacts() *memContacts {
	return &memContacts{byID: map[string]entity.Contact{}}
}

func (m *memContacts) Create(_ context.Context, c *entity.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[c.ID] = *c
	return nil
}

func (m *memContacts) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (m *memContacts) List(ctx context.Context) ([]entity.Contact, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Contact, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memContacts) Update(_ context.Context, c *entity.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name, cur.Number, cur.UpdatedAt = c.Name, c.Number, c.UpdatedAt
	m.byID[c.ID] = cur
	return nil
}

func (m *memContacts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memContacts) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = map[string]entity.Contact{}
	return nil
}

func (m *memContacts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// fakeIndex matches by substring over what it was given.
type fakeIndex struct {
	mu       sync.Mutex
	docs     map[string]entity.Contact
	searchFn func(ctx context.Context, q string, size int) ([]string, error)
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]entity.Contact{}}
}

func (f *fakeIndex) Index(_ context.Context, c entity.Contact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[c.ID] = c
	return nil
}

func (f *fakeIndex) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, q, size)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, c := range f.docs {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(q)) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > size {
		ids = ids[:size]
	}
	return ids, nil
}

type fixture struct {
	users    *memUsers
	contacts *memContacts
	store    repo.Store
	auth     *Authenticator
	authz    *Authorizer
	contactS *ContactService
	userS    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMemUsers()
	contacts := newMemContacts()
	store := repo.Store{Users: users, Contacts: contacts, Tx: repo.NoTx{}}
	auth := NewAuthenticator(helpers.NewJWTManager(testSecret, time.Hour))

	us := NewUserService(store, auth, nil)
	us.BcryptCost = 4

	return &fixture{
		users:    users,
		contacts: contacts,
		store:    store,
		auth:     auth,
		authz:    NewAuthorizer(users),
		contactS: NewContactService(store, nil),
		userS:    us,
	}
}

// register creates a user and returns its context and a bearer header.
func (f *fixture) register(t *testing.T, username string) (UserContext, string) {
	t.Helper()
	v, err := f.userS.Register(context.Background(), RegisterInput{Username: username, Name: strings.ToUpper(username), Password: "sekret"})
	require.NoError(t, err)
	u, err := f.users.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	token, err := f.auth.Issue(u)
	require.NoError(t, err)
	return UserContext{User: *u}, "Bearer " + token
}
