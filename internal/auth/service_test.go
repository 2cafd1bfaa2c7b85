package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/posada-hms/posada/internal/shared"
)

type fakeRepo struct {
	users    map[string]*User
	sessions map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User), sessions: make(map[string]int64)}
}

func (f *fakeRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]User, error) {
	var out []User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeRepo) Create(ctx context.Context, username, passwordHash, name, role string) (*User, error) {
	if _, ok := f.users[username]; ok {
		return nil, shared.ErrDuplicate
	}
	u := &User{ID: int64(len(f.users) + 1), Username: username, PasswordHash: passwordHash, Name: name, Role: role, IsActive: true}
	f.users[username] = u
	return u, nil
}

func (f *fakeRepo) SetActive(ctx context.Context, id int64, active bool) error {
	for _, u := range f.users {
		if u.ID == id {
			u.IsActive = active
			return nil
		}
	}
	return shared.ErrNotFound
}

func (f *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	f.sessions[id] = userID
	return nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) CountUsers(ctx context.Context) (int, error) { return len(f.users), nil }

func seedUser(t *testing.T, repo *fakeRepo, username, password string, active bool) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{ID: int64(len(repo.users) + 1), Username: username, PasswordHash: string(hash), Name: username, Role: RoleReception, IsActive: active}
	repo.users[username] = u
	return u
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	seedUser(t, repo, "reception", "secret123", true)
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "reception", "secret123")
	require.NoError(t, err)
	require.Equal(t, "reception", user.Username)

	_, err = svc.Authenticate(context.Background(), "reception", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost", "secret123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactive(t *testing.T) {
	repo := newFakeRepo()
	seedUser(t, repo, "former", "secret123", false)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "former", "secret123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateUser(context.Background(), "", "secret123", "Name", RoleReception)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateUser(context.Background(), "user", "short", "Name", RoleReception)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateUser(context.Background(), "user", "secret123", "Name", "owner")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	user, err := svc.CreateUser(context.Background(), "clerk", "secret123", "Front Desk", RoleReception)
	require.NoError(t, err)
	require.NotEqual(t, "secret123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	_, err = svc.CreateUser(context.Background(), "clerk", "secret123", "Front Desk", RoleReception)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}
