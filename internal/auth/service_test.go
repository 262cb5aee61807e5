package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/razao-erp/razao-erp/internal/shared"
)

type fakeUserRepo struct {
	users    map[string]*User
	sessions map[string]int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*User{}, sessions: map[string]int64{}}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	f.sessions[id] = userID
	return nil
}

func (f *fakeUserRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func addUser(t *testing.T, repo *fakeUserRepo, email, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users[email] = &User{ID: int64(len(repo.users) + 1), Email: email, PasswordHash: string(hash), IsActive: active}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "user@razao.local", "s3nha-forte", true)
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "user@razao.local", "s3nha-forte")
	require.NoError(t, err)
	require.Equal(t, "user@razao.local", user.Email)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "user@razao.local", "s3nha-forte", true)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "user@razao.local", "errada")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	_, err := svc.Authenticate(context.Background(), "ghost@razao.local", "whatever1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	addUser(t, repo, "user@razao.local", "s3nha-forte", false)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "user@razao.local", "s3nha-forte")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestSessionLifecycle(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	require.NoError(t, svc.RegisterSession(context.Background(), "fp", 1, time.Now().Add(time.Hour), "127.0.0.1", "go-test"))
	require.Contains(t, repo.sessions, "fp")
	require.NoError(t, svc.RemoveSession(context.Background(), "fp"))
	require.NotContains(t, repo.sessions, "fp")
}
