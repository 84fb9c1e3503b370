package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	byID map[string]*User
}

func newMemRepo() *memRepo { return &memRepo{byID: map[string]*User{}} }

func (m *memRepo) CreateUser(_ context.Context, u *User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	m.byID[u.ID.String()] = u
	return nil
}

func (m *memRepo) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) GetUserByID(_ context.Context, id string) (*User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *memRepo) UpdateRoles(_ context.Context, id string, roles []string) error {
	u, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.Roles = roles
	return nil
}

func TestRegisterUser(t *testing.T) {
	svc := NewService(newMemRepo(), zap.NewNop())

	u, err := svc.RegisterUser(context.Background(), RegisterRequest{
		Email: " Asha@Example.com ", Password: "correct horse", FullName: "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, []string{RoleUser}, u.Roles)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")))

	_, err = svc.RegisterUser(context.Background(), RegisterRequest{Email: "asha@example.com", Password: "another one"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterUser_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), zap.NewNop())

	_, err := svc.RegisterUser(context.Background(), RegisterRequest{Email: "nope", Password: "long enough"})
	assert.Error(t, err)

	_, err = svc.RegisterUser(context.Background(), RegisterRequest{Email: "a@b.co", Password: "short"})
	assert.Error(t, err)
}

func TestGrantRole(t *testing.T) {
	repo := newMemRepo()
	id := uuid.New()
	repo.byID[id.String()] = &User{ID: id, Roles: []string{RoleUser}}
	svc := NewService(repo, zap.NewNop())

	u, err := svc.GrantRole(context.Background(), id.String(), RoleBusiness)
	require.NoError(t, err)
	assert.True(t, u.HasRole(RoleBusiness))

	u, err = svc.GrantRole(context.Background(), id.String(), RoleBusiness)
	require.NoError(t, err)
	assert.Len(t, u.Roles, 2)

	_, err = svc.GrantRole(context.Background(), uuid.NewString(), RoleBusiness)
	assert.ErrorIs(t, err, ErrNotFound)
}
