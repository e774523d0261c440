package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// mockUserRepo implements repositories.UserRepository for testing.
type mockUserRepo struct {
	users    map[string]*models.User
	nextID   int64
	affected int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.Email]; ok {
		return apperrors.ErrEmailTaken
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) Update(_ context.Context, _ int64, _ *models.UserUpdate) (int64, error) {
	return m.affected, nil
}

func (m *mockUserRepo) Delete(_ context.Context, _ int64) (int64, error) {
	return m.affected, nil
}

func newTestAccountService(repo *mockUserRepo) AccountService {
	tokens := auth.NewService("test-secret", time.Hour, nil, zap.NewNop())
	return NewAccountService(repo, tokens, bcrypt.MinCost, zap.NewNop())
}

func TestAccountService_Register_Valid(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAccountService(repo)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "kaffe@example.com",
		Name:     "Kaffe",
		Password: "correct horse",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
}

func TestAccountService_Register_MissingAttributes(t *testing.T) {
	tests := []struct {
		name      string
		req       *RegisterRequest
		wantField string
	}{
		{"no email", &RegisterRequest{Name: "N", Password: "p"}, "email"},
		{"no password", &RegisterRequest{Email: "a@b.c", Name: "N"}, "password"},
		{"no name", &RegisterRequest{Email: "a@b.c", Password: "p"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAccountService(newMockUserRepo())

			_, err := svc.Register(context.Background(), tt.req)

			var ve *apperrors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAccountService(repo)

	req := &RegisterRequest{Email: "kaffe@example.com", Name: "Kaffe", Password: "pw"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
}

func TestAccountService_Login_Valid(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAccountService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "kaffe@example.com",
		Name:     "Kaffe",
		Password: "correct horse",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "kaffe@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "kaffe@example.com", user.Email)
	assert.NotEmpty(t, token)
}

func TestAccountService_Login_WrongCredentialsIndistinguishable(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAccountService(repo)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    "kaffe@example.com",
		Name:     "Kaffe",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), "kaffe@example.com", "wrong")
	_, _, wrongEmail := svc.Login(context.Background(), "nobody@example.com", "correct horse")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongEmail, apperrors.ErrInvalidCredentials)
}

func TestAccountService_Update_Empty(t *testing.T) {
	repo := newMockUserRepo()
	repo.affected = 1
	svc := newTestAccountService(repo)

	_, err := svc.Update(context.Background(), 1, &UpdateAccountRequest{})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonEmptyUpdate, ve.Reason)
}

func TestAccountService_Update_EmptyPasswordRejected(t *testing.T) {
	repo := newMockUserRepo()
	repo.affected = 1
	svc := newTestAccountService(repo)

	empty := ""
	_, err := svc.Update(context.Background(), 1, &UpdateAccountRequest{Password: &empty})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)
	assert.Equal(t, apperrors.ReasonMissingField, ve.Reason)
}
