package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/entity"
	"henryedu.com/henryplatform/internal/modules/user/dto"
	"henryedu.com/henryplatform/internal/modules/user/repository"
	"henryedu.com/henryplatform/pkg/apperror"
)

type memoryUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	u, ok := r.users[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memoryUserRepo) NamesByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names[id] = u.FullName
		}
	}
	return names, nil
}

func (r *memoryUserRepo) Update(_ context.Context, u *entity.User) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *memoryUserRepo) Stats(_ context.Context) (*repository.RoleStats, error) {
	return &repository.RoleStats{}, nil
}

const testSecret = "test-secret"

func newTestAuthService() (AuthService, *memoryUserRepo) {
	repo := newMemoryUserRepo()
	return NewAuthService(repo, testSecret, time.Hour), repo
}

func registerInput() dto.RegisterInput {
	return dto.RegisterInput{
		Email:    "ana@henry.edu",
		Password: "secreta123",
		FullName: "Ana Torres",
		Role:     "estudiante",
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "ana@henry.edu", resp.User.Email)
	assert.Equal(t, entity.RoleStudent, resp.User.Role)
	assert.True(t, resp.User.IsActive)
	assert.Empty(t, resp.User.PasswordHash)

	// The token subject must round-trip back to the user.
	token, err := jwt.ParseWithClaims(resp.AccessToken, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, resp.User.ID.String(), claims.Subject)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	input := registerInput()
	input.Email = "no-es-un-email"
	_, err := svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	input = registerInput()
	input.Role = "director"
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	// Same address with different casing still collides.
	input := registerInput()
	input.Email = "ANA@henry.edu"
	_, err = svc.Register(ctx, input)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginInput{Email: "ana@henry.edu", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "ana@henry.edu", Password: "incorrecta"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "nadie@henry.edu", Password: "secreta123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	// Deactivated accounts cannot log in even with the right password.
	user := repo.users[registered.User.ID]
	user.IsActive = false
	_, err = svc.Login(ctx, dto.LoginInput{Email: "ana@henry.edu", Password: "secreta123"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	userID := registered.User.ID.String()

	err = svc.ChangePassword(ctx, userID, dto.ChangePasswordInput{
		CurrentPassword: "equivocada",
		NewPassword:     "nueva123",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	err = svc.ChangePassword(ctx, userID, dto.ChangePasswordInput{
		CurrentPassword: "secreta123",
		NewPassword:     "nueva123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginInput{Email: "ana@henry.edu", Password: "secreta123"})
	assert.Error(t, err)
	_, err = svc.Login(ctx, dto.LoginInput{Email: "ana@henry.edu", Password: "nueva123"})
	assert.NoError(t, err)
}

func TestVerifyUser(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	user, err := svc.VerifyUser(ctx, registered.User.ID.String())
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)

	_, err = svc.VerifyUser(ctx, uuid.New().String())
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	repo.users[registered.User.ID].IsActive = false
	_, err = svc.VerifyUser(ctx, registered.User.ID.String())
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestDemoAccounts(t *testing.T) {
	svc, _ := newTestAuthService()

	accounts := svc.DemoAccounts()
	require.Len(t, accounts, 3)
	for _, account := range accounts {
		assert.Equal(t, "demo123", account.Password)
		assert.Contains(t, account.Email, "@henry.edu")
	}
}
