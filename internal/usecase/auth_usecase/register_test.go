package auth_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type fakeHasher struct{}

func (h *fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type fakeIDGen struct{ id string }

func (g *fakeIDGen) NewID() string { return g.id }

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newRegisterUsecase(repo *UserRepoMock) *auth.RegisterUserUsecase {
	return auth.NewRegisterUserUsecase(
		repo,
		&fakeHasher{},
		&fakeIDGen{id: "44444444-4444-4444-4444-444444444444"},
		&fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
}

func TestRegisterUserUsecase_InvalidInput(t *testing.T) {
	ctx := context.Background()
	uc := newRegisterUsecase(new(UserRepoMock))

	_, err := uc.Execute(ctx, auth.RegisterUserInput{Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)

	_, err = uc.Execute(ctx, auth.RegisterUserInput{Email: "", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)

	// 6文字未満はNG
	_, err = uc.Execute(ctx, auth.RegisterUserInput{Email: "a@example.com", Password: "12345"})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)

	_, err = uc.Execute(ctx, auth.RegisterUserInput{Email: "a@example.com", Password: "secret1", Role: "SUPERADMIN"})
	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestRegisterUserUsecase_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repoMock := new(UserRepoMock)
	uc := newRegisterUsecase(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "a@example.com").
		Return(&model.User{ID: "existing", Email: "a@example.com"}, nil)

	_, err := uc.Execute(ctx, auth.RegisterUserInput{Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegisterUserUsecase_RaceLostAtStore(t *testing.T) {
	ctx := context.Background()
	repoMock := new(UserRepoMock)
	uc := newRegisterUsecase(repoMock)

	// 事前チェックは通るが、保存時に一意制約で負ける
	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return((*model.User)(nil), nil)
	repoMock.On("Create", mock.Anything, mock.Anything).Return(repository.ErrConflict)

	_, err := uc.Execute(ctx, auth.RegisterUserInput{Email: "a@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegisterUserUsecase_OK(t *testing.T) {
	ctx := context.Background()
	repoMock := new(UserRepoMock)
	uc := newRegisterUsecase(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "a@example.com").Return((*model.User)(nil), nil)
	repoMock.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 平文ではなくハッシュが保存されること
		return u.Email == "a@example.com" &&
			u.Password == "hashed:secret1" &&
			u.Role == model.RoleUser &&
			u.IsActive &&
			u.ID != ""
	})).Return(nil)

	user, err := uc.Execute(ctx, auth.RegisterUserInput{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	// 返却値にはパスワードを含めない
	assert.Empty(t, user.Password)
	assert.Equal(t, model.RoleUser, user.Role)

	repoMock.AssertExpectations(t)
}

func TestRegisterUserUsecase_ExplicitAdminRole(t *testing.T) {
	ctx := context.Background()
	repoMock := new(UserRepoMock)
	uc := newRegisterUsecase(repoMock)

	repoMock.On("FindByEmail", mock.Anything, "admin@example.com").Return((*model.User)(nil), nil)
	repoMock.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleAdmin
	})).Return(nil)

	user, err := uc.Execute(ctx, auth.RegisterUserInput{Email: "admin@example.com", Password: "secret1", Role: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestBcryptPasswordHasher_RoundTrip(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(4) // テストなので最小コスト
	verifier := auth.NewBcryptPasswordVerifier()

	hashed, err := hasher.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.True(t, verifier.Verify("secret1", hashed))
	assert.False(t, verifier.Verify("wrongpass", hashed))
}
