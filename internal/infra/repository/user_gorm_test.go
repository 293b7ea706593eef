package repository_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	infra "app/internal/infra/repository"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *model.User {
	now := time.Now()
	return &model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Password:  "hashed",
		Role:      model.RoleUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserGormRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewUserGormRepository(db)

	u := newUser("a@example.com")
	require.NoError(t, r.Create(ctx, u))

	byEmail, err := r.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "a@example.com", byID.Email)
}

func TestUserGormRepository_FindByEmail_MissingIsNilNil(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewUserGormRepository(db)

	// 未登録は(nil, nil)。エラーにはしない。
	u, err := r.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserGormRepository_FindByID_Missing(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewUserGormRepository(db)

	_, err := r.FindByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestUserGormRepository_Create_DuplicateEmailIsConflict(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewUserGormRepository(db)

	require.NoError(t, r.Create(ctx, newUser("a@example.com")))

	err := r.Create(ctx, newUser("a@example.com"))
	assert.ErrorIs(t, err, repo.ErrConflict)
}
