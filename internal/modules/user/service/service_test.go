package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/user/dto"
	"jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/pkg/apperror"
)

func setupService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))

	return NewAuthService(repository.NewUserRepository(db)), db
}

func TestRegister(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterInput{
		Username: "puzzle fan",
		Email:    "fan@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "puzzle_fan", resp.User.Username)
	assert.Equal(t, entity.RoleMember, resp.User.Role)
	assert.Empty(t, resp.User.PasswordHash)

	var stored entity.User
	require.NoError(t, db.First(&stored, "email = ?", "fan@example.com").Error)
	assert.NotEqual(t, "supersecret", stored.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, dto.RegisterInput{
			Username: "other",
			Email:    "fan@example.com",
			Password: "supersecret",
		})
		require.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, dto.RegisterInput{
			Username: "puzzle_fan",
			Email:    "another@example.com",
			Password: "supersecret",
		})
		require.ErrorIs(t, err, apperror.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "nope"})
		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginInput{Email: "ghost@example.com", Password: "supersecret"})
		require.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("deactivated account", func(t *testing.T) {
		require.NoError(t, db.Model(&entity.User{}).
			Where("email = ?", "alice@example.com").
			Update("is_active", false).Error)

		_, err := svc.Login(ctx, dto.LoginInput{Email: "alice@example.com", Password: "supersecret"})
		require.ErrorIs(t, err, apperror.ErrForbidden)
	})
}
