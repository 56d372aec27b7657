package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/favorite/dto"
	"jigswap.app/jigswap/internal/modules/favorite/repository"
	notifRepo "jigswap.app/jigswap/internal/modules/notification/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	puzzleRepo "jigswap.app/jigswap/internal/modules/puzzle/repository"
	"jigswap.app/jigswap/pkg/apperror"
)

type favoriteFixture struct {
	db     *gorm.DB
	svc    FavoriteService
	owner  *entity.User
	fan    *entity.User
	puzzle *entity.Puzzle
}

func newFavoriteFixture(t *testing.T) *favoriteFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Puzzle{},
		&entity.PuzzleImage{},
		&entity.Favorite{},
		&entity.Notification{},
	))

	f := &favoriteFixture{db: db}
	f.svc = NewFavoriteService(
		repository.NewFavoriteRepository(db),
		puzzleRepo.NewPuzzleRepository(db),
		notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), nil),
	)

	f.owner = seedUser(t, db, "owner")
	f.fan = seedUser(t, db, "fan")

	f.puzzle = &entity.Puzzle{
		OwnerID:     f.owner.ID,
		Title:       "Lighthouse",
		PieceCount:  750,
		Difficulty:  entity.DifficultyMedium,
		Condition:   entity.ConditionGood,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(f.puzzle).Error)
	return f
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         entity.RoleMember,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestToggleFavorite(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()

	result, err := f.svc.Toggle(ctx, f.fan.ID, f.puzzle.ID)
	require.NoError(t, err)
	assert.True(t, result.Favorited)

	count, err := f.svc.Count(ctx, f.puzzle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// the owner is told about the new fan
	var notifications []entity.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationPuzzleFavorited, notifications[0].Type)

	t.Run("second toggle removes", func(t *testing.T) {
		result, err := f.svc.Toggle(ctx, f.fan.ID, f.puzzle.ID)
		require.NoError(t, err)
		assert.False(t, result.Favorited)

		count, err := f.svc.Count(ctx, f.puzzle.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing puzzle", func(t *testing.T) {
		_, err := f.svc.Toggle(ctx, f.fan.ID, uuid.New())
		require.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestToggleOwnPuzzleSkipsNotification(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()

	result, err := f.svc.Toggle(ctx, f.owner.ID, f.puzzle.ID)
	require.NoError(t, err)
	assert.True(t, result.Favorited)

	var count int64
	require.NoError(t, f.db.Model(&entity.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestListMineFavorites(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, f.fan.ID, f.puzzle.ID)
	require.NoError(t, err)

	result, err := f.svc.ListMine(ctx, f.fan.ID, dto.FavoriteFilter{})
	require.NoError(t, err)
	require.Len(t, result.Favorites, 1)
	assert.Equal(t, f.puzzle.ID, result.Favorites[0].PuzzleID)
	assert.Equal(t, "Lighthouse", result.Favorites[0].Puzzle.Title)

	empty, err := f.svc.ListMine(ctx, f.owner.ID, dto.FavoriteFilter{})
	require.NoError(t, err)
	assert.Empty(t, empty.Favorites)
}
