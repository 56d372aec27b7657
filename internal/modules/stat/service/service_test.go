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
	"jigswap.app/jigswap/internal/modules/stat/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Puzzle{},
		&entity.PuzzleImage{},
		&entity.TradeRequest{},
		&entity.Review{},
	))

	return db
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

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, averageRating(nil))
	assert.Equal(t, 0.0, averageRating([]int{}))
	assert.Equal(t, 4.0, averageRating([]int{4, 5, 3}))
	assert.Equal(t, 4.5, averageRating([]int{4, 5}))
	assert.Equal(t, 3.7, averageRating([]int{3, 4, 4}))
	assert.Equal(t, 5.0, averageRating([]int{5}))
}

func TestGetUserStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatService(repository.NewStatRepository(db), nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	t.Run("no activity", func(t *testing.T) {
		stats, err := svc.GetUserStats(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.PuzzlesOwned)
		assert.Equal(t, int64(0), stats.TradesCompleted)
		assert.Equal(t, int64(0), stats.TotalReviews)
		assert.Equal(t, 0.0, stats.AverageRating)
	})

	puzzleA := &entity.Puzzle{OwnerID: alice.ID, Title: "Alps", PieceCount: 1000, Difficulty: entity.DifficultyMedium, Condition: entity.ConditionGood, IsAvailable: true}
	require.NoError(t, db.Create(puzzleA).Error)
	puzzleB := &entity.Puzzle{OwnerID: alice.ID, Title: "Tulips", PieceCount: 500, Difficulty: entity.DifficultyEasy, Condition: entity.ConditionNew, IsAvailable: false}
	require.NoError(t, db.Create(puzzleB).Error)

	trade := &entity.TradeRequest{
		RequesterID:   bob.ID,
		OwnerID:       alice.ID,
		OwnerPuzzleID: puzzleA.ID,
		Status:        entity.TradeStatusCompleted,
	}
	require.NoError(t, db.Create(trade).Error)

	for _, rating := range []int{4, 5, 3} {
		review := &entity.Review{
			TradeRequestID:      uuid.New(),
			ReviewerID:          uuid.New(),
			RevieweeID:          alice.ID,
			Rating:              rating,
			CommunicationRating: rating,
			ConditionRating:     rating,
			PackagingRating:     rating,
			PunctualityRating:   rating,
		}
		require.NoError(t, db.Create(review).Error)
	}

	stats, err := svc.GetUserStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PuzzlesOwned)
	assert.Equal(t, int64(1), stats.PuzzlesAvailable)
	assert.Equal(t, int64(1), stats.TradesCompleted)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.Equal(t, 4.0, stats.AverageRating)
}

func TestGetGlobalStats(t *testing.T) {
	db := setupTestDB(t)
	svc := NewStatService(repository.NewStatRepository(db), nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	puzzle := &entity.Puzzle{OwnerID: alice.ID, Title: "Alps", PieceCount: 1000, Difficulty: entity.DifficultyMedium, Condition: entity.ConditionGood, IsAvailable: true}
	require.NoError(t, db.Create(puzzle).Error)

	stats, err := svc.GetGlobalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalPuzzles)
	assert.Equal(t, int64(0), stats.TotalTradesCompleted)
	assert.Equal(t, int64(0), stats.TotalReviews)
}
