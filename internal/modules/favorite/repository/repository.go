package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

type FavoriteRepository interface {
	Create(ctx context.Context, favorite *entity.Favorite) error
	Delete(ctx context.Context, userID, puzzleID uuid.UUID) error
	Find(ctx context.Context, userID, puzzleID uuid.UUID) (*entity.Favorite, error)
	FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]entity.Favorite, int64, error)
	CountByPuzzle(ctx context.Context, puzzleID uuid.UUID) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *entity.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, puzzleID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).
		Delete(&entity.Favorite{}).Error
}

func (r *favoriteRepository) Find(ctx context.Context, userID, puzzleID uuid.UUID) (*entity.Favorite, error) {
	var favorite entity.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND puzzle_id = ?", userID, puzzleID).
		First(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *favoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]entity.Favorite, int64, error) {
	var favorites []entity.Favorite
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Favorite{}).
		Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Puzzle").
		Preload("Puzzle.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&favorites).Error
	return favorites, total, err
}

func (r *favoriteRepository) CountByPuzzle(ctx context.Context, puzzleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Favorite{}).
		Where("puzzle_id = ?", puzzleID).
		Count(&count).Error
	return count, err
}
