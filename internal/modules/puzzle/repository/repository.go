package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

// Filter mirrors the list query parameters the delivery layer accepts.
type Filter struct {
	Brand      string
	MinPieces  int
	MaxPieces  int
	Difficulty string
	Condition  string
	CategoryID *uuid.UUID
	Tag        string
	Available  *bool
	IDs        []uuid.UUID
}

type PuzzleRepository interface {
	Create(ctx context.Context, puzzle *entity.Puzzle) error
	Update(ctx context.Context, puzzle *entity.Puzzle) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Puzzle, error)
	FindAll(ctx context.Context, filter Filter, offset, limit int) ([]*entity.Puzzle, int64, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*entity.Puzzle, int64, error)
	AddImage(ctx context.Context, image *entity.PuzzleImage) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}

type puzzleRepository struct {
	db *gorm.DB
}

func NewPuzzleRepository(db *gorm.DB) PuzzleRepository {
	return &puzzleRepository{db: db}
}

func (r *puzzleRepository) Create(ctx context.Context, puzzle *entity.Puzzle) error {
	return r.db.WithContext(ctx).Create(puzzle).Error
}

func (r *puzzleRepository) Update(ctx context.Context, puzzle *entity.Puzzle) error {
	return r.db.WithContext(ctx).Save(puzzle).Error
}

func (r *puzzleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Puzzle{}, "id = ?", id).Error
}

func (r *puzzleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Puzzle, error) {
	var puzzle entity.Puzzle
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("id = ?", id).
		First(&puzzle).Error; err != nil {
		return nil, err
	}
	return &puzzle, nil
}

func (r *puzzleRepository) FindAll(ctx context.Context, filter Filter, offset, limit int) ([]*entity.Puzzle, int64, error) {
	var puzzles []*entity.Puzzle
	var total int64

	query := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Preload("Images")

	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.Brand != "" {
		query = query.Where("brand ILIKE ?", "%"+filter.Brand+"%")
	}
	if filter.MinPieces > 0 {
		query = query.Where("piece_count >= ?", filter.MinPieces)
	}
	if filter.MaxPieces > 0 {
		query = query.Where("piece_count <= ?", filter.MaxPieces)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Condition != "" {
		query = query.Where("condition = ?", filter.Condition)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Tag != "" {
		query = query.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}
	if filter.Available != nil {
		query = query.Where("is_available = ?", *filter.Available)
	}

	if err := query.Model(&entity.Puzzle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&puzzles).Error; err != nil {
		return nil, 0, err
	}

	return puzzles, total, nil
}

func (r *puzzleRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*entity.Puzzle, int64, error) {
	var puzzles []*entity.Puzzle
	var total int64

	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images").
		Where("owner_id = ?", ownerID)

	if err := query.Model(&entity.Puzzle{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&puzzles).Error; err != nil {
		return nil, 0, err
	}

	return puzzles, total, nil
}

func (r *puzzleRepository) AddImage(ctx context.Context, image *entity.PuzzleImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *puzzleRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).Model(&entity.Puzzle{}).
		Where("id = ?", id).
		Update("is_available", available).Error
}
