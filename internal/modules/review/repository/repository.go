package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByReviewee(ctx context.Context, revieweeID uuid.UUID, offset, limit int) ([]entity.Review, int64, error)
	FindByTradeRequest(ctx context.Context, tradeRequestID uuid.UUID) ([]entity.Review, error)
	ExistsForReviewer(ctx context.Context, tradeRequestID, reviewerID uuid.UUID) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByReviewee(ctx context.Context, revieweeID uuid.UUID, offset, limit int) ([]entity.Review, int64, error) {
	var reviews []entity.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("reviewee_id = ?", revieweeID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Reviewer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) FindByTradeRequest(ctx context.Context, tradeRequestID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	err := r.db.WithContext(ctx).
		Where("trade_request_id = ?", tradeRequestID).
		Preload("Reviewer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ExistsForReviewer(ctx context.Context, tradeRequestID, reviewerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("trade_request_id = ? AND reviewer_id = ?", tradeRequestID, reviewerID).
		Count(&count).Error
	return count > 0, err
}
