package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

type StatRepository interface {
	CountPuzzlesByOwner(ctx context.Context, ownerID uuid.UUID, availableOnly bool) (int64, error)
	CountCompletedTrades(ctx context.Context, userID uuid.UUID) (int64, error)
	RatingsForReviewee(ctx context.Context, revieweeID uuid.UUID) ([]int, error)
	CountUsers(ctx context.Context) (int64, error)
	CountPuzzles(ctx context.Context) (int64, error)
	CountTradesByStatus(ctx context.Context, status string) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) CountPuzzlesByOwner(ctx context.Context, ownerID uuid.UUID, availableOnly bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Puzzle{}).Where("owner_id = ?", ownerID)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountCompletedTrades counts completed trades where the user took part on
// either side. A single trade row matches at most once, so requester-side
// and owner-side participation never double count.
func (r *statRepository) CountCompletedTrades(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TradeRequest{}).
		Where("status = ?", entity.TradeStatusCompleted).
		Where("requester_id = ? OR owner_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}

func (r *statRepository) RatingsForReviewee(ctx context.Context, revieweeID uuid.UUID) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).Model(&entity.Review{}).
		Where("reviewee_id = ?", revieweeID).
		Pluck("rating", &ratings).Error
	return ratings, err
}

func (r *statRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (r *statRepository) CountPuzzles(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Puzzle{}).Count(&count).Error
	return count, err
}

func (r *statRepository) CountTradesByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TradeRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *statRepository) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Review{}).Count(&count).Error
	return count, err
}
