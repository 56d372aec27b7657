package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *entity.TradeRequest) error
	Update(ctx context.Context, trade *entity.TradeRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TradeRequest, error)
	FindByUser(ctx context.Context, userID uuid.UUID, direction, status string, offset, limit int) ([]*entity.TradeRequest, int64, error)
	HasPendingFor(ctx context.Context, requesterID, ownerPuzzleID uuid.UUID) (bool, error)
}

type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *entity.TradeRequest) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *tradeRepository) Update(ctx context.Context, trade *entity.TradeRequest) error {
	return r.db.WithContext(ctx).Save(trade).Error
}

func (r *tradeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TradeRequest, error) {
	var trade entity.TradeRequest
	if err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Owner").
		Preload("OwnerPuzzle").
		Preload("OwnerPuzzle.Images").
		Preload("OfferedPuzzle").
		Preload("OfferedPuzzle.Images").
		Where("id = ?", id).
		First(&trade).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) FindByUser(ctx context.Context, userID uuid.UUID, direction, status string, offset, limit int) ([]*entity.TradeRequest, int64, error) {
	var trades []*entity.TradeRequest
	var total int64

	query := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Owner").
		Preload("OwnerPuzzle").
		Preload("OfferedPuzzle")

	switch direction {
	case "incoming":
		query = query.Where("owner_id = ?", userID)
	case "outgoing":
		query = query.Where("requester_id = ?", userID)
	default:
		query = query.Where("requester_id = ? OR owner_id = ?", userID, userID)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Model(&entity.TradeRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&trades).Error; err != nil {
		return nil, 0, err
	}

	return trades, total, nil
}

// HasPendingFor reports whether the requester already has an open request
// for this puzzle, so duplicates are rejected before insert.
func (r *tradeRepository) HasPendingFor(ctx context.Context, requesterID, ownerPuzzleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.TradeRequest{}).
		Where("requester_id = ? AND owner_puzzle_id = ? AND status = ?", requesterID, ownerPuzzleID, entity.TradeStatusPending).
		Count(&count).Error
	return count > 0, err
}
