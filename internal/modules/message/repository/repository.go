package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindByTradeRequest(ctx context.Context, tradeRequestID uuid.UUID, limit, offset int) ([]entity.Message, error)
	MarkAsRead(ctx context.Context, tradeRequestID, receiverID uuid.UUID) error
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *entity.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByTradeRequest(ctx context.Context, tradeRequestID uuid.UUID, limit, offset int) ([]entity.Message, error) {
	var messages []entity.Message
	err := r.db.WithContext(ctx).
		Where("trade_request_id = ?", tradeRequestID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Preload("Sender", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar_url")
		}).
		Find(&messages).Error
	return messages, err
}

// MarkAsRead flips the read flag on everything addressed to the receiver
// inside one conversation.
func (r *messageRepository) MarkAsRead(ctx context.Context, tradeRequestID, receiverID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("trade_request_id = ? AND receiver_id = ? AND is_read = ?", tradeRequestID, receiverID, false).
		Update("is_read", true).Error
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}
