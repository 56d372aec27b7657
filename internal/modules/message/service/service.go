package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/message/dto"
	"jigswap.app/jigswap/internal/modules/message/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	tradeRepo "jigswap.app/jigswap/internal/modules/trade/repository"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/internal/policy"
	"jigswap.app/jigswap/pkg/apperror"
)

type MessageService interface {
	Send(ctx context.Context, senderID, tradeID uuid.UUID, input dto.SendMessageInput) (*entity.Message, error)
	ListByTrade(ctx context.Context, userID, tradeID uuid.UUID, filter dto.MessageFilter) ([]entity.Message, error)
	MarkRead(ctx context.Context, userID, tradeID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type messageService struct {
	repo          repository.MessageRepository
	tradeRepo     tradeRepo.TradeRepository
	userRepo      userRepo.UserRepository
	notifications notifService.NotificationService
	sanitizer     *bluemonday.Policy
}

func NewMessageService(
	repo repository.MessageRepository,
	tradeRepo tradeRepo.TradeRepository,
	userRepo userRepo.UserRepository,
	notifications notifService.NotificationService,
) MessageService {
	return &messageService{
		repo:          repo,
		tradeRepo:     tradeRepo,
		userRepo:      userRepo,
		notifications: notifications,
		sanitizer:     bluemonday.StrictPolicy(),
	}
}

// Send posts a text message into a trade conversation. Conversations on
// declined and cancelled trades are closed; completed trades stay open so
// the parties can follow up after the exchange.
func (s *messageService) Send(ctx context.Context, senderID, tradeID uuid.UUID, input dto.SendMessageInput) (*entity.Message, error) {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, senderID, trade); err != nil {
		return nil, err
	}

	if trade.Status == entity.TradeStatusDeclined || trade.Status == entity.TradeStatusCancelled {
		return nil, apperror.Conflict("conversation is closed for this trade request")
	}

	receiverID := trade.OwnerID
	if senderID == trade.OwnerID {
		receiverID = trade.RequesterID
	}

	message := &entity.Message{
		TradeRequestID: trade.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        s.sanitizer.Sanitize(input.Content),
		Type:           entity.MessageTypeText,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, &entity.Notification{
		UserID:     receiverID,
		ActorID:    senderID,
		Type:       entity.NotificationMessageReceived,
		Title:      "New message",
		Message:    fmt.Sprintf("You received a message about the trade for %q", trade.OwnerPuzzle.Title),
		EntityID:   &trade.ID,
		EntityType: "trade_request",
	}); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *messageService) ListByTrade(ctx context.Context, userID, tradeID uuid.UUID, filter dto.MessageFilter) ([]entity.Message, error) {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, trade); err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}

	return s.repo.FindByTradeRequest(ctx, trade.ID, limit, (page-1)*limit)
}

func (s *messageService) MarkRead(ctx context.Context, userID, tradeID uuid.UUID) error {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, userID, trade); err != nil {
		return err
	}

	return s.repo.MarkAsRead(ctx, trade.ID, userID)
}

func (s *messageService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *messageService) findTrade(ctx context.Context, id uuid.UUID) (*entity.TradeRequest, error) {
	trade, err := s.tradeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("trade request")
		}
		return nil, err
	}
	return trade, nil
}

func (s *messageService) authorize(ctx context.Context, userID uuid.UUID, trade *entity.TradeRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperror.NotFound("user")
	}
	decision := policy.AllowTrade(policy.Subject{UserID: user.ID, Role: user.Role}, policy.ActionMessageTrade, trade)
	if !decision.Allowed {
		return apperror.New(0, decision.Reason, apperror.ErrForbidden)
	}
	return nil
}
