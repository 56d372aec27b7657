package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	msgRepo "jigswap.app/jigswap/internal/modules/message/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	puzzleRepo "jigswap.app/jigswap/internal/modules/puzzle/repository"
	"jigswap.app/jigswap/internal/modules/trade/dto"
	"jigswap.app/jigswap/internal/modules/trade/repository"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/internal/policy"
	"jigswap.app/jigswap/internal/ratelimit"
	"jigswap.app/jigswap/pkg/apperror"
	commonDto "jigswap.app/jigswap/pkg/dto"
)

// createTradeLimit throttles how often a user can open new trade requests.
const (
	createTradeLimit  = 10 * time.Second
	createTradeAction = "create_trade"
)

type TradeService interface {
	Create(ctx context.Context, requesterID uuid.UUID, input dto.CreateTradeInput) (*entity.TradeRequest, error)
	Respond(ctx context.Context, userID, tradeID uuid.UUID, input dto.RespondTradeInput) (*entity.TradeRequest, error)
	Complete(ctx context.Context, userID, tradeID uuid.UUID, input dto.CompleteTradeInput) (*entity.TradeRequest, error)
	Cancel(ctx context.Context, userID, tradeID uuid.UUID) (*entity.TradeRequest, error)
	Get(ctx context.Context, userID, tradeID uuid.UUID) (*entity.TradeRequest, error)
	List(ctx context.Context, userID uuid.UUID, filter dto.TradeFilter) (*dto.TradeListResponse, error)
}

type tradeService struct {
	repo          repository.TradeRepository
	puzzleRepo    puzzleRepo.PuzzleRepository
	userRepo      userRepo.UserRepository
	messageRepo   msgRepo.MessageRepository
	notifications notifService.NotificationService
	redisClient   *redis.Client
}

func NewTradeService(
	repo repository.TradeRepository,
	puzzleRepo puzzleRepo.PuzzleRepository,
	userRepo userRepo.UserRepository,
	messageRepo msgRepo.MessageRepository,
	notifications notifService.NotificationService,
	redisClient *redis.Client,
) TradeService {
	return &tradeService{
		repo:          repo,
		puzzleRepo:    puzzleRepo,
		userRepo:      userRepo,
		messageRepo:   messageRepo,
		notifications: notifications,
		redisClient:   redisClient,
	}
}

func (s *tradeService) Create(ctx context.Context, requesterID uuid.UUID, input dto.CreateTradeInput) (*entity.TradeRequest, error) {
	allowed, err := ratelimit.CheckAndSet(ctx, s.redisClient, requesterID, createTradeAction, createTradeLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if wait, ttlErr := ratelimit.TTL(ctx, s.redisClient, requesterID, createTradeAction); ttlErr == nil && wait > 0 {
			return nil, fmt.Errorf("try again in %s: %w", wait.Round(time.Second), apperror.ErrRateLimitExceeded)
		}
		return nil, apperror.ErrRateLimitExceeded
	}

	trade, err := s.create(ctx, requesterID, input)
	if err != nil {
		// Rejected requests release the slot.
		if clearErr := ratelimit.Clear(ctx, s.redisClient, requesterID, createTradeAction); clearErr != nil {
			log.Printf("failed to clear trade rate limit for %s: %v", requesterID, clearErr)
		}
		return nil, err
	}
	return trade, nil
}

func (s *tradeService) create(ctx context.Context, requesterID uuid.UUID, input dto.CreateTradeInput) (*entity.TradeRequest, error) {
	ownerPuzzleID, err := uuid.Parse(input.OwnerPuzzleID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	ownerPuzzle, err := s.puzzleRepo.FindByID(ctx, ownerPuzzleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("puzzle")
		}
		return nil, err
	}

	if ownerPuzzle.OwnerID == requesterID {
		return nil, fmt.Errorf("cannot request a trade for your own puzzle: %w", apperror.ErrBadRequest)
	}
	if !ownerPuzzle.IsAvailable {
		return nil, apperror.Conflict("puzzle is not available for trade")
	}

	trade := &entity.TradeRequest{
		RequesterID:   requesterID,
		OwnerID:       ownerPuzzle.OwnerID,
		OwnerPuzzleID: ownerPuzzle.ID,
		Status:        entity.TradeStatusPending,
		Message:       input.Message,
		ProposedDate:  input.ProposedDate,
	}

	if input.OfferedPuzzleID != nil {
		offeredID, err := uuid.Parse(*input.OfferedPuzzleID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		offered, err := s.puzzleRepo.FindByID(ctx, offeredID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("offered puzzle")
			}
			return nil, err
		}
		if offered.OwnerID != requesterID {
			return nil, fmt.Errorf("offered puzzle belongs to another user: %w", apperror.ErrForbidden)
		}
		if !offered.IsAvailable {
			return nil, apperror.Conflict("offered puzzle is not available for trade")
		}
		trade.OfferedPuzzleID = &offered.ID
	}

	exists, err := s.repo.HasPendingFor(ctx, requesterID, ownerPuzzle.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("a pending trade request for this puzzle already exists")
	}

	if err := s.repo.Create(ctx, trade); err != nil {
		return nil, err
	}

	if err := s.notify(ctx, trade.OwnerID, requesterID, entity.NotificationTradeCreated,
		"New trade request",
		fmt.Sprintf("Someone wants to trade for your puzzle %q", ownerPuzzle.Title),
		trade.ID); err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, trade.ID)
}

// Respond accepts or declines a pending trade request. Only the puzzle
// owner may respond. Accepting takes both puzzles off the market and opens
// the conversation with a system message.
func (s *tradeService) Respond(ctx context.Context, userID, tradeID uuid.UUID, input dto.RespondTradeInput) (*entity.TradeRequest, error) {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, policy.ActionRespondTrade, trade); err != nil {
		return nil, err
	}

	target := entity.TradeStatusDeclined
	if input.Accept {
		target = entity.TradeStatusAccepted
	}
	if !entity.CanTransition(trade.Status, target) {
		return nil, apperror.InvalidTransition(trade.Status, target)
	}

	trade.Status = target
	trade.ResponseMessage = input.ResponseMessage
	if err := s.repo.Update(ctx, trade); err != nil {
		return nil, err
	}

	if input.Accept {
		if err := s.setPuzzlesAvailability(ctx, trade, false); err != nil {
			return nil, err
		}
		systemMsg := &entity.Message{
			TradeRequestID: trade.ID,
			SenderID:       trade.OwnerID,
			ReceiverID:     trade.RequesterID,
			Content:        "Trade request accepted. Use this conversation to arrange the exchange.",
			Type:           entity.MessageTypeSystem,
		}
		if err := s.messageRepo.Create(ctx, systemMsg); err != nil {
			return nil, err
		}
	}

	notifType := entity.NotificationTradeDeclined
	title := "Trade request declined"
	body := fmt.Sprintf("Your trade request for %q was declined", trade.OwnerPuzzle.Title)
	if input.Accept {
		notifType = entity.NotificationTradeAccepted
		title = "Trade request accepted"
		body = fmt.Sprintf("Your trade request for %q was accepted", trade.OwnerPuzzle.Title)
	}
	if err := s.notify(ctx, trade.RequesterID, userID, notifType, title, body, trade.ID); err != nil {
		return nil, err
	}

	return trade, nil
}

// Complete marks an accepted trade as carried out. Either participant may
// confirm completion.
func (s *tradeService) Complete(ctx context.Context, userID, tradeID uuid.UUID, input dto.CompleteTradeInput) (*entity.TradeRequest, error) {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, policy.ActionCompleteTrade, trade); err != nil {
		return nil, err
	}

	if !entity.CanTransition(trade.Status, entity.TradeStatusCompleted) {
		return nil, apperror.InvalidTransition(trade.Status, entity.TradeStatusCompleted)
	}

	trade.Status = entity.TradeStatusCompleted
	if input.ActualDate != nil {
		trade.ActualDate = input.ActualDate
	} else {
		now := time.Now()
		trade.ActualDate = &now
	}
	trade.ShippingMethod = input.ShippingMethod
	trade.TrackingNumber = input.TrackingNumber

	if err := s.repo.Update(ctx, trade); err != nil {
		return nil, err
	}

	if err := s.notify(ctx, s.counterpart(trade, userID), userID, entity.NotificationTradeCompleted,
		"Trade completed",
		fmt.Sprintf("The trade for %q has been marked as completed", trade.OwnerPuzzle.Title),
		trade.ID); err != nil {
		return nil, err
	}

	return trade, nil
}

// Cancel withdraws a trade request that has not reached a terminal state.
// Cancelling an accepted trade puts both puzzles back on the market.
func (s *tradeService) Cancel(ctx context.Context, userID, tradeID uuid.UUID) (*entity.TradeRequest, error) {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, userID, policy.ActionCancelTrade, trade); err != nil {
		return nil, err
	}

	if !entity.CanTransition(trade.Status, entity.TradeStatusCancelled) {
		return nil, apperror.InvalidTransition(trade.Status, entity.TradeStatusCancelled)
	}

	wasAccepted := trade.Status == entity.TradeStatusAccepted
	trade.Status = entity.TradeStatusCancelled
	if err := s.repo.Update(ctx, trade); err != nil {
		return nil, err
	}

	if wasAccepted {
		if err := s.setPuzzlesAvailability(ctx, trade, true); err != nil {
			return nil, err
		}
	}

	if err := s.notify(ctx, s.counterpart(trade, userID), userID, entity.NotificationTradeCancelled,
		"Trade cancelled",
		fmt.Sprintf("The trade request for %q was cancelled", trade.OwnerPuzzle.Title),
		trade.ID); err != nil {
		return nil, err
	}

	return trade, nil
}

func (s *tradeService) Get(ctx context.Context, userID, tradeID uuid.UUID) (*entity.TradeRequest, error) {
	trade, err := s.findTrade(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, policy.ActionViewTrade, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *tradeService) List(ctx context.Context, userID uuid.UUID, filter dto.TradeFilter) (*dto.TradeListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	trades, total, err := s.repo.FindByUser(ctx, userID, filter.Direction, filter.Status, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &dto.TradeListResponse{
		Trades: trades,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *tradeService) findTrade(ctx context.Context, id uuid.UUID) (*entity.TradeRequest, error) {
	trade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("trade request")
		}
		return nil, err
	}
	return trade, nil
}

func (s *tradeService) authorize(ctx context.Context, userID uuid.UUID, action policy.Action, trade *entity.TradeRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperror.NotFound("user")
	}
	decision := policy.AllowTrade(policy.Subject{UserID: user.ID, Role: user.Role}, action, trade)
	if !decision.Allowed {
		return apperror.New(0, decision.Reason, apperror.ErrForbidden)
	}
	return nil
}

// counterpart returns the other participant of the trade.
func (s *tradeService) counterpart(trade *entity.TradeRequest, userID uuid.UUID) uuid.UUID {
	if trade.RequesterID == userID {
		return trade.OwnerID
	}
	return trade.RequesterID
}

func (s *tradeService) setPuzzlesAvailability(ctx context.Context, trade *entity.TradeRequest, available bool) error {
	if err := s.puzzleRepo.SetAvailability(ctx, trade.OwnerPuzzleID, available); err != nil {
		return err
	}
	if trade.OfferedPuzzleID != nil {
		return s.puzzleRepo.SetAvailability(ctx, *trade.OfferedPuzzleID, available)
	}
	return nil
}

// notify records the event and pushes it to the recipient. Trade
// transitions are not confirmed until their notification row exists.
func (s *tradeService) notify(ctx context.Context, recipientID, actorID uuid.UUID, notifType, title, body string, tradeID uuid.UUID) error {
	return s.notifications.Create(ctx, &entity.Notification{
		UserID:     recipientID,
		ActorID:    actorID,
		Type:       notifType,
		Title:      title,
		Message:    body,
		EntityID:   &tradeID,
		EntityType: "trade_request",
	})
}
