package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	"jigswap.app/jigswap/internal/modules/review/dto"
	"jigswap.app/jigswap/internal/modules/review/repository"
	tradeRepo "jigswap.app/jigswap/internal/modules/trade/repository"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/internal/policy"
	"jigswap.app/jigswap/pkg/apperror"
	commonDto "jigswap.app/jigswap/pkg/dto"
)

type ReviewService interface {
	Create(ctx context.Context, reviewerID uuid.UUID, input dto.CreateReviewInput) (*entity.Review, error)
	ListByUser(ctx context.Context, revieweeID uuid.UUID, filter dto.ReviewFilter) (*dto.ReviewListResponse, error)
	ListByTrade(ctx context.Context, userID, tradeID uuid.UUID) ([]entity.Review, error)
}

type reviewService struct {
	repo          repository.ReviewRepository
	tradeRepo     tradeRepo.TradeRepository
	userRepo      userRepo.UserRepository
	notifications notifService.NotificationService
}

func NewReviewService(
	repo repository.ReviewRepository,
	tradeRepo tradeRepo.TradeRepository,
	userRepo userRepo.UserRepository,
	notifications notifService.NotificationService,
) ReviewService {
	return &reviewService{
		repo:          repo,
		tradeRepo:     tradeRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Create records a review about the other participant of a completed trade.
// Each participant reviews at most once per trade.
func (s *reviewService) Create(ctx context.Context, reviewerID uuid.UUID, input dto.CreateReviewInput) (*entity.Review, error) {
	tradeID, err := uuid.Parse(input.TradeRequestID)
	if err != nil {
		return nil, apperror.ErrInvalidInput
	}

	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("trade request")
		}
		return nil, err
	}

	if err := s.authorize(ctx, reviewerID, trade); err != nil {
		return nil, err
	}

	if trade.Status != entity.TradeStatusCompleted {
		return nil, fmt.Errorf("only completed trades can be reviewed: %w", apperror.ErrBadRequest)
	}

	exists, err := s.repo.ExistsForReviewer(ctx, trade.ID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("you already reviewed this trade")
	}

	revieweeID := trade.OwnerID
	if reviewerID == trade.OwnerID {
		revieweeID = trade.RequesterID
	}

	review := &entity.Review{
		TradeRequestID:      trade.ID,
		ReviewerID:          reviewerID,
		RevieweeID:          revieweeID,
		Rating:              input.Rating,
		CommunicationRating: input.CommunicationRating,
		ConditionRating:     input.ConditionRating,
		PackagingRating:     input.PackagingRating,
		PunctualityRating:   input.PunctualityRating,
	}
	if input.Comment != "" {
		review.Comment = &input.Comment
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.notifications.Create(ctx, &entity.Notification{
		UserID:     revieweeID,
		ActorID:    reviewerID,
		Type:       entity.NotificationReviewReceived,
		Title:      "New review",
		Message:    fmt.Sprintf("You received a %d-star review for the trade of %q", input.Rating, trade.OwnerPuzzle.Title),
		EntityID:   &review.ID,
		EntityType: "review",
	}); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) ListByUser(ctx context.Context, revieweeID uuid.UUID, filter dto.ReviewFilter) (*dto.ReviewListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	reviews, total, err := s.repo.FindByReviewee(ctx, revieweeID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &dto.ReviewListResponse{
		Reviews: reviews,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *reviewService) ListByTrade(ctx context.Context, userID, tradeID uuid.UUID) ([]entity.Review, error) {
	trade, err := s.tradeRepo.FindByID(ctx, tradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("trade request")
		}
		return nil, err
	}

	if err := s.authorize(ctx, userID, trade); err != nil {
		return nil, err
	}

	return s.repo.FindByTradeRequest(ctx, trade.ID)
}

func (s *reviewService) authorize(ctx context.Context, userID uuid.UUID, trade *entity.TradeRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperror.NotFound("user")
	}
	decision := policy.AllowTrade(policy.Subject{UserID: user.ID, Role: user.Role}, policy.ActionReviewTrade, trade)
	if !decision.Allowed {
		return apperror.New(0, decision.Reason, apperror.ErrForbidden)
	}
	return nil
}
