package service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/stat/dto"
	"jigswap.app/jigswap/internal/modules/stat/repository"
)

const (
	globalStatsKey = "stats:global"
	globalStatsTTL = 5 * time.Minute
)

type StatService interface {
	GetUserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStats, error)
	GetGlobalStats(ctx context.Context) (*dto.GlobalStats, error)
}

type statService struct {
	repo        repository.StatRepository
	redisClient *redis.Client
}

func NewStatService(repo repository.StatRepository, redisClient *redis.Client) StatService {
	return &statService{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (s *statService) GetUserStats(ctx context.Context, userID uuid.UUID) (*dto.UserStats, error) {
	owned, err := s.repo.CountPuzzlesByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	available, err := s.repo.CountPuzzlesByOwner(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CountCompletedTrades(ctx, userID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.repo.RatingsForReviewee(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserStats{
		UserID:           userID,
		PuzzlesOwned:     owned,
		PuzzlesAvailable: available,
		TradesCompleted:  completed,
		TotalReviews:     int64(len(ratings)),
		AverageRating:    averageRating(ratings),
	}, nil
}

// averageRating is the arithmetic mean rounded to one decimal, 0 when the
// user has no reviews.
func averageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

func (s *statService) GetGlobalStats(ctx context.Context) (*dto.GlobalStats, error) {
	if cached := s.readCachedGlobalStats(ctx); cached != nil {
		return cached, nil
	}

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	puzzles, err := s.repo.CountPuzzles(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.repo.CountTradesByStatus(ctx, entity.TradeStatusCompleted)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.CountReviews(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.GlobalStats{
		TotalUsers:           users,
		TotalPuzzles:         puzzles,
		TotalTradesCompleted: completed,
		TotalReviews:         reviews,
	}

	s.cacheGlobalStats(ctx, stats)
	return stats, nil
}

func (s *statService) readCachedGlobalStats(ctx context.Context) *dto.GlobalStats {
	if s.redisClient == nil {
		return nil
	}

	payload, err := s.redisClient.Get(ctx, globalStatsKey).Bytes()
	if err != nil {
		return nil
	}

	var stats dto.GlobalStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *statService) cacheGlobalStats(ctx context.Context, stats *dto.GlobalStats) {
	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	if err := s.redisClient.Set(ctx, globalStatsKey, payload, globalStatsTTL).Err(); err != nil {
		log.Printf("failed to cache global stats: %v", err)
	}
}
