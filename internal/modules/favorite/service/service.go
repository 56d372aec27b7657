package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/favorite/dto"
	"jigswap.app/jigswap/internal/modules/favorite/repository"
	notifService "jigswap.app/jigswap/internal/modules/notification/service"
	puzzleRepo "jigswap.app/jigswap/internal/modules/puzzle/repository"
	"jigswap.app/jigswap/pkg/apperror"
	commonDto "jigswap.app/jigswap/pkg/dto"
)

type FavoriteService interface {
	Toggle(ctx context.Context, userID, puzzleID uuid.UUID) (*dto.ToggleResult, error)
	ListMine(ctx context.Context, userID uuid.UUID, filter dto.FavoriteFilter) (*dto.FavoriteListResponse, error)
	Count(ctx context.Context, puzzleID uuid.UUID) (int64, error)
}

type favoriteService struct {
	repo          repository.FavoriteRepository
	puzzleRepo    puzzleRepo.PuzzleRepository
	notifications notifService.NotificationService
}

func NewFavoriteService(
	repo repository.FavoriteRepository,
	puzzleRepo puzzleRepo.PuzzleRepository,
	notifications notifService.NotificationService,
) FavoriteService {
	return &favoriteService{
		repo:          repo,
		puzzleRepo:    puzzleRepo,
		notifications: notifications,
	}
}

// Toggle favorites the puzzle, or removes the favorite when it already
// exists. Favoriting someone else's puzzle notifies its owner.
func (s *favoriteService) Toggle(ctx context.Context, userID, puzzleID uuid.UUID) (*dto.ToggleResult, error) {
	puzzle, err := s.puzzleRepo.FindByID(ctx, puzzleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("puzzle")
		}
		return nil, err
	}

	_, err = s.repo.Find(ctx, userID, puzzle.ID)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, userID, puzzle.ID); err != nil {
			return nil, err
		}
		return &dto.ToggleResult{PuzzleID: puzzle.ID.String(), Favorited: false}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, err
	}

	favorite := &entity.Favorite{UserID: userID, PuzzleID: puzzle.ID}
	if err := s.repo.Create(ctx, favorite); err != nil {
		return nil, err
	}

	if puzzle.OwnerID != userID {
		if err := s.notifications.Create(ctx, &entity.Notification{
			UserID:     puzzle.OwnerID,
			ActorID:    userID,
			Type:       entity.NotificationPuzzleFavorited,
			Title:      "Puzzle favorited",
			Message:    fmt.Sprintf("Someone added your puzzle %q to their favorites", puzzle.Title),
			EntityID:   &puzzle.ID,
			EntityType: "puzzle",
		}); err != nil {
			return nil, err
		}
	}

	return &dto.ToggleResult{PuzzleID: puzzle.ID.String(), Favorited: true}, nil
}

func (s *favoriteService) ListMine(ctx context.Context, userID uuid.UUID, filter dto.FavoriteFilter) (*dto.FavoriteListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	favorites, total, err := s.repo.FindByUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &dto.FavoriteListResponse{
		Favorites: favorites,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *favoriteService) Count(ctx context.Context, puzzleID uuid.UUID) (int64, error) {
	return s.repo.CountByPuzzle(ctx, puzzleID)
}
