package puzzle

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	categoryRepo "jigswap.app/jigswap/internal/modules/category/repository"
	"jigswap.app/jigswap/internal/modules/puzzle/dto"
	"jigswap.app/jigswap/internal/modules/puzzle/repository"
	search "jigswap.app/jigswap/internal/modules/search/service"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
	"jigswap.app/jigswap/internal/policy"
	"jigswap.app/jigswap/pkg/apperror"
	commonDto "jigswap.app/jigswap/pkg/dto"
	"jigswap.app/jigswap/pkg/storage"
)

type ListResult struct {
	Puzzles []*entity.Puzzle         `json:"data"`
	Meta    commonDto.PaginationMeta `json:"meta"`
}

type PuzzleService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input dto.CreatePuzzleInput) (*entity.Puzzle, error)
	Update(ctx context.Context, userID uuid.UUID, puzzleID uuid.UUID, input dto.UpdatePuzzleInput) (*entity.Puzzle, error)
	Delete(ctx context.Context, userID uuid.UUID, puzzleID uuid.UUID) error
	Get(ctx context.Context, puzzleID uuid.UUID) (*entity.Puzzle, error)
	List(ctx context.Context, filter dto.PuzzleFilter) (*ListResult, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) (*ListResult, error)
	UploadImage(ctx context.Context, userID, puzzleID uuid.UUID, file dto.ImageFile) (*entity.PuzzleImage, error)
}

type puzzleService struct {
	repo         repository.PuzzleRepository
	categoryRepo categoryRepo.CategoryRepository
	userRepo     userRepo.UserRepository
	imageStorage storage.ImageStorage
	search       search.SearchService
}

func NewPuzzleService(
	repo repository.PuzzleRepository,
	categoryRepo categoryRepo.CategoryRepository,
	userRepo userRepo.UserRepository,
	imageStorage storage.ImageStorage,
	searchSvc search.SearchService,
) PuzzleService {
	return &puzzleService{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		imageStorage: imageStorage,
		search:       searchSvc,
	}
}

func (s *puzzleService) Create(ctx context.Context, ownerID uuid.UUID, input dto.CreatePuzzleInput) (*entity.Puzzle, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, apperror.NotFound("user")
	}

	puzzle := &entity.Puzzle{
		OwnerID:     owner.ID,
		Title:       input.Title,
		Description: input.Description,
		Brand:       input.Brand,
		PieceCount:  input.PieceCount,
		Difficulty:  input.Difficulty,
		Condition:   input.Condition,
		Tags:        input.Tags,
		IsAvailable: true,
		AcquiredAt:  input.AcquiredAt,
		Notes:       input.Notes,
	}

	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, apperror.NotFound("category")
		}
		puzzle.CategoryID = &categoryID
	}

	if err := s.repo.Create(ctx, puzzle); err != nil {
		return nil, err
	}

	puzzle.Owner = *owner
	s.indexPuzzle(puzzle)

	return puzzle, nil
}

func (s *puzzleService) Update(ctx context.Context, userID uuid.UUID, puzzleID uuid.UUID, input dto.UpdatePuzzleInput) (*entity.Puzzle, error) {
	puzzle, err := s.findPuzzle(ctx, puzzleID)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if decision := policy.AllowPuzzle(subject, policy.ActionUpdatePuzzle, puzzle); !decision.Allowed {
		return nil, apperror.New(0, decision.Reason, apperror.ErrForbidden)
	}

	if input.Title != nil && *input.Title != "" {
		puzzle.Title = *input.Title
	}
	if input.Description != nil {
		puzzle.Description = *input.Description
	}
	if input.Brand != nil {
		puzzle.Brand = *input.Brand
	}
	if input.PieceCount != nil {
		puzzle.PieceCount = *input.PieceCount
	}
	if input.Difficulty != nil && *input.Difficulty != "" {
		puzzle.Difficulty = *input.Difficulty
	}
	if input.Condition != nil && *input.Condition != "" {
		puzzle.Condition = *input.Condition
	}
	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, apperror.NotFound("category")
		}
		puzzle.CategoryID = &categoryID
	}
	if input.Tags != nil {
		puzzle.Tags = input.Tags
	}
	if input.IsAvailable != nil {
		puzzle.IsAvailable = *input.IsAvailable
	}
	if input.IsCompleted != nil {
		puzzle.IsCompleted = *input.IsCompleted
	}
	if input.CompletedAt != nil {
		puzzle.CompletedAt = input.CompletedAt
	}
	if input.Notes != nil {
		puzzle.Notes = input.Notes
	}

	if err := s.repo.Update(ctx, puzzle); err != nil {
		return nil, err
	}

	s.indexPuzzle(puzzle)
	return puzzle, nil
}

func (s *puzzleService) Delete(ctx context.Context, userID uuid.UUID, puzzleID uuid.UUID) error {
	puzzle, err := s.findPuzzle(ctx, puzzleID)
	if err != nil {
		return err
	}

	subject, err := s.subjectFor(ctx, userID)
	if err != nil {
		return err
	}
	if decision := policy.AllowPuzzle(subject, policy.ActionDeletePuzzle, puzzle); !decision.Allowed {
		return apperror.New(0, decision.Reason, apperror.ErrForbidden)
	}

	// Remove stored photos; failures here must not block the delete.
	if s.imageStorage != nil {
		for _, img := range puzzle.Images {
			if err := s.imageStorage.DeleteImage(ctx, img.URL); err != nil {
				log.Printf("failed to delete puzzle image %s: %v", img.ID, err)
			}
		}
	}

	if err := s.repo.Delete(ctx, puzzleID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeletePuzzle(puzzleID.String()); err != nil {
			log.Printf("failed to remove puzzle %s from search index: %v", puzzleID, err)
		}
	}

	return nil
}

func (s *puzzleService) Get(ctx context.Context, puzzleID uuid.UUID) (*entity.Puzzle, error) {
	return s.findPuzzle(ctx, puzzleID)
}

func (s *puzzleService) List(ctx context.Context, filter dto.PuzzleFilter) (*ListResult, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	repoFilter := repository.Filter{
		Brand:      filter.Brand,
		MinPieces:  filter.MinPieces,
		MaxPieces:  filter.MaxPieces,
		Difficulty: filter.Difficulty,
		Condition:  filter.Condition,
		Tag:        filter.Tag,
		Available:  filter.Available,
	}

	if filter.CategoryID != "" {
		categoryID, err := uuid.Parse(filter.CategoryID)
		if err != nil {
			return nil, apperror.ErrInvalidInput
		}
		repoFilter.CategoryID = &categoryID
	}

	// Free-text search goes through Meilisearch; the hits constrain the
	// DB query so filters and pagination still apply.
	if filter.Search != "" && s.search != nil {
		hitIDs, err := s.search.SearchPuzzles(filter.Search, filter.CategoryID, 200)
		if err != nil {
			log.Printf("puzzle search failed, falling back to DB scan: %v", err)
		} else {
			if len(hitIDs) == 0 {
				return &ListResult{
					Puzzles: []*entity.Puzzle{},
					Meta:    commonDto.PaginationMeta{CurrentPage: page, Limit: limit},
				}, nil
			}
			ids := make([]uuid.UUID, 0, len(hitIDs))
			for _, raw := range hitIDs {
				if id, err := uuid.Parse(raw); err == nil {
					ids = append(ids, id)
				}
			}
			repoFilter.IDs = ids
		}
	}

	puzzles, total, err := s.repo.FindAll(ctx, repoFilter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Puzzles: puzzles,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *puzzleService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	puzzles, total, err := s.repo.FindByOwnerID(ctx, ownerID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Puzzles: puzzles,
		Meta: commonDto.PaginationMeta{
			CurrentPage: page,
			TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
			TotalItems:  total,
			Limit:       limit,
		},
	}, nil
}

func (s *puzzleService) UploadImage(ctx context.Context, userID, puzzleID uuid.UUID, file dto.ImageFile) (*entity.PuzzleImage, error) {
	puzzle, err := s.findPuzzle(ctx, puzzleID)
	if err != nil {
		return nil, err
	}

	subject, err := s.subjectFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if decision := policy.AllowPuzzle(subject, policy.ActionUpdatePuzzle, puzzle); !decision.Allowed {
		return nil, apperror.New(0, decision.Reason, apperror.ErrForbidden)
	}

	if s.imageStorage == nil {
		return nil, apperror.ErrInternal
	}

	url, err := s.imageStorage.UploadImage(ctx, file.Reader, "puzzles", file.FileName)
	if err != nil {
		return nil, err
	}

	image := &entity.PuzzleImage{
		PuzzleID: puzzle.ID,
		URL:      url,
		IsMain:   file.IsMain,
		Position: len(puzzle.Images),
	}

	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, err
	}

	return image, nil
}

func (s *puzzleService) findPuzzle(ctx context.Context, id uuid.UUID) (*entity.Puzzle, error) {
	puzzle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("puzzle")
		}
		return nil, err
	}
	return puzzle, nil
}

func (s *puzzleService) subjectFor(ctx context.Context, userID uuid.UUID) (policy.Subject, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return policy.Subject{}, apperror.NotFound("user")
	}
	return policy.Subject{UserID: user.ID, Role: user.Role}, nil
}

func (s *puzzleService) indexPuzzle(puzzle *entity.Puzzle) {
	if s.search == nil {
		return
	}
	if err := s.search.IndexPuzzle(puzzle); err != nil {
		log.Printf("failed to index puzzle %s: %v", puzzle.ID, err)
	}
}
