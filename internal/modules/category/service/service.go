package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	"jigswap.app/jigswap/internal/modules/category/dto"
	"jigswap.app/jigswap/internal/modules/category/repository"
	"jigswap.app/jigswap/pkg/apperror"
)

type CategoryService interface {
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*entity.AdminCategory, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*entity.AdminCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
	List(ctx context.Context, filter dto.CategoryFilter, locale string) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*entity.AdminCategory, error) {
	slug := strings.ReplaceAll(strings.ToLower(req.NameEN), " ", "-")

	existing, _ := s.repo.FindBySlug(ctx, slug)
	if existing != nil {
		return nil, apperror.Conflict("category with name " + req.NameEN + " already exists")
	}

	// New categories go to the end of the ordering.
	maxOrder, err := s.repo.MaxSortOrder(ctx)
	if err != nil {
		return nil, err
	}

	category := &entity.AdminCategory{
		NameEN:        req.NameEN,
		NameNL:        req.NameNL,
		DescriptionEN: req.DescriptionEN,
		DescriptionNL: req.DescriptionNL,
		Slug:          slug,
		Color:         req.Color,
		IsActive:      true,
		SortOrder:     maxOrder + 1,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*entity.AdminCategory, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category")
		}
		return nil, err
	}

	if req.NameEN != nil && *req.NameEN != "" {
		category.NameEN = *req.NameEN
	}
	if req.NameNL != nil && *req.NameNL != "" {
		category.NameNL = *req.NameNL
	}
	if req.DescriptionEN != nil {
		category.DescriptionEN = *req.DescriptionEN
	}
	if req.DescriptionNL != nil {
		category.DescriptionNL = *req.DescriptionNL
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category")
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}

// Reorder assigns sequential sort orders matching the position of each id
// in the given array. Last write wins, no concurrency control.
func (s *categoryService) Reorder(ctx context.Context, ids []uuid.UUID) error {
	orders := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("category " + id.String())
			}
			return err
		}
		orders[id] = i
	}

	return s.repo.UpdateSortOrders(ctx, orders)
}

func (s *categoryService) List(ctx context.Context, filter dto.CategoryFilter, locale string) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx, filter.ActiveOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		responses = append(responses, dto.CategoryResponse{
			ID:            cat.ID,
			Name:          cat.LocalizedName(locale),
			Description:   cat.LocalizedDescription(locale),
			NameEN:        cat.NameEN,
			NameNL:        cat.NameNL,
			DescriptionEN: cat.DescriptionEN,
			DescriptionNL: cat.DescriptionNL,
			Slug:          cat.Slug,
			Color:         cat.Color,
			IsActive:      cat.IsActive,
			SortOrder:     cat.SortOrder,
		})
	}

	return responses, nil
}
