package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.AdminCategory) error
	Update(ctx context.Context, category *entity.AdminCategory) error
	FindBySlug(ctx context.Context, slug string) (*entity.AdminCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminCategory, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.AdminCategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error
	MaxSortOrder(ctx context.Context) (int, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.AdminCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.AdminCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.AdminCategory, error) {
	var category entity.AdminCategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AdminCategory, error) {
	var category entity.AdminCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.AdminCategory, error) {
	var categories []*entity.AdminCategory
	query := r.db.WithContext(ctx).Order("sort_order asc")

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.AdminCategory{}, "id = ?", id).Error
}

// UpdateSortOrders writes the new positions in one transaction so a reorder
// is applied whole or not at all.
func (r *categoryRepository) UpdateSortOrders(ctx context.Context, orders map[uuid.UUID]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, order := range orders {
			if err := tx.Model(&entity.AdminCategory{}).
				Where("id = ?", id).
				Update("sort_order", order).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *categoryRepository) MaxSortOrder(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&entity.AdminCategory{}).
		Select("MAX(sort_order)").Scan(&max).Error
	if err != nil || max == nil {
		return -1, err
	}
	return *max, nil
}
