package dto

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	NameEN        string `json:"name_en" binding:"required,max=100"`
	NameNL        string `json:"name_nl" binding:"required,max=100"`
	DescriptionEN string `json:"description_en"`
	DescriptionNL string `json:"description_nl"`
	Color         string `json:"color" binding:"omitempty,max=20"`
}

type UpdateCategoryRequest struct {
	NameEN        *string `json:"name_en" binding:"omitempty,max=100"`
	NameNL        *string `json:"name_nl" binding:"omitempty,max=100"`
	DescriptionEN *string `json:"description_en"`
	DescriptionNL *string `json:"description_nl"`
	Color         *string `json:"color" binding:"omitempty,max=20"`
	IsActive      *bool   `json:"is_active"`
}

type ReorderCategoriesRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

type CategoryFilter struct {
	ActiveOnly bool `form:"active_only"`
}

// CategoryResponse carries the name/description localized for the request
// locale alongside the raw bilingual fields for the admin panel.
type CategoryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	NameEN        string    `json:"name_en"`
	NameNL        string    `json:"name_nl"`
	DescriptionEN string    `json:"description_en"`
	DescriptionNL string    `json:"description_nl"`
	Slug          string    `json:"slug"`
	Color         string    `json:"color"`
	IsActive      bool      `json:"is_active"`
	SortOrder     int       `json:"sort_order"`
}
