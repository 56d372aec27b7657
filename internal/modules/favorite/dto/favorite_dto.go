package dto

import (
	"jigswap.app/jigswap/internal/entity"
	commonDto "jigswap.app/jigswap/pkg/dto"
)

type ToggleResult struct {
	PuzzleID  string `json:"puzzle_id"`
	Favorited bool   `json:"favorited"`
}

type FavoriteFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type FavoriteListResponse struct {
	Favorites []entity.Favorite        `json:"data"`
	Meta      commonDto.PaginationMeta `json:"meta"`
}
