package dto

import (
	"jigswap.app/jigswap/internal/entity"
	commonDto "jigswap.app/jigswap/pkg/dto"
)

type CreateReviewInput struct {
	TradeRequestID      string `json:"trade_request_id" binding:"required,uuid"`
	Rating              int    `json:"rating" binding:"required,min=1,max=5"`
	CommunicationRating int    `json:"communication_rating" binding:"required,min=1,max=5"`
	ConditionRating     int    `json:"condition_rating" binding:"required,min=1,max=5"`
	PackagingRating     int    `json:"packaging_rating" binding:"required,min=1,max=5"`
	PunctualityRating   int    `json:"punctuality_rating" binding:"required,min=1,max=5"`
	Comment             string `json:"comment" binding:"max=2000"`
}

type ReviewFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ReviewListResponse struct {
	Reviews []entity.Review          `json:"data"`
	Meta    commonDto.PaginationMeta `json:"meta"`
}
