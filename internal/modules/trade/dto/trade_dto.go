package dto

import (
	"time"

	"jigswap.app/jigswap/internal/entity"
	commonDto "jigswap.app/jigswap/pkg/dto"
)

type CreateTradeInput struct {
	OwnerPuzzleID   string     `json:"owner_puzzle_id" binding:"required,uuid"`
	OfferedPuzzleID *string    `json:"offered_puzzle_id" binding:"omitempty,uuid"`
	Message         string     `json:"message" binding:"max=2000"`
	ProposedDate    *time.Time `json:"proposed_date"`
}

type RespondTradeInput struct {
	Accept          bool    `json:"accept"`
	ResponseMessage *string `json:"response_message" binding:"omitempty,max=2000"`
}

type CompleteTradeInput struct {
	ActualDate     *time.Time `json:"actual_date"`
	ShippingMethod *string    `json:"shipping_method" binding:"omitempty,max=50"`
	TrackingNumber *string    `json:"tracking_number" binding:"omitempty,max=100"`
}

type TradeFilter struct {
	// Direction: "incoming", "outgoing" or "all".
	Direction string `form:"direction" binding:"omitempty,oneof=incoming outgoing all"`
	Status    string `form:"status" binding:"omitempty,oneof=pending accepted declined completed cancelled"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type TradeListResponse struct {
	Trades []*entity.TradeRequest   `json:"data"`
	Meta   commonDto.PaginationMeta `json:"meta"`
}
