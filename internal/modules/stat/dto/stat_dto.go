package dto

import "github.com/google/uuid"

type UserStats struct {
	UserID           uuid.UUID `json:"user_id"`
	PuzzlesOwned     int64     `json:"puzzles_owned"`
	PuzzlesAvailable int64     `json:"puzzles_available"`
	TradesCompleted  int64     `json:"trades_completed"`
	TotalReviews     int64     `json:"total_reviews"`
	AverageRating    float64   `json:"average_rating"`
}

type GlobalStats struct {
	TotalUsers           int64 `json:"total_users"`
	TotalPuzzles         int64 `json:"total_puzzles"`
	TotalTradesCompleted int64 `json:"total_trades_completed"`
	TotalReviews         int64 `json:"total_reviews"`
}
