package dto

import (
	"io"
	"time"
)

type CreatePuzzleInput struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Brand       string     `json:"brand" binding:"omitempty,max=100"`
	PieceCount  int        `json:"piece_count" binding:"required,min=2"`
	Difficulty  string     `json:"difficulty" binding:"required,oneof=easy medium hard expert"`
	Condition   string     `json:"condition" binding:"required,oneof=new like_new good fair worn"`
	CategoryID  *string    `json:"category_id" binding:"omitempty,uuid"`
	Tags        []string   `json:"tags"`
	AcquiredAt  *time.Time `json:"acquired_at"`
	Notes       *string    `json:"notes"`
}

type UpdatePuzzleInput struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	Brand       *string    `json:"brand" binding:"omitempty,max=100"`
	PieceCount  *int       `json:"piece_count" binding:"omitempty,min=2"`
	Difficulty  *string    `json:"difficulty" binding:"omitempty,oneof=easy medium hard expert"`
	Condition   *string    `json:"condition" binding:"omitempty,oneof=new like_new good fair worn"`
	CategoryID  *string    `json:"category_id" binding:"omitempty,uuid"`
	Tags        []string   `json:"tags"`
	IsAvailable *bool      `json:"is_available"`
	IsCompleted *bool      `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       *string    `json:"notes"`
}

type PuzzleFilter struct {
	Search     string `form:"search"`
	Brand      string `form:"brand"`
	MinPieces  int    `form:"min_pieces"`
	MaxPieces  int    `form:"max_pieces"`
	Difficulty string `form:"difficulty" binding:"omitempty,oneof=easy medium hard expert"`
	Condition  string `form:"condition" binding:"omitempty,oneof=new like_new good fair worn"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Tag        string `form:"tag"`
	Available  *bool  `form:"available"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// ImageFile is an uploaded puzzle photo.
type ImageFile struct {
	Reader   io.Reader
	FileName string
	IsMain   bool
}
