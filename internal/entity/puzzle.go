package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

const (
	ConditionNew     = "new"
	ConditionLikeNew = "like_new"
	ConditionGood    = "good"
	ConditionFair    = "fair"
	ConditionWorn    = "worn"
)

type Puzzle struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       User           `gorm:"constraint:OnDelete:CASCADE" json:"owner"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Brand       string         `gorm:"size:100;index" json:"brand"`
	PieceCount  int            `gorm:"not null;index" json:"piece_count"`
	Difficulty  string         `gorm:"size:10;not null" json:"difficulty"`
	Condition   string         `gorm:"size:10;not null" json:"condition"`
	CategoryID  *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category    *AdminCategory `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Tags        []string       `gorm:"serializer:json" json:"tags"`
	Images      []PuzzleImage  `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	IsAvailable bool           `gorm:"not null;default:true;index" json:"is_available"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	AcquiredAt  *time.Time     `json:"acquired_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Notes       *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Puzzle) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type PuzzleImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PuzzleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"puzzle_id"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	PreviewURL *string   `gorm:"type:text" json:"preview_url,omitempty"`
	IsMain     bool      `gorm:"not null;default:false" json:"is_main"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (i *PuzzleImage) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID, err = uuid.NewV7()
	}
	return
}
