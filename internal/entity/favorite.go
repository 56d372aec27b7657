package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_favorites_user_puzzle,unique,priority:1" json:"user_id"`
	PuzzleID  uuid.UUID `gorm:"type:uuid;not null;index:idx_favorites_user_puzzle,unique,priority:2" json:"puzzle_id"`
	Puzzle    Puzzle    `gorm:"constraint:OnDelete:CASCADE" json:"puzzle"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
