package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TradeStatusPending   = "pending"
	TradeStatusAccepted  = "accepted"
	TradeStatusDeclined  = "declined"
	TradeStatusCompleted = "completed"
	TradeStatusCancelled = "cancelled"
)

// tradeTransitions is the full set of allowed status changes. Everything
// not listed here is rejected, so a trade only moves forward toward a
// terminal state and never back to pending.
var tradeTransitions = map[string][]string{
	TradeStatusPending:  {TradeStatusAccepted, TradeStatusDeclined, TradeStatusCancelled},
	TradeStatusAccepted: {TradeStatusCompleted, TradeStatusCancelled},
}

// CanTransition reports whether a trade may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range tradeTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further transitions exist for status.
func IsTerminalStatus(status string) bool {
	return len(tradeTransitions[status]) == 0
}

type TradeRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequesterID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"requester_id"`
	Requester       User       `gorm:"constraint:OnDelete:CASCADE" json:"requester"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner           User       `gorm:"constraint:OnDelete:CASCADE" json:"owner"`
	OwnerPuzzleID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_puzzle_id"`
	OwnerPuzzle     Puzzle     `gorm:"constraint:OnDelete:CASCADE" json:"owner_puzzle"`
	OfferedPuzzleID *uuid.UUID `gorm:"type:uuid;index" json:"offered_puzzle_id,omitempty"`
	OfferedPuzzle   *Puzzle    `gorm:"constraint:OnDelete:SET NULL" json:"offered_puzzle,omitempty"`
	Status          string     `gorm:"size:10;not null;default:pending;index" json:"status"`
	Message         string     `gorm:"type:text" json:"message"`
	ResponseMessage *string    `gorm:"type:text" json:"response_message,omitempty"`
	ProposedDate    *time.Time `json:"proposed_date,omitempty"`
	ActualDate      *time.Time `json:"actual_date,omitempty"`
	ShippingMethod  *string    `gorm:"size:50" json:"shipping_method,omitempty"`
	TrackingNumber  *string    `gorm:"size:100" json:"tracking_number,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *TradeRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
