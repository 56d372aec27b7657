package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is written once per side of a completed trade. The unique index on
// (trade_request_id, reviewer_id) enforces the once-per-side rule.
type Review struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TradeRequestID      uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_trade_reviewer,unique,priority:1" json:"trade_request_id"`
	ReviewerID          uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_trade_reviewer,unique,priority:2" json:"reviewer_id"`
	Reviewer            User      `gorm:"constraint:OnDelete:CASCADE" json:"reviewer"`
	RevieweeID          uuid.UUID `gorm:"type:uuid;not null;index" json:"reviewee_id"`
	Rating              int       `gorm:"not null" json:"rating"`
	CommunicationRating int       `gorm:"not null" json:"communication_rating"`
	ConditionRating     int       `gorm:"not null" json:"condition_rating"`
	PackagingRating     int       `gorm:"not null" json:"packaging_rating"`
	PunctualityRating   int       `gorm:"not null" json:"punctuality_rating"`
	Comment             *string   `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
