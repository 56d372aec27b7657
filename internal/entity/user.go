package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	Role          string    `gorm:"size:20;not null;default:member" json:"role"`
	GoogleID      *string   `gorm:"size:100;uniqueIndex" json:"google_id,omitempty"`
	AvatarURL     *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Bio           *string   `gorm:"type:text" json:"bio,omitempty"`
	Location      *string   `gorm:"size:100" json:"location,omitempty"`
	PreferredLang string    `gorm:"size:5;not null;default:en" json:"preferred_lang"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
