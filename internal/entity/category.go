package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminCategory is a bilingual taxonomy tag managed from the admin panel.
type AdminCategory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NameEN        string    `gorm:"size:100;not null" json:"name_en"`
	NameNL        string    `gorm:"size:100;not null" json:"name_nl"`
	DescriptionEN string    `gorm:"type:text" json:"description_en"`
	DescriptionNL string    `gorm:"type:text" json:"description_nl"`
	Slug          string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Color         string    `gorm:"size:20" json:"color"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	SortOrder     int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *AdminCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// LocalizedName returns the category name for the given locale ("en"/"nl").
func (c *AdminCategory) LocalizedName(locale string) string {
	if locale == "nl" && c.NameNL != "" {
		return c.NameNL
	}
	return c.NameEN
}

// LocalizedDescription returns the description for the given locale.
func (c *AdminCategory) LocalizedDescription(locale string) string {
	if locale == "nl" && c.DescriptionNL != "" {
		return c.DescriptionNL
	}
	return c.DescriptionEN
}
