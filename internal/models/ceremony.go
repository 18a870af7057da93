package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ceremony is a recurring meeting template (e.g. "Daily Standup").
// It cannot be deleted while any prompt still references it.
type Ceremony struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Duration    int       `gorm:"not null" json:"duration"` // minutes
	Frequency   string    `json:"frequency"`                // e.g. "daily", "bi-weekly"
	Color       string    `json:"color"`
	CreatedByID uuid.UUID `gorm:"type:uuid;index" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	CreatedBy *User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Prompts   []Prompt `gorm:"foreignKey:CeremonyID" json:"prompts,omitempty"`
}

func (c *Ceremony) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
