package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Response is one member's answer to a prompt. At most one row exists per
// (prompt_id, user_id); re-submission updates the existing row in place.
type Response struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PromptID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_response_prompt_user" json:"prompt_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_response_prompt_user" json:"user_id"`
	TextResponse  string    `gorm:"type:text" json:"text_response"`
	VideoResponse string    `json:"video_response,omitempty"`
	SubmittedAt   time.Time `gorm:"not null" json:"submitted_at"`

	// Relations
	Prompt   *Prompt    `gorm:"foreignKey:PromptID" json:"prompt,omitempty"`
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Feedback []Feedback `gorm:"foreignKey:ResponseID" json:"feedback,omitempty"`
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	return nil
}

// Feedback is a comment left on a response, usually by a scrum master.
type Feedback struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ResponseID uuid.UUID `gorm:"type:uuid;not null;index" json:"response_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Response *Response `gorm:"foreignKey:ResponseID" json:"response,omitempty"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
