package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromptStatus string

const (
	PromptStatusPending    PromptStatus = "PENDING"
	PromptStatusInProgress PromptStatus = "IN_PROGRESS"
	PromptStatusComplete   PromptStatus = "COMPLETE"
)

// Prompt asks one team to respond to a ceremony by a deadline. Its status
// tracks response coverage: PENDING with no responses, IN_PROGRESS once the
// first response lands, COMPLETE when every team member has responded.
type Prompt struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	ProjectID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"project_id"`
	TeamID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"team_id"`
	CeremonyID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"ceremony_id"`
	Deadline    time.Time    `gorm:"not null" json:"deadline"`
	Status      PromptStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	VideoURL    string       `json:"video_url,omitempty"`
	CreatedByID uuid.UUID    `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Team      *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Ceremony  *Ceremony  `gorm:"foreignKey:CeremonyID" json:"ceremony,omitempty"`
	CreatedBy *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Responses []Response `gorm:"foreignKey:PromptID" json:"responses,omitempty"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PromptSummary is the list-view shape with response coverage counts.
type PromptSummary struct {
	ID               uuid.UUID    `json:"id"`
	Title            string       `json:"title"`
	Deadline         time.Time    `json:"deadline"`
	Status           PromptStatus `json:"status"`
	Responses        int64        `json:"responses"`
	TotalTeamMembers int64        `json:"total_team_members"`
	Project          string       `json:"project"`
	Team             string       `json:"team"`
	CeremonyType     string       `json:"ceremony_type"`
	CreatedAt        time.Time    `json:"created_at"`
}
