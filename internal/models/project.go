package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "PLANNING"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
)

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);default:'PLANNING'" json:"status"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Progress    int           `gorm:"default:0" json:"progress"` // 0-100
	CreatedByID uuid.UUID     `gorm:"type:uuid;not null;index" json:"created_by_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	CreatedBy    *User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ProjectTeams []ProjectTeam `gorm:"foreignKey:ProjectID" json:"project_teams,omitempty"`
	Prompts      []Prompt      `gorm:"foreignKey:ProjectID" json:"prompts,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectTeam assigns a team to a project. One assignment per pair.
type ProjectTeam struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_team_pair" json:"project_id"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_team_pair" json:"team_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Team    *Team    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (pt *ProjectTeam) BeforeCreate(tx *gorm.DB) error {
	if pt.ID == uuid.Nil {
		pt.ID = uuid.New()
	}
	return nil
}
