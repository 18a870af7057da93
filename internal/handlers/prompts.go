package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/middleware"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

type PromptHandler struct {
	cascadeService *services.CascadeService
}

func NewPromptHandler(cascadeService *services.CascadeService) *PromptHandler {
	return &PromptHandler{cascadeService: cascadeService}
}

// ListPrompts returns prompt summaries, optionally filtered by project, team,
// ceremony or status. Team members only see prompts for their own teams.
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	db := database.GetDB()

	query := db.Model(&models.Prompt{}).
		Preload("Project").
		Preload("Team").
		Preload("Ceremony")

	if projectID := c.Query("projectId"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if teamID := c.Query("teamId"); teamID != "" {
		query = query.Where("team_id = ?", teamID)
	}
	if ceremonyID := c.Query("ceremonyId"); ceremonyID != "" {
		query = query.Where("ceremony_id = ?", ceremonyID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}

	if role == models.RoleTeamMember {
		memberTeams := db.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID)
		query = query.Where("team_id IN (?)", memberTeams)
	}

	var prompts []models.Prompt
	if err := query.Order("created_at DESC").Find(&prompts).Error; err != nil {
		respondError(c, err, "Failed to fetch prompts")
		return
	}

	summaries := make([]models.PromptSummary, 0, len(prompts))
	for i := range prompts {
		p := &prompts[i]
		summary := models.PromptSummary{
			ID:        p.ID,
			Title:     p.Title,
			Deadline:  p.Deadline,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		}
		if p.Project != nil {
			summary.Project = p.Project.Name
		}
		if p.Team != nil {
			summary.Team = p.Team.Name
		}
		if p.Ceremony != nil {
			summary.CeremonyType = p.Ceremony.Name
		}
		db.Model(&models.Response{}).Where("prompt_id = ?", p.ID).Count(&summary.Responses)
		db.Model(&models.TeamMember{}).Where("team_id = ?", p.TeamID).Count(&summary.TotalTeamMembers)
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, gin.H{"prompts": summaries})
}

// CreatePromptRequest represents prompt creation input. The ceremony may be
// given by ID or by name, and the project may be left out to be inferred from
// the team's first project assignment.
type CreatePromptRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	TeamID       uuid.UUID  `json:"team_id" binding:"required"`
	ProjectID    *uuid.UUID `json:"project_id"`
	CeremonyID   *uuid.UUID `json:"ceremony_id"`
	CeremonyType string     `json:"ceremony_type"`
	Deadline     time.Time  `json:"deadline" binding:"required"`
	VideoURL     string     `json:"video_url"`
}

// CreatePrompt creates a prompt for a team (scrum master only)
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CeremonyID == nil && req.CeremonyType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ceremony is required"})
		return
	}

	db := database.GetDB()

	var team models.Team
	if err := db.Preload("ProjectTeams").First(&team, "id = ?", req.TeamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	ceremonyID := uuid.Nil
	if req.CeremonyID != nil {
		var ceremony models.Ceremony
		if err := db.First(&ceremony, "id = ?", *req.CeremonyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ceremony not found"})
			return
		}
		ceremonyID = ceremony.ID
	} else {
		var ceremony models.Ceremony
		if err := db.Where("name = ?", req.CeremonyType).First(&ceremony).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ceremony type not found"})
			return
		}
		ceremonyID = ceremony.ID
	}

	projectID := uuid.Nil
	if req.ProjectID != nil {
		var project models.Project
		if err := db.First(&project, "id = ?", *req.ProjectID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		projectID = project.ID
	} else {
		// Fall back to the first project the team is assigned to.
		if len(team.ProjectTeams) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Team is not associated with any project"})
			return
		}
		projectID = team.ProjectTeams[0].ProjectID
	}

	prompt := &models.Prompt{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		TeamID:      req.TeamID,
		CeremonyID:  ceremonyID,
		Deadline:    req.Deadline,
		Status:      models.PromptStatusPending,
		VideoURL:    req.VideoURL,
		CreatedByID: userID,
	}

	if err := db.Create(prompt).Error; err != nil {
		respondError(c, err, "Failed to create prompt")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Prompt created successfully",
		"prompt":  prompt,
	})
}

// GetPrompt returns one prompt with its responses. Team members only see
// prompts for teams they belong to.
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prompt ID"})
		return
	}

	db := database.GetDB()

	var prompt models.Prompt
	if err := db.Preload("Project").
		Preload("Team").
		Preload("Team.Members").
		Preload("Ceremony").
		Preload("CreatedBy").
		Preload("Responses").
		Preload("Responses.User").
		First(&prompt, "id = ?", promptID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
		return
	}

	if role == models.RoleTeamMember {
		isMember := false
		if prompt.Team != nil {
			for _, m := range prompt.Team.Members {
				if m.UserID == userID {
					isMember = true
					break
				}
			}
		}
		if !isMember {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// UpdatePromptRequest represents prompt update input
type UpdatePromptRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	VideoURL    string     `json:"video_url"`
}

// UpdatePrompt updates a prompt's editable fields (scrum master only).
// Status is owned by the aggregation logic and cannot be set here.
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prompt ID"})
		return
	}

	var req UpdatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var prompt models.Prompt
	if err := db.First(&prompt, "id = ?", promptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Prompt not found"})
			return
		}
		respondError(c, err, "Failed to fetch prompt")
		return
	}

	if req.Title != "" {
		prompt.Title = req.Title
	}
	if req.Description != "" {
		prompt.Description = req.Description
	}
	if req.Deadline != nil {
		prompt.Deadline = *req.Deadline
	}
	if req.VideoURL != "" {
		prompt.VideoURL = req.VideoURL
	}

	if err := db.Save(&prompt).Error; err != nil {
		respondError(c, err, "Failed to update prompt")
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// DeletePrompt removes a prompt with its responses and their feedback in one
// transaction (scrum master only)
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	promptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prompt ID"})
		return
	}

	if err := h.cascadeService.DeletePrompt(promptID); err != nil {
		respondError(c, err, "Failed to delete prompt")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
