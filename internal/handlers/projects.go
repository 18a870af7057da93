package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/middleware"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

type ProjectHandler struct {
	cascadeService *services.CascadeService
}

func NewProjectHandler(cascadeService *services.CascadeService) *ProjectHandler {
	return &ProjectHandler{cascadeService: cascadeService}
}

// ListProjects returns all projects with their team assignments
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	db := database.GetDB()

	var projects []models.Project
	if err := db.Preload("ProjectTeams").
		Preload("ProjectTeams.Team").
		Preload("CreatedBy").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		respondError(c, err, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProjectRequest represents project creation input
type CreateProjectRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Status      models.ProjectStatus `json:"status" binding:"required,oneof=PLANNING ACTIVE COMPLETED"`
	StartDate   time.Time            `json:"start_date" binding:"required"`
	EndDate     time.Time            `json:"end_date" binding:"required"`
}

// CreateProject creates a new project (scrum master only)
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Progress:    0,
		CreatedByID: userID,
	}

	db := database.GetDB()
	if err := db.Create(project).Error; err != nil {
		respondError(c, err, "Failed to create project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully",
		"project": project,
	})
}

// GetProject returns one project. Team members only see projects their teams
// are assigned to.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.Preload("CreatedBy").
		Preload("ProjectTeams").
		Preload("ProjectTeams.Team").
		Preload("ProjectTeams.Team.Members").
		Preload("ProjectTeams.Team.Members.User").
		First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if role == models.RoleTeamMember {
		isMember := false
		for _, pt := range project.ProjectTeams {
			if pt.Team == nil {
				continue
			}
			for _, m := range pt.Team.Members {
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

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProjectRequest represents project update input
type UpdateProjectRequest struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE COMPLETED"`
	StartDate   *time.Time           `json:"start_date"`
	EndDate     *time.Time           `json:"end_date"`
	Progress    *int                 `json:"progress" binding:"omitempty,gte=0,lte=100"`
}

// UpdateProject updates a project (scrum master only)
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = *req.EndDate
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}

	if err := db.Save(&project).Error; err != nil {
		respondError(c, err, "Failed to update project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject removes a project with its prompts, responses, feedback and
// team assignments in one transaction (scrum master only)
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if err := h.cascadeService.DeleteProject(projectID); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AssignTeamsRequest represents the full desired set of team assignments
type AssignTeamsRequest struct {
	TeamIDs []uuid.UUID `json:"team_ids" binding:"required,min=1"`
}

// AssignTeams reconciles a project's team assignments against the requested
// set: dropped teams are unlinked, new teams linked, in one transaction
// (scrum master only)
func (h *ProjectHandler) AssignTeams(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req AssignTeamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var current []models.ProjectTeam
		if err := tx.Where("project_id = ?", projectID).Find(&current).Error; err != nil {
			return err
		}

		requested := make(map[uuid.UUID]bool, len(req.TeamIDs))
		for _, id := range req.TeamIDs {
			requested[id] = true
		}
		existing := make(map[uuid.UUID]bool, len(current))
		for _, pt := range current {
			existing[pt.TeamID] = true
		}

		var toRemove []uuid.UUID
		for _, pt := range current {
			if !requested[pt.TeamID] {
				toRemove = append(toRemove, pt.TeamID)
			}
		}
		if len(toRemove) > 0 {
			if err := tx.Where("project_id = ? AND team_id IN (?)", projectID, toRemove).
				Delete(&models.ProjectTeam{}).Error; err != nil {
				return err
			}
		}

		for _, teamID := range req.TeamIDs {
			if existing[teamID] {
				continue
			}
			pt := models.ProjectTeam{ProjectID: projectID, TeamID: teamID}
			if err := tx.Create(&pt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "Failed to assign teams to project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Teams assigned successfully"})
}
