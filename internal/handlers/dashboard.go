package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/middleware"
	"github.com/asyncscrum/scrum-platform/internal/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// GetStats returns platform statistics plus the caller's open prompts
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	db := database.GetDB()

	var stats struct {
		TotalUsers        int64 `json:"total_users"`
		TotalTeams        int64 `json:"total_teams"`
		TotalProjects     int64 `json:"total_projects"`
		ActiveProjects    int64 `json:"active_projects"`
		TotalPrompts      int64 `json:"total_prompts"`
		PendingPrompts    int64 `json:"pending_prompts"`
		InProgressPrompts int64 `json:"in_progress_prompts"`
		CompletePrompts   int64 `json:"complete_prompts"`
		TotalResponses    int64 `json:"total_responses"`
	}

	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.Team{}).Count(&stats.TotalTeams)
	db.Model(&models.Project{}).Count(&stats.TotalProjects)
	db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusActive).Count(&stats.ActiveProjects)
	db.Model(&models.Prompt{}).Count(&stats.TotalPrompts)
	db.Model(&models.Prompt{}).Where("status = ?", models.PromptStatusPending).Count(&stats.PendingPrompts)
	db.Model(&models.Prompt{}).Where("status = ?", models.PromptStatusInProgress).Count(&stats.InProgressPrompts)
	db.Model(&models.Prompt{}).Where("status = ?", models.PromptStatusComplete).Count(&stats.CompletePrompts)
	db.Model(&models.Response{}).Count(&stats.TotalResponses)

	// Prompts the caller still has to answer.
	var openPrompts []models.Prompt
	if role == models.RoleTeamMember {
		memberTeams := db.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID)
		answered := db.Model(&models.Response{}).Select("prompt_id").Where("user_id = ?", userID)
		db.Preload("Ceremony").Preload("Team").
			Where("team_id IN (?)", memberTeams).
			Where("id NOT IN (?)", answered).
			Where("status <> ?", models.PromptStatusComplete).
			Order("deadline ASC").
			Limit(10).
			Find(&openPrompts)
	} else {
		db.Preload("Ceremony").Preload("Team").
			Where("status <> ?", models.PromptStatusComplete).
			Order("deadline ASC").
			Limit(10).
			Find(&openPrompts)
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"open_prompts": openPrompts,
	})
}
