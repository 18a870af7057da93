package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/middleware"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

type TeamHandler struct {
	inviteService  *services.InviteService
	cascadeService *services.CascadeService
	emailService   *services.EmailService
}

func NewTeamHandler(inviteService *services.InviteService, cascadeService *services.CascadeService, emailService *services.EmailService) *TeamHandler {
	return &TeamHandler{
		inviteService:  inviteService,
		cascadeService: cascadeService,
		emailService:   emailService,
	}
}

// ListTeams returns all teams with their members
func (h *TeamHandler) ListTeams(c *gin.Context) {
	db := database.GetDB()

	var teams []models.Team
	if err := db.Preload("Members").Preload("Members.User").Order("created_at DESC").Find(&teams).Error; err != nil {
		respondError(c, err, "Failed to fetch teams")
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// CreateTeamRequest represents team creation input
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateTeam creates a new team (scrum master only)
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: userID,
	}

	db := database.GetDB()
	if err := db.Create(team).Error; err != nil {
		respondError(c, err, "Failed to create team")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeam returns one team with members and project assignments
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	db := database.GetDB()

	var team models.Team
	if err := db.Preload("Members").
		Preload("Members.User").
		Preload("ProjectTeams").
		Preload("ProjectTeams.Project").
		First(&team, "id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}

// UpdateTeamRequest represents team update input
type UpdateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateTeam updates a team (scrum master only)
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var team models.Team
	if err := db.First(&team, "id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	if req.Name != "" {
		team.Name = req.Name
	}
	if req.Description != "" {
		team.Description = req.Description
	}

	if err := db.Save(&team).Error; err != nil {
		respondError(c, err, "Failed to update team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}

// DeleteTeam removes a team with its memberships and project assignments
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	if err := h.cascadeService.DeleteTeam(teamID); err != nil {
		respondError(c, err, "Failed to delete team")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListMembers returns a team's members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	db := database.GetDB()

	var members []models.TeamMember
	if err := db.Preload("User").Where("team_id = ?", teamID).Find(&members).Error; err != nil {
		respondError(c, err, "Failed to fetch team members")
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// InviteMemberRequest represents member invite input
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// InviteMember adds a user to the team by email, creating the account when
// it does not exist yet (scrum master only)
func (h *TeamHandler) InviteMember(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.inviteService.InviteToTeam(teamID, req.Email, req.Role)
	if err != nil {
		respondError(c, err, "Failed to invite user to team")
		return
	}

	go h.emailService.SendInviteEmail(result.Member.User, result.Member.Team, result.IsNewUser)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "User invited successfully",
		"member":      result.Member,
		"is_new_user": result.IsNewUser,
	})
}

// UpdateMemberRequest represents member role update input
type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateMember changes a member's role label (scrum master only)
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var member models.TeamMember
	if err := db.Where("user_id = ? AND team_id = ?", userID, teamID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}

	member.Role = req.Role
	if err := db.Save(&member).Error; err != nil {
		respondError(c, err, "Failed to update team member")
		return
	}

	db.Preload("User").First(&member, "id = ?", member.ID)
	c.JSON(http.StatusOK, gin.H{"member": member})
}

// RemoveMember removes a member from the team (scrum master only)
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	db := database.GetDB()
	result := db.Where("user_id = ? AND team_id = ?", userID, teamID).Delete(&models.TeamMember{})
	if result.Error != nil {
		respondError(c, result.Error, "Failed to remove team member")
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
