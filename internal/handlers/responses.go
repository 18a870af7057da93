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

type ResponseHandler struct {
	statusService  *services.StatusService
	cascadeService *services.CascadeService
	emailService   *services.EmailService
	authService    *services.AuthService
}

func NewResponseHandler(statusService *services.StatusService, cascadeService *services.CascadeService, emailService *services.EmailService, authService *services.AuthService) *ResponseHandler {
	return &ResponseHandler{
		statusService:  statusService,
		cascadeService: cascadeService,
		emailService:   emailService,
		authService:    authService,
	}
}

// SubmitResponseRequest represents response submission input
type SubmitResponseRequest struct {
	PromptID      uuid.UUID `json:"prompt_id" binding:"required"`
	TextResponse  string    `json:"text_response"`
	VideoResponse string    `json:"video_response"`
}

// SubmitResponse records the caller's answer to a prompt. Re-submitting
// updates the existing response; a first submission may advance the prompt's
// status.
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.statusService.SubmitResponse(userID, req.PromptID, req.TextResponse, req.VideoResponse)
	if err != nil {
		respondError(c, err, "Failed to submit response")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Response submitted successfully",
		"response": response,
	})
}

// ListResponses returns responses for a prompt
func (h *ResponseHandler) ListResponses(c *gin.Context) {
	promptID := c.Query("promptId")
	if promptID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "promptId is required"})
		return
	}

	db := database.GetDB()

	var responses []models.Response
	if err := db.Preload("User").
		Preload("Feedback").
		Preload("Feedback.User").
		Where("prompt_id = ?", promptID).
		Order("submitted_at DESC").
		Find(&responses).Error; err != nil {
		respondError(c, err, "Failed to fetch responses")
		return
	}

	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

// GetResponse returns one response with its feedback
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	responseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response ID"})
		return
	}

	db := database.GetDB()

	var response models.Response
	if err := db.Preload("User").
		Preload("Prompt").
		Preload("Feedback").
		Preload("Feedback.User").
		First(&response, "id = ?", responseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}

// DeleteResponse removes a response with its feedback. Team members may only
// delete their own responses.
func (h *ResponseHandler) DeleteResponse(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	responseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response ID"})
		return
	}

	db := database.GetDB()

	var response models.Response
	if err := db.First(&response, "id = ?", responseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
		return
	}

	if role == models.RoleTeamMember && response.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := h.cascadeService.DeleteResponse(responseID); err != nil {
		respondError(c, err, "Failed to delete response")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListFeedback returns feedback for a response, newest first
func (h *ResponseHandler) ListFeedback(c *gin.Context) {
	responseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response ID"})
		return
	}

	db := database.GetDB()

	var feedback []models.Feedback
	if err := db.Preload("User").
		Where("response_id = ?", responseID).
		Order("created_at DESC").
		Find(&feedback).Error; err != nil {
		respondError(c, err, "Failed to fetch feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// CreateFeedbackRequest represents feedback creation input
type CreateFeedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateFeedback leaves feedback on a response (scrum master only)
func (h *ResponseHandler) CreateFeedback(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	responseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid response ID"})
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var response models.Response
	if err := db.Preload("User").Preload("Prompt").First(&response, "id = ?", responseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
		return
	}

	feedback := &models.Feedback{
		ResponseID: responseID,
		UserID:     userID,
		Text:       req.Text,
	}

	if err := db.Create(feedback).Error; err != nil {
		respondError(c, err, "Failed to create feedback")
		return
	}

	db.Preload("User").First(feedback, "id = ?", feedback.ID)

	// Notify the responder out of band.
	author, err := h.authService.GetUserByID(userID)
	if err == nil && response.User != nil {
		promptTitle := ""
		if response.Prompt != nil {
			promptTitle = response.Prompt.Title
		}
		go h.emailService.SendFeedbackEmail(response.User, author, promptTitle)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback sent successfully",
		"feedback": feedback,
	})
}

// UpdateFeedbackRequest represents feedback update input
type UpdateFeedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateFeedback edits a feedback entry. Authors may edit their own; admins
// may edit any.
func (h *ResponseHandler) UpdateFeedback(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var feedback models.Feedback
	if err := db.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	if role != models.RoleAdmin && feedback.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	feedback.Text = req.Text
	if err := db.Save(&feedback).Error; err != nil {
		respondError(c, err, "Failed to update feedback")
		return
	}

	db.Preload("User").First(&feedback, "id = ?", feedback.ID)
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

// DeleteFeedback removes a feedback entry. Authors may delete their own;
// admins may delete any.
func (h *ResponseHandler) DeleteFeedback(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	feedbackID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	db := database.GetDB()

	var feedback models.Feedback
	if err := db.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	if role != models.RoleAdmin && feedback.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := db.Delete(&feedback).Error; err != nil {
		respondError(c, err, "Failed to delete feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
