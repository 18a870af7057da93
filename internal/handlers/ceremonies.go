package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/middleware"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

type CeremonyHandler struct {
	cascadeService *services.CascadeService
}

func NewCeremonyHandler(cascadeService *services.CascadeService) *CeremonyHandler {
	return &CeremonyHandler{cascadeService: cascadeService}
}

// ListCeremonies returns all ceremony templates
func (h *CeremonyHandler) ListCeremonies(c *gin.Context) {
	db := database.GetDB()

	var ceremonies []models.Ceremony
	if err := db.Order("created_at ASC").Find(&ceremonies).Error; err != nil {
		respondError(c, err, "Failed to fetch ceremonies")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ceremonies": ceremonies})
}

// CeremonyRequest represents ceremony create/update input
type CeremonyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Duration    int    `json:"duration" binding:"required,gt=0"`
	Frequency   string `json:"frequency" binding:"required"`
	Color       string `json:"color" binding:"required"`
}

// CreateCeremony creates a ceremony template (scrum master only)
func (h *CeremonyHandler) CreateCeremony(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req CeremonyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ceremony := &models.Ceremony{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Frequency:   req.Frequency,
		Color:       req.Color,
		CreatedByID: userID,
	}

	db := database.GetDB()
	if err := db.Create(ceremony).Error; err != nil {
		respondError(c, err, "Failed to create ceremony")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Ceremony created successfully",
		"ceremony": ceremony,
	})
}

// GetCeremony returns one ceremony with its recent prompts
func (h *CeremonyHandler) GetCeremony(c *gin.Context) {
	ceremonyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ceremony ID"})
		return
	}

	db := database.GetDB()

	var ceremony models.Ceremony
	if err := db.Preload("CreatedBy").
		Preload("Prompts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(10)
		}).
		First(&ceremony, "id = ?", ceremonyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ceremony not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ceremony": ceremony})
}

// UpdateCeremony updates a ceremony template (scrum master only)
func (h *CeremonyHandler) UpdateCeremony(c *gin.Context) {
	ceremonyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ceremony ID"})
		return
	}

	var req CeremonyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()

	var ceremony models.Ceremony
	if err := db.First(&ceremony, "id = ?", ceremonyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ceremony not found"})
		return
	}

	ceremony.Name = req.Name
	ceremony.Description = req.Description
	ceremony.Duration = req.Duration
	ceremony.Frequency = req.Frequency
	ceremony.Color = req.Color

	if err := db.Save(&ceremony).Error; err != nil {
		respondError(c, err, "Failed to update ceremony")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ceremony": ceremony})
}

// DeleteCeremony removes a ceremony unless prompts still reference it
// (scrum master only)
func (h *CeremonyHandler) DeleteCeremony(c *gin.Context) {
	ceremonyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ceremony ID"})
		return
	}

	if err := h.cascadeService.DeleteCeremony(ceremonyID); err != nil {
		respondError(c, err, "Failed to delete ceremony")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
