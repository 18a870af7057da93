package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asyncscrum/scrum-platform/internal/apperrors"
	"github.com/asyncscrum/scrum-platform/internal/models"
)

// StatusService keeps a prompt's status consistent with how many of its team
// members have responded. Status moves PENDING -> IN_PROGRESS -> COMPLETE and
// never regresses; a team growing after completion does not reopen the prompt.
type StatusService struct {
	db *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

// SubmitResponse records a member's answer to a prompt. A second submission by
// the same user updates their existing response in place; only a fresh
// insertion can advance the prompt's status. The response write, the coverage
// count and the status update all run in one transaction, with the prompt row
// locked so two concurrent final submissions cannot both see an incomplete
// count and leave the status stuck at IN_PROGRESS.
func (s *StatusService) SubmitResponse(userID, promptID uuid.UUID, textResponse, videoResponse string) (*models.Response, error) {
	if textResponse == "" && videoResponse == "" {
		return nil, apperrors.Validationf("response content is required")
	}

	var response models.Response
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var prompt models.Prompt
		// Postgres needs the row lock to serialize concurrent submissions;
		// sqlite already allows only one writer at a time.
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&prompt, "id = ?", promptID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("prompt")
			}
			return err
		}

		var existing models.Response
		err := tx.Where("prompt_id = ? AND user_id = ?", promptID, userID).First(&existing).Error
		if err == nil {
			existing.TextResponse = textResponse
			existing.VideoResponse = videoResponse
			existing.SubmittedAt = time.Now()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			response = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		response = models.Response{
			PromptID:      promptID,
			UserID:        userID,
			TextResponse:  textResponse,
			VideoResponse: videoResponse,
		}
		if err := tx.Create(&response).Error; err != nil {
			return err
		}

		if err := s.advanceStatus(tx, &prompt); err != nil {
			// An inconsistent status is preferable to losing the submission.
			zap.L().Warn("prompt status update skipped",
				zap.String("prompt_id", promptID.String()),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// advanceStatus recomputes the prompt status from response coverage. Must be
// called with the prompt row already locked inside tx.
func (s *StatusService) advanceStatus(tx *gorm.DB, prompt *models.Prompt) error {
	var memberCount int64
	if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", prompt.TeamID).Count(&memberCount).Error; err != nil {
		return err
	}

	var responseCount int64
	if err := tx.Model(&models.Response{}).Where("prompt_id = ?", prompt.ID).Count(&responseCount).Error; err != nil {
		return err
	}

	newStatus := prompt.Status
	switch {
	case memberCount > 0 && responseCount >= memberCount:
		newStatus = models.PromptStatusComplete
	case prompt.Status == models.PromptStatusPending && responseCount > 0:
		newStatus = models.PromptStatusInProgress
	}

	if newStatus == prompt.Status || prompt.Status == models.PromptStatusComplete {
		return nil
	}

	return tx.Model(prompt).Update("status", newStatus).Error
}
