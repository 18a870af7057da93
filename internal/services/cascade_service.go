package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asyncscrum/scrum-platform/internal/apperrors"
	"github.com/asyncscrum/scrum-platform/internal/models"
)

// CascadeService removes a parent entity together with every row that
// references it, in dependency order, inside a single transaction. The store
// does not cascade on its own, so at no point may a reader observe a response,
// feedback or join row whose parent is gone.
type CascadeService struct {
	db *gorm.DB
}

func NewCascadeService(db *gorm.DB) *CascadeService {
	return &CascadeService{db: db}
}

// cascadeStep deletes one child table's rows for the parent being removed.
// Steps are listed children-first: a table always appears before the tables
// it references.
type cascadeStep struct {
	run func(tx *gorm.DB, id uuid.UUID) error
}

var projectCascade = []cascadeStep{
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		prompts := tx.Model(&models.Prompt{}).Select("id").Where("project_id = ?", id)
		responses := tx.Model(&models.Response{}).Select("id").Where("prompt_id IN (?)", prompts)
		return tx.Where("response_id IN (?)", responses).Delete(&models.Feedback{}).Error
	}},
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		prompts := tx.Model(&models.Prompt{}).Select("id").Where("project_id = ?", id)
		return tx.Where("prompt_id IN (?)", prompts).Delete(&models.Response{}).Error
	}},
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		return tx.Where("project_id = ?", id).Delete(&models.Prompt{}).Error
	}},
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		return tx.Where("project_id = ?", id).Delete(&models.ProjectTeam{}).Error
	}},
}

var promptCascade = []cascadeStep{
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		responses := tx.Model(&models.Response{}).Select("id").Where("prompt_id = ?", id)
		return tx.Where("response_id IN (?)", responses).Delete(&models.Feedback{}).Error
	}},
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		return tx.Where("prompt_id = ?", id).Delete(&models.Response{}).Error
	}},
}

var responseCascade = []cascadeStep{
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		return tx.Where("response_id = ?", id).Delete(&models.Feedback{}).Error
	}},
}

var teamCascade = []cascadeStep{
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		return tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error
	}},
	{run: func(tx *gorm.DB, id uuid.UUID) error {
		return tx.Where("team_id = ?", id).Delete(&models.ProjectTeam{}).Error
	}},
}

// deleteWithCascade runs the steps and then removes the parent row. Any
// failure aborts the whole transaction; no partial deletion is ever visible.
func (s *CascadeService) deleteWithCascade(id uuid.UUID, parent interface{}, resource string, steps []cascadeStep) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, step := range steps {
			if err := step.run(tx, id); err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(parent)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFoundf(resource)
		}
		return nil
	})
}

// DeleteProject removes a project with its prompts, their responses and
// feedback, and its team assignments.
func (s *CascadeService) DeleteProject(id uuid.UUID) error {
	return s.deleteWithCascade(id, &models.Project{}, "project", projectCascade)
}

// DeletePrompt removes a prompt with its responses and their feedback.
func (s *CascadeService) DeletePrompt(id uuid.UUID) error {
	return s.deleteWithCascade(id, &models.Prompt{}, "prompt", promptCascade)
}

// DeleteResponse removes a response with its feedback.
func (s *CascadeService) DeleteResponse(id uuid.UUID) error {
	return s.deleteWithCascade(id, &models.Response{}, "response", responseCascade)
}

// DeleteTeam removes a team with its memberships and project assignments.
func (s *CascadeService) DeleteTeam(id uuid.UUID) error {
	return s.deleteWithCascade(id, &models.Team{}, "team", teamCascade)
}

// DeleteCeremony refuses to delete a ceremony that prompts still reference;
// the deletion is blocked rather than cascaded.
func (s *CascadeService) DeleteCeremony(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var promptCount int64
		if err := tx.Model(&models.Prompt{}).Where("ceremony_id = ?", id).Count(&promptCount).Error; err != nil {
			return err
		}
		if promptCount > 0 {
			return apperrors.Conflictf("cannot delete ceremony with associated prompts")
		}

		result := tx.Where("id = ?", id).Delete(&models.Ceremony{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFoundf("ceremony")
		}
		return nil
	})
}
