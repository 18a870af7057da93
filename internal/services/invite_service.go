package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asyncscrum/scrum-platform/internal/apperrors"
	"github.com/asyncscrum/scrum-platform/internal/models"
)

// InviteService attaches users to teams by email, creating the user record
// when it does not exist yet. A second invite of the same email to the same
// team fails cleanly instead of duplicating the membership.
type InviteService struct {
	db *gorm.DB
}

func NewInviteService(db *gorm.DB) *InviteService {
	return &InviteService{db: db}
}

// InviteResult carries the created membership and whether a brand-new user
// record was created for the email (callers notify those users out of band).
type InviteResult struct {
	Member    *models.TeamMember
	IsNewUser bool
}

// InviteToTeam resolves email to a user (creating one with the email's local
// part as name and TEAM_MEMBER role when absent) and attaches the membership.
// The lookup-then-create sequence runs in one transaction so concurrent
// invites of the same email cannot produce duplicate users or memberships.
func (s *InviteService) InviteToTeam(teamID uuid.UUID, email, roleLabel string) (*InviteResult, error) {
	if email == "" || roleLabel == "" {
		return nil, apperrors.Validationf("email and role are required")
	}

	result := &InviteResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("team")
			}
			return err
		}

		// Exact-match lookup; email is never normalized here.
		var user models.User
		err := tx.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Name:  nameFromEmail(email),
				Email: email,
				Role:  models.RoleTeamMember,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			result.IsNewUser = true
		} else if err != nil {
			return err
		}

		var existing models.TeamMember
		err = tx.Where("user_id = ? AND team_id = ?", user.ID, teamID).First(&existing).Error
		if err == nil {
			return apperrors.ErrAlreadyMember
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		member := models.TeamMember{
			UserID: user.ID,
			TeamID: teamID,
			Role:   roleLabel,
		}
		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		member.User = &user
		member.Team = &team
		result.Member = &member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
