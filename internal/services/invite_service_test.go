package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asyncscrum/scrum-platform/internal/apperrors"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

func TestInviteToTeam_CreatesMissingUser(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewInviteService(db)

	team, _ := createTeamWithMembers(t, db, 1)

	result, err := svc.InviteToTeam(team.ID, "dana@example.com", "designer")
	require.NoError(t, err)
	require.NotNil(t, result.Member)
	assert.True(t, result.IsNewUser)

	assert.Equal(t, "dana", result.Member.User.Name)
	assert.Equal(t, models.RoleTeamMember, result.Member.User.Role)
	assert.Empty(t, result.Member.User.PasswordHash)
	assert.Equal(t, "designer", result.Member.Role)
	assert.Equal(t, team.ID, result.Member.TeamID)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "dana@example.com").Error)
	assert.Equal(t, user.ID, result.Member.UserID)
}

func TestInviteToTeam_AttachesExistingUser(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewInviteService(db)

	team, _ := createTeamWithMembers(t, db, 1)
	user := createUser(t, db, "erin", models.RoleScrumMaster)

	result, err := svc.InviteToTeam(team.ID, user.Email, "qa")
	require.NoError(t, err)
	assert.False(t, result.IsNewUser)
	assert.Equal(t, user.ID, result.Member.UserID)
	// Attaching an existing user never rewrites their account role.
	assert.Equal(t, models.RoleScrumMaster, result.Member.User.Role)
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}, "email = ?", user.Email))
}

func TestInviteToTeam_DuplicateInviteFails(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewInviteService(db)

	team, _ := createTeamWithMembers(t, db, 1)

	_, err := svc.InviteToTeam(team.ID, "frank@example.com", "developer")
	require.NoError(t, err)

	_, err = svc.InviteToTeam(team.ID, "frank@example.com", "developer")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "frank@example.com").Error)
	assert.EqualValues(t, 1, countRows(t, db, &models.TeamMember{}, "user_id = ? AND team_id = ?", user.ID, team.ID))
}

func TestInviteToTeam_TeamNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewInviteService(db)

	_, err := svc.InviteToTeam(uuid.New(), "gail@example.com", "developer")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.EqualValues(t, 0, countRows(t, db, &models.User{}, "email = ?", "gail@example.com"))
}

func TestInviteToTeam_RequiresEmailAndRole(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewInviteService(db)

	team, _ := createTeamWithMembers(t, db, 1)

	_, err := svc.InviteToTeam(team.ID, "", "developer")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.InviteToTeam(team.ID, "hank@example.com", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
