package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asyncscrum/scrum-platform/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite lives on a single connection; pinning the pool also
	// serializes concurrent transactions the way a row lock would.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.ProjectTeam{},
		&models.Ceremony{},
		&models.Prompt{},
		&models.Response{},
		&models.Feedback{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
		Role:  role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTeamWithMembers creates a team with n members and returns both.
func createTeamWithMembers(t *testing.T, db *gorm.DB, n int) (*models.Team, []*models.User) {
	t.Helper()

	owner := createUser(t, db, fmt.Sprintf("owner-%s", uuid.NewString()[:8]), models.RoleScrumMaster)
	team := &models.Team{
		Name:        "Team Alpha",
		Description: "test team",
		CreatedByID: owner.ID,
	}
	require.NoError(t, db.Create(team).Error)

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := createUser(t, db, fmt.Sprintf("member-%s", uuid.NewString()[:8]), models.RoleTeamMember)
		member := &models.TeamMember{UserID: user.ID, TeamID: team.ID, Role: "developer"}
		require.NoError(t, db.Create(member).Error)
		users = append(users, user)
	}

	return team, users
}

// createPromptForTeam wires up the project, ceremony and prompt a team needs
// before anyone can respond.
func createPromptForTeam(t *testing.T, db *gorm.DB, team *models.Team) *models.Prompt {
	t.Helper()

	project := &models.Project{
		Name:        "Project X",
		Description: "test project",
		Status:      models.ProjectStatusActive,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
		CreatedByID: team.CreatedByID,
	}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Create(&models.ProjectTeam{ProjectID: project.ID, TeamID: team.ID}).Error)

	ceremony := &models.Ceremony{
		Name:        fmt.Sprintf("Standup %s", uuid.NewString()[:8]),
		Description: "daily sync",
		Duration:    15,
		Frequency:   "daily",
		Color:       "blue",
		CreatedByID: team.CreatedByID,
	}
	require.NoError(t, db.Create(ceremony).Error)

	prompt := &models.Prompt{
		Title:       "What did you do yesterday?",
		Description: "async standup",
		ProjectID:   project.ID,
		TeamID:      team.ID,
		CeremonyID:  ceremony.ID,
		Deadline:    time.Now().Add(24 * time.Hour),
		Status:      models.PromptStatusPending,
		CreatedByID: team.CreatedByID,
	}
	require.NoError(t, db.Create(prompt).Error)

	return prompt
}

func promptStatus(t *testing.T, db *gorm.DB, id uuid.UUID) models.PromptStatus {
	t.Helper()

	var prompt models.Prompt
	require.NoError(t, db.First(&prompt, "id = ?", id).Error)
	return prompt.Status
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}
