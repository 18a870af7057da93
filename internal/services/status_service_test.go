package services_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asyncscrum/scrum-platform/internal/apperrors"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

func TestSubmitResponse_RequiresContent(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	_, err := svc.SubmitResponse(uuid.New(), uuid.New(), "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmitResponse_PromptNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	_, err := svc.SubmitResponse(uuid.New(), uuid.New(), "done", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmitResponse_StatusProgression(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	team, members := createTeamWithMembers(t, db, 3)
	prompt := createPromptForTeam(t, db, team)

	require.Equal(t, models.PromptStatusPending, promptStatus(t, db, prompt.ID))

	// First response moves the prompt to IN_PROGRESS.
	_, err := svc.SubmitResponse(members[0].ID, prompt.ID, "worked on the API", "")
	require.NoError(t, err)
	assert.Equal(t, models.PromptStatusInProgress, promptStatus(t, db, prompt.ID))

	// Second of three keeps it IN_PROGRESS.
	_, err = svc.SubmitResponse(members[1].ID, prompt.ID, "reviewed PRs", "")
	require.NoError(t, err)
	assert.Equal(t, models.PromptStatusInProgress, promptStatus(t, db, prompt.ID))

	// Final member completes the prompt.
	_, err = svc.SubmitResponse(members[2].ID, prompt.ID, "fixed the build", "")
	require.NoError(t, err)
	assert.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))
	assert.EqualValues(t, 3, countRows(t, db, &models.Response{}, "prompt_id = ?", prompt.ID))
}

func TestSubmitResponse_ResubmitUpdatesExistingRow(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	team, members := createTeamWithMembers(t, db, 3)
	prompt := createPromptForTeam(t, db, team)

	first, err := svc.SubmitResponse(members[0].ID, prompt.ID, "first attempt", "")
	require.NoError(t, err)

	second, err := svc.SubmitResponse(members[0].ID, prompt.ID, "second attempt", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "second attempt", second.TextResponse)
	assert.EqualValues(t, 1, countRows(t, db, &models.Response{}, "prompt_id = ?", prompt.ID))
	assert.Equal(t, models.PromptStatusInProgress, promptStatus(t, db, prompt.ID))
}

func TestSubmitResponse_ResubmitAfterCompleteKeepsStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	team, members := createTeamWithMembers(t, db, 2)
	prompt := createPromptForTeam(t, db, team)

	for _, m := range members {
		_, err := svc.SubmitResponse(m.ID, prompt.ID, "done", "")
		require.NoError(t, err)
	}
	require.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))

	_, err := svc.SubmitResponse(members[0].ID, prompt.ID, "updated answer", "")
	require.NoError(t, err)
	assert.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))
	assert.EqualValues(t, 2, countRows(t, db, &models.Response{}, "prompt_id = ?", prompt.ID))
}

func TestSubmitResponse_CompleteIsStickyWhenTeamGrows(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	team, members := createTeamWithMembers(t, db, 2)
	prompt := createPromptForTeam(t, db, team)

	for _, m := range members {
		_, err := svc.SubmitResponse(m.ID, prompt.ID, "done", "")
		require.NoError(t, err)
	}
	require.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))

	// Growing the team after completion does not reopen the prompt.
	late := createUser(t, db, "latecomer", models.RoleTeamMember)
	require.NoError(t, db.Create(&models.TeamMember{UserID: late.ID, TeamID: team.ID, Role: "developer"}).Error)
	assert.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))

	_, err := svc.SubmitResponse(late.ID, prompt.ID, "better late than never", "")
	require.NoError(t, err)
	assert.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))
}

func TestSubmitResponse_ConcurrentFinalSubmissions(t *testing.T) {
	db := setupTestDB(t)
	svc := services.NewStatusService(db)

	team, members := createTeamWithMembers(t, db, 5)
	prompt := createPromptForTeam(t, db, team)

	for _, m := range members[:3] {
		_, err := svc.SubmitResponse(m.ID, prompt.ID, "done", "")
		require.NoError(t, err)
	}
	require.Equal(t, models.PromptStatusInProgress, promptStatus(t, db, prompt.ID))

	// The last two members race; neither may leave the prompt stuck short of
	// COMPLETE.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, m := range members[3:] {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := svc.SubmitResponse(userID, prompt.ID, "done", "")
			errs <- err
		}(m.ID)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, models.PromptStatusComplete, promptStatus(t, db, prompt.ID))
	assert.EqualValues(t, 5, countRows(t, db, &models.Response{}, "prompt_id = ?", prompt.ID))
}
