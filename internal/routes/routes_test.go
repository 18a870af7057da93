package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asyncscrum/scrum-platform/internal/config"
	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/routes"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

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

	previous := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = previous })

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiration: 1,
		AppName:       "AsyncScrum",
	}
	return routes.SetupRouter(cfg)
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, router *gin.Engine, name string, role models.UserRole) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    fmt.Sprintf("%s@example.com", name),
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["db_connected"])
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "sam", models.RoleScrumMaster)

	w := doJSON(router, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "sam@example.com", user["email"])
	assert.Equal(t, string(models.RoleScrumMaster), user["role"])

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sam@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decodeBody(t, w)["token"])

	w = doJSON(router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "sam@example.com",
		"password": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "mallory",
		"email":    "mallory@example.com",
		"password": "password123",
		"role":     models.RoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/api/teams", "/api/projects", "/api/prompts", "/api/dashboard/stats"} {
		w := doJSON(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(router, http.MethodGet, "/api/teams", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTeamForbiddenForTeamMember(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "tom", models.RoleTeamMember)

	w := doJSON(router, http.MethodPost, "/api/teams", token, gin.H{
		"name":        "Team Beta",
		"description": "should not be created",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodGet, "/api/teams", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTeamInviteFlow(t *testing.T) {
	router := setupRouter(t)

	token := registerUser(t, router, "sasha", models.RoleScrumMaster)

	w := doJSON(router, http.MethodPost, "/api/teams", token, gin.H{
		"name":        "Team Gamma",
		"description": "invite flow",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	team := decodeBody(t, w)["team"].(map[string]interface{})
	teamID := team["id"].(string)

	invitePath := fmt.Sprintf("/api/teams/%s/members", teamID)

	w = doJSON(router, http.MethodPost, invitePath, token, gin.H{
		"email": "newcomer@example.com",
		"role":  "developer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["is_new_user"])

	// Inviting the same email again is rejected without duplicating the
	// membership.
	w = doJSON(router, http.MethodPost, invitePath, token, gin.H{
		"email": "newcomer@example.com",
		"role":  "developer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, invitePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decodeBody(t, w)["members"].([]interface{})
	assert.Len(t, members, 1)
}

func TestSubmitResponseEndpoint(t *testing.T) {
	router := setupRouter(t)

	smToken := registerUser(t, router, "rita", models.RoleScrumMaster)

	w := doJSON(router, http.MethodPost, "/api/teams", smToken, gin.H{
		"name":        "Team Delta",
		"description": "response flow",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	teamID := decodeBody(t, w)["team"].(map[string]interface{})["id"].(string)

	memberToken := registerUser(t, router, "mika", models.RoleTeamMember)
	w = doJSON(router, http.MethodPost, fmt.Sprintf("/api/teams/%s/members", teamID), smToken, gin.H{
		"email": "mika@example.com",
		"role":  "developer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/projects", smToken, gin.H{
		"name":        "Launch",
		"description": "response flow project",
		"status":      models.ProjectStatusActive,
		"start_date":  time.Now().Format(time.RFC3339),
		"end_date":    time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	projectID := decodeBody(t, w)["project"].(map[string]interface{})["id"].(string)

	w = doJSON(router, http.MethodPut, fmt.Sprintf("/api/projects/%s/teams", projectID), smToken, gin.H{
		"team_ids": []string{teamID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/api/ceremonies", smToken, gin.H{
		"name":        "Daily Standup",
		"description": "daily sync",
		"duration":    15,
		"frequency":   "daily",
		"color":       "blue",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ceremonyID := decodeBody(t, w)["ceremony"].(map[string]interface{})["id"].(string)

	w = doJSON(router, http.MethodPost, "/api/prompts", smToken, gin.H{
		"title":       "Standup for Monday",
		"description": "async standup",
		"team_id":     teamID,
		"project_id":  projectID,
		"ceremony_id": ceremonyID,
		"deadline":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	promptID := decodeBody(t, w)["prompt"].(map[string]interface{})["id"].(string)

	w = doJSON(router, http.MethodPost, "/api/responses", memberToken, gin.H{
		"prompt_id":     promptID,
		"text_response": "shipped the login page",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// The only member has responded, so the prompt is complete.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/prompts/%s", promptID), smToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	prompt := decodeBody(t, w)["prompt"].(map[string]interface{})
	assert.Equal(t, string(models.PromptStatusComplete), prompt["status"])

	w = doJSON(router, http.MethodPost, "/api/responses", memberToken, gin.H{
		"prompt_id": promptID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
