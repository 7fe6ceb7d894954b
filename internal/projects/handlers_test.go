package projects

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchlens/startup-meter/internal/auth"
	"github.com/launchlens/startup-meter/internal/database"
)

func newTestRouter(t *testing.T) (*gin.Engine, *database.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := database.NewRepository(db)
	users := database.NewUserService(repo, "test-secret", time.Hour)

	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/api/projects"), auth.NewMiddleware(users))
	return r, users
}

func newUserToken(t *testing.T, users *database.UserService, email string) string {
	t.Helper()
	_, token, err := users.Register(email, "password123", "Test User")
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func saveTestProject(t *testing.T, r *gin.Engine, token, name string) string {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/projects/save", token, gin.H{
		"name":           name,
		"description":    "a test project",
		"answers":        []string{"answer one", "answer two"},
		"evaluationData": gin.H{"overallScore": 55},
		"overallScore":   55,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return body["projectId"].(string)
}

func TestSaveProject(t *testing.T) {
	r, users := newTestRouter(t)
	token := newUserToken(t, users, "alice@example.com")

	w, body := doJSON(t, r, http.MethodPost, "/api/projects/save", token, gin.H{
		"name":           "Clinic no-shows",
		"answers":        []string{"a"},
		"evaluationData": gin.H{"overallScore": 40},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["projectId"])
	assert.Equal(t, "Project saved successfully", body["message"])
}

func TestSaveProjectValidation(t *testing.T) {
	r, users := newTestRouter(t)
	token := newUserToken(t, users, "alice@example.com")

	w, body := doJSON(t, r, http.MethodPost, "/api/projects/save", token, gin.H{
		"name": "Missing the rest",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields: name, answers, evaluationData", body["error"])
}

func TestListProjects(t *testing.T) {
	r, users := newTestRouter(t)
	token := newUserToken(t, users, "alice@example.com")

	t.Run("empty list is an array", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/projects/my-projects", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		projects, ok := body["projects"].([]any)
		require.True(t, ok, "projects must serialize as an array, not null")
		assert.Empty(t, projects)
	})

	t.Run("after saving", func(t *testing.T) {
		saveTestProject(t, r, token, "First")
		w, body := doJSON(t, r, http.MethodGet, "/api/projects/my-projects", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		projects := body["projects"].([]any)
		require.Len(t, projects, 1)
		summary := projects[0].(map[string]any)
		assert.Equal(t, "First", summary["name"])
	})
}

func TestGetProject(t *testing.T) {
	r, users := newTestRouter(t)
	token := newUserToken(t, users, "alice@example.com")
	projectID := saveTestProject(t, r, token, "Mine")

	t.Run("owner reads stored JSON back", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/projects/"+projectID, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		project := body["project"].(map[string]any)
		assert.Equal(t, "Mine", project["name"])
		answers := project["answers"].([]any)
		assert.Equal(t, "answer one", answers[0])
		evaluation := project["evaluationData"].(map[string]any)
		assert.Equal(t, float64(55), evaluation["overallScore"])
	})

	t.Run("unknown id", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/projects/does-not-exist", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Project not found", body["error"])
	})

	t.Run("other user cannot read it", func(t *testing.T) {
		otherToken := newUserToken(t, users, "mallory@example.com")
		w, _ := doJSON(t, r, http.MethodGet, "/api/projects/"+projectID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	r, users := newTestRouter(t)
	token := newUserToken(t, users, "alice@example.com")
	projectID := saveTestProject(t, r, token, "Doomed")

	t.Run("other user cannot delete it", func(t *testing.T) {
		otherToken := newUserToken(t, users, "mallory@example.com")
		w, _ := doJSON(t, r, http.MethodDelete, "/api/projects/"+projectID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodDelete, "/api/projects/"+projectID, token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Project deleted successfully", body["message"])

		w, _ = doJSON(t, r, http.MethodGet, "/api/projects/"+projectID, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProjectsRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/projects/save"},
		{http.MethodGet, "/api/projects/my-projects"},
		{http.MethodGet, "/api/projects/some-id"},
		{http.MethodDelete, "/api/projects/some-id"},
	} {
		w, _ := doJSON(t, r, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s must require auth", route.method, route.path)
	}
}
