package auth

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

	"github.com/launchlens/startup-meter/internal/database"
)

func newTestRouter(t *testing.T) (*gin.Engine, *database.UserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := database.NewUserService(database.NewRepository(db), "test-secret", time.Hour)

	r := gin.New()
	NewHandler(users).RegisterRoutes(r.Group("/api/auth"), NewMiddleware(users))
	return r, users
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

func registerTestUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": email, "password": "password123", "name": "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "alice@example.com", "password": "password123", "name": "Alice",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "free", user["subscription_type"])
}

func TestRegisterValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing email", body: gin.H{"password": "password123", "name": "Alice"}},
		{name: "bad email", body: gin.H{"email": "not-an-email", "password": "password123", "name": "Alice"}},
		{name: "short password", body: gin.H{"email": "a@example.com", "password": "123", "name": "Alice"}},
		{name: "short name", body: gin.H{"email": "a@example.com", "password": "password123", "name": "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Validation failed", body["error"])
		})
	}
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	registerTestUser(t, r, "bob@example.com")

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "bob@example.com", "password": "password123", "name": "Bob",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists", body["error"])
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	registerTestUser(t, r, "carol@example.com")

	t.Run("valid credentials", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "carol@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Login successful", body["message"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "carol@example.com", "password": "wrongpass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", body["error"])
	})

	t.Run("unknown email", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "ghost@example.com", "password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfileEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerTestUser(t, r, "dave@example.com")

	t.Run("authenticated", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/auth/profile", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		user := body["data"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "dave@example.com", user["email"])
	})

	t.Run("no token", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Access token required", body["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodGet, "/api/auth/profile", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid or expired token", body["error"])
	})
}

func TestUpdateProfileEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerTestUser(t, r, "erin@example.com")
	registerTestUser(t, r, "frank@example.com")

	t.Run("rename", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPut, "/api/auth/profile", token, gin.H{"name": "Erin Updated"})
		assert.Equal(t, http.StatusOK, w.Code)
		user := body["data"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "Erin Updated", user["name"])
	})

	t.Run("empty update rejected", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPut, "/api/auth/profile", token, gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No valid fields to update", body["error"])
	})

	t.Run("taken email rejected", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPut, "/api/auth/profile", token, gin.H{"email": "frank@example.com"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Email already taken by another user", body["error"])
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerTestUser(t, r, "grace@example.com")

	t.Run("wrong current password", func(t *testing.T) {
		w, body := doJSON(t, r, http.MethodPut, "/api/auth/change-password", token, gin.H{
			"currentPassword": "wrongpass", "newPassword": "newpass123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Current password is incorrect", body["error"])
	})

	t.Run("success then login with new password", func(t *testing.T) {
		w, _ := doJSON(t, r, http.MethodPut, "/api/auth/change-password", token, gin.H{
			"currentPassword": "password123", "newPassword": "newpass123",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "grace@example.com", "password": "newpass123",
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerTestUser(t, r, "henry@example.com")

	w, body := doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", body["message"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
