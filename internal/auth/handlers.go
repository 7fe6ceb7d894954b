package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchlens/startup-meter/internal/database"
)

// Handler serves the account endpoints.
type Handler struct {
	users *database.UserService
}

// NewHandler creates the auth handler.
func NewHandler(users *database.UserService) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes mounts the auth endpoints on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, mw *Middleware) {
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.GET("/profile", mw.Authenticate(), h.Profile)
	group.PUT("/profile", mw.Authenticate(), h.UpdateProfile)
	group.PUT("/change-password", mw.Authenticate(), h.ChangePassword)
	group.POST("/logout", mw.Authenticate(), h.Logout)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,min=2"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2"`
	Email string `json:"email" binding:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func userPayload(user *database.User) gin.H {
	return gin.H{
		"id":                user.ID,
		"email":             user.Email,
		"name":              user.Name,
		"subscription_type": user.SubscriptionType,
	}
}

// Register creates a new account and returns a session token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed"})
		return
	}

	user, token, err := h.users.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "User with this email already exists"})
			return
		}
		slog.Error("Registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Registration failed"})
		return
	}

	// Analytics failures never fail the request.
	if err := h.users.Repo().BumpAnalytics("daily_registrations"); err != nil {
		slog.Warn("Failed to update registration analytics", "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"data": gin.H{
			"user":  userPayload(user),
			"token": token,
		},
	})
}

// Login authenticates credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed"})
		return
	}

	user, token, err := h.users.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}
		slog.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Login failed"})
		return
	}

	if err := h.users.Repo().BumpAnalytics("daily_users"); err != nil {
		slog.Warn("Failed to update login analytics", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"user":  userPayload(user),
			"token": token,
		},
	})
}

// Profile returns the authenticated user.
func (h *Handler) Profile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"user": userPayload(user)},
	})
}

// UpdateProfile updates name and/or email for the authenticated user.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed"})
		return
	}

	if req.Name == "" && req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid fields to update"})
		return
	}

	updated, err := h.users.UpdateProfile(user.ID, req.Name, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Email already taken by another user"})
			return
		}
		slog.Error("Profile update failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    gin.H{"user": userPayload(updated)},
	})
}

// ChangePassword verifies the current password and stores a new one.
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed"})
		return
	}

	if err := h.users.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Current password is incorrect"})
			return
		}
		slog.Error("Password change failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Password change failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

// Logout acknowledges the logout. Tokens are stateless, so removal is a
// client-side concern.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}
