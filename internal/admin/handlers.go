// Package admin serves the dashboard endpoints backed by the admin_users
// table.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/launchlens/startup-meter/internal/auth"
	"github.com/launchlens/startup-meter/internal/database"
)

// Handler serves the admin endpoints.
type Handler struct {
	users *database.UserService
}

// NewHandler creates the admin handler.
func NewHandler(users *database.UserService) *Handler {
	return &Handler{users: users}
}

// RegisterRoutes mounts the admin endpoints on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, mw *auth.Middleware) {
	group.POST("/login", h.Login)
	group.GET("/profile", mw.AdminAuth(), h.Profile)
	group.GET("/dashboard", mw.AdminAuth(), h.Dashboard)
	group.GET("/users", mw.AdminAuth(), h.Users)
	group.PUT("/users/:id/subscription", mw.AdminAuth(), h.UpdateSubscription)
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type subscriptionRequest struct {
	SubscriptionType string `json:"subscription_type" binding:"required,oneof=free premium"`
}

func adminPayload(admin *database.AdminUser) gin.H {
	return gin.H{
		"id":    admin.ID,
		"email": admin.Email,
		"name":  admin.Name,
		"role":  admin.Role,
	}
}

// Login authenticates an admin account.
func (h *Handler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed"})
		return
	}

	admin, token, err := h.users.AuthenticateAdmin(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
			return
		}
		slog.Error("Admin login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Admin login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin login successful",
		"data": gin.H{
			"admin": adminPayload(admin),
			"token": token,
		},
	})
}

// Profile returns the authenticated admin.
func (h *Handler) Profile(c *gin.Context) {
	admin, ok := auth.CurrentAdmin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Admin access token required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"admin": adminPayload(admin)},
	})
}

// Dashboard returns today's counters, lifetime totals and the weekly
// analytics series.
func (h *Handler) Dashboard(c *gin.Context) {
	repo := h.users.Repo()

	today, err := repo.GetTodayAnalytics()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	totalUsers, err := repo.CountUsers()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	totalProjects, err := repo.CountProjects()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	premiumUsers, err := repo.CountPremiumUsers()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	recentUsers, err := repo.CountRecentUsers()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	recentProjects, err := repo.CountRecentProjects()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	weekly, err := repo.GetWeeklyAnalytics()
	if err != nil {
		h.dashboardError(c, err)
		return
	}

	if weekly == nil {
		weekly = []database.AnalyticsRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"today": today,
			"totals": gin.H{
				"users":           totalUsers,
				"projects":        totalProjects,
				"premium_users":   premiumUsers,
				"recent_users":    recentUsers,
				"recent_projects": recentProjects,
			},
			"weekly": weekly,
		},
	})
}

func (h *Handler) dashboardError(c *gin.Context, err error) {
	slog.Error("Dashboard analytics failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get dashboard analytics"})
}

// Users returns a paginated, searchable user list.
func (h *Handler) Users(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	search := c.Query("search")

	users, total, err := h.users.Repo().ListUsers(search, limit, (page-1)*limit)
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to get users"})
		return
	}

	if users == nil {
		users = []database.User{}
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users": users,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": pages,
			},
		},
	})
}

// UpdateSubscription switches a user between free and premium tiers.
func (h *Handler) UpdateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid subscription type"})
		return
	}

	userID := c.Param("id")
	repo := h.users.Repo()

	user, err := repo.GetUserByID(userID)
	if err != nil {
		slog.Error("Failed to look up user", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update subscription"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
		return
	}

	if err := repo.SetSubscription(userID, req.SubscriptionType); err != nil {
		slog.Error("Failed to update subscription", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User subscription updated to " + req.SubscriptionType,
	})
}
