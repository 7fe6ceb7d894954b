// Package projects serves the saved-evaluation endpoints. Every route is
// scoped to the authenticated user.
package projects

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchlens/startup-meter/internal/auth"
	"github.com/launchlens/startup-meter/internal/database"
)

// Handler serves the project CRUD endpoints.
type Handler struct {
	repo *database.Repository
}

// NewHandler creates the projects handler.
func NewHandler(repo *database.Repository) *Handler {
	return &Handler{repo: repo}
}

// RegisterRoutes mounts the project endpoints on the given group. All
// routes require authentication.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, mw *auth.Middleware) {
	group.Use(mw.Authenticate())
	group.POST("/save", h.Save)
	group.GET("/my-projects", h.List)
	group.GET("/:projectId", h.Get)
	group.DELETE("/:projectId", h.Delete)
}

type saveRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Answers        json.RawMessage `json:"answers" binding:"required"`
	EvaluationData json.RawMessage `json:"evaluationData" binding:"required"`
	OverallScore   int             `json:"overallScore"`
}

// Save stores a new evaluation for the authenticated user. Answers and
// evaluation data are persisted as JSON text.
func (h *Handler) Save(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields: name, answers, evaluationData",
		})
		return
	}

	project := database.NewProject(user.ID, req.Name, req.Description,
		string(req.Answers), string(req.EvaluationData), req.OverallScore)

	if err := h.repo.CreateProject(project); err != nil {
		slog.Error("Failed to save project", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"projectId": project.ID,
		"message":   "Project saved successfully",
	})
}

// List returns summaries of the authenticated user's projects.
func (h *Handler) List(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	projects, err := h.repo.ListProjectsByUser(user.ID)
	if err != nil {
		slog.Error("Failed to fetch projects", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch projects"})
		return
	}

	if projects == nil {
		projects = []database.ProjectSummary{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projects": projects,
	})
}

// Get returns one project with its stored answers and evaluation data.
func (h *Handler) Get(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	project, err := h.repo.GetProject(c.Param("projectId"), user.ID)
	if err != nil {
		slog.Error("Failed to fetch project", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch project"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": gin.H{
			"id":             project.ID,
			"name":           project.Name,
			"description":    project.Description,
			"answers":        json.RawMessage(project.Answers),
			"evaluationData": json.RawMessage(project.EvaluationData),
			"overallScore":   project.OverallScore,
			"createdAt":      project.CreatedAt,
			"updatedAt":      project.UpdatedAt,
		},
	})
}

// Delete removes one project owned by the authenticated user.
func (h *Handler) Delete(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Access token required"})
		return
	}

	deleted, err := h.repo.DeleteProject(c.Param("projectId"), user.ID)
	if err != nil {
		slog.Error("Failed to delete project", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete project"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Project deleted successfully",
	})
}
