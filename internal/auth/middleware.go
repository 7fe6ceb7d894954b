// Package auth provides session middleware and the account endpoints.
package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/launchlens/startup-meter/internal/database"
)

// Context keys set by the middleware for downstream handlers.
const (
	ContextUserKey  = "auth_user"
	ContextAdminKey = "auth_admin"
)

// Middleware authenticates requests against the user and admin tables.
type Middleware struct {
	users *database.UserService
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(users *database.UserService) *Middleware {
	return &Middleware{users: users}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// Authenticate requires a valid user session token. The resolved user is
// stored in the request context.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "Access token required"})
			return
		}

		userID, err := m.users.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}

		user, err := m.users.Repo().GetUserByID(userID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "User not found or inactive"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminAuth requires a valid token minted for an active admin account.
func (m *Middleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "Admin access token required"})
			return
		}

		adminID, err := m.users.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"success": false, "error": "Invalid or expired admin token"})
			return
		}

		admin, err := m.users.Repo().GetAdminByID(adminID)
		if err != nil || admin == nil {
			c.AbortWithStatusJSON(403, gin.H{"success": false, "error": "Admin access required"})
			return
		}

		c.Set(ContextAdminKey, admin)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the request context.
func CurrentUser(c *gin.Context) (*database.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*database.User)
	return user, ok
}

// CurrentAdmin pulls the authenticated admin out of the request context.
func CurrentAdmin(c *gin.Context) (*database.AdminUser, bool) {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil, false
	}
	admin, ok := value.(*database.AdminUser)
	return admin, ok
}
