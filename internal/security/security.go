// Package security provides response hardening middleware.
package security

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Headers adds standard security headers to every response.
func Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking - allow Stripe checkout
		c.Header("X-Frame-Options", "SAMEORIGIN")

		// XSS protection
		c.Header("X-XSS-Protection", "1; mode=block")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		// Content Security Policy - allow Stripe checkout resources
		c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline' https://js.stripe.com https://checkout.stripe.com; style-src 'self' 'unsafe-inline'; connect-src 'self' https://api.stripe.com; frame-src https://checkout.stripe.com https://js.stripe.com")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=()")

		c.Next()
	}
}

// ValidateContentType rejects request bodies that are neither JSON nor
// form encoded.
func ValidateContentType() gin.HandlerFunc {
	allowedTypes := []string{
		"application/json",
		"application/x-www-form-urlencoded",
		"multipart/form-data",
	}

	return func(c *gin.Context) {
		contentType := c.GetHeader("Content-Type")
		if contentType == "" {
			c.Next()
			return
		}

		lowered := strings.ToLower(contentType)
		for _, allowed := range allowedTypes {
			if strings.Contains(lowered, allowed) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"success": false,
			"error":   "Unsupported content type",
		})
	}
}
