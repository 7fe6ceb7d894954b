package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Headers())
	r.Use(ValidateContentType())
	r.POST("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestHeaders(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/echo", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "https://js.stripe.com")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS only applies over TLS")
}

func TestValidateContentType(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name        string
		contentType string
		wantStatus  int
	}{
		{name: "json", contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset", contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "form", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusOK},
		{name: "multipart", contentType: "multipart/form-data; boundary=x", wantStatus: http.StatusOK},
		{name: "no content type", contentType: "", wantStatus: http.StatusOK},
		{name: "xml rejected", contentType: "application/xml", wantStatus: http.StatusUnsupportedMediaType},
		{name: "plain text rejected", contentType: "text/plain", wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
