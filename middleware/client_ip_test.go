package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextFor(t *testing.T, remoteAddr string, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestClientIPPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"forwarded-for wins", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.2"}, "203.0.113.7"},
		{"forwarded-for takes leftmost", "10.0.0.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.3"}, "203.0.113.7"},
		{"real-ip fallback", "10.0.0.1:1234", map[string]string{"X-Real-IP": "198.51.100.2"}, "198.51.100.2"},
		{"remote addr port stripped", "203.0.113.9:5678", nil, "203.0.113.9"},
		{"remote addr without port", "203.0.113.9", nil, "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := contextFor(t, tt.remoteAddr, tt.headers)
			assert.Equal(t, tt.want, clientIP(c))
		})
	}
}
