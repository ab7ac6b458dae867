package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutu-s/MonFair-sub001/internal/config"
	"github.com/Mutu-s/MonFair-sub001/internal/middleware"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
)

type countingLimiter struct {
	counts map[string]int
}

func (l *countingLimiter) CheckRateLimit(_ context.Context, subject, action string, limit int, _ time.Duration) (bool, error) {
	key := subject + "|" + action
	l.counts[key]++
	return l.counts[key] <= limit, nil
}

func newRouter(jwtService *services.JWTService, limiter services.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.OptionalAuth(jwtService))
	r.Use(middleware.RateLimitMiddleware(limiter, "verify", 2, time.Minute))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.Subject(c))
	})
	return r
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	jwtService := services.NewJWTService(&config.Config{JWTSecret: "secret"})
	r := newRouter(jwtService, &countingLimiter{counts: map[string]int{}})

	token, err := jwtService.GenerateToken("0xABC0000000000000000000000000000000000001")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xabc0000000000000000000000000000000000001", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ip:10.0.0.1", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	r := newRouter(services.NewJWTService(&config.Config{}), &countingLimiter{counts: map[string]int{}})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	jwtService := services.NewJWTService(&config.Config{JWTSecret: "secret"})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.OptionalAuth(jwtService))
	r.DELETE("/thing", middleware.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/thing", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtService.GenerateToken("0xABC0000000000000000000000000000000000001")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/thing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
