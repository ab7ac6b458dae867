package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mutu-s/MonFair-sub001/internal/services"
)

const (
	ContextAddress   = "address"
	ContextSessionID = "session_id"
)

// OptionalAuth accepts anonymous callers but rejects a bad bearer token.
func OptionalAuth(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
				c.Abort()
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextAddress, claims.Address)
		c.Set(ContextSessionID, claims.SessionID)

		c.Next()
	}
}

// RequireAuth rejects callers that OptionalAuth left anonymous.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextAddress) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Subject identifies the caller for rate limiting: the wallet address when
// authenticated, the client IP otherwise.
func Subject(c *gin.Context) string {
	if addr := c.GetString(ContextAddress); addr != "" {
		return addr
	}
	return "ip:" + c.ClientIP()
}

func RateLimitMiddleware(limiter services.RateLimiter, action string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.CheckRateLimit(c.Request.Context(), Subject(c), action, limit, window)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limit check failed"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
