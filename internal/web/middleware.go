package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sidyaa10/Task-Zen/internal/auth"
)

const userIDKey = "userID"

// requireAuth verifies the session cookie and injects the owner identity.
// The task API never accepts an owner ID from request data.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		claims, err := auth.VerifyToken(token, s.secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(userIDKey, claims.Subject)
		c.Next()
	}
}

// requestLogger logs one line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
