// Package middleware gin 中间件
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialverse/pkg/logger"
	"github.com/d60-Lab/socialverse/pkg/response"
)

const userIDKey = "userID"

// TokenVerifier is the part of the auth service the middleware needs.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Auth rejects the request with 401 unless it carries a valid bearer token.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing Authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(c, "invalid Authorization header format")
			return
		}

		userID, err := v.VerifyToken(strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Debug("token validation failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
