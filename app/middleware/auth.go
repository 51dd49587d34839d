package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"labourhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware simple token authentication; an empty apiKey disables it
func AuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			logger.WarnCtx(c.Request.Context(), "unauthorized request to %s, invalid API key", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "Unauthorized"})
			return
		}

		c.Next()
	}
}
