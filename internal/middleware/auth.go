package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"feiraja/internal/services"
)

const (
	ctxAdminID       = "admin_id"
	ctxAdminUsername = "admin_username"
)

// TokenParser проверяет токен администратора.
type TokenParser interface {
	ParseToken(token string) (*services.AdminClaims, error)
}

// AdminAuth: нет токена -> 401, токен невалиден или истёк -> 403.
func AdminAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// пропускаем preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		claims, err := parser.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxAdminID, claims.ID)
		c.Set(ctxAdminUsername, claims.Username)
		c.Next()
	}
}

// AdminID возвращает id администратора, проставленный AdminAuth.
func AdminID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxAdminID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
