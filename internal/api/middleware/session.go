package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/session"
)

const UserContextKey = "user"

// SessionMiddleware resolves the cached identity and stores it in the
// request context. It never aborts; endpoints that need a user (or an admin)
// layer RequireUser / RequireAdmin on top.
func SessionMiddleware(sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := sessions.CurrentUser(); ok {
			c.Set(UserContextKey, user)
		}
		c.Next()
	}
}

// RequireUser aborts with 401 when no identity is cached
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "please login first"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the cached identity is an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "please login first"})
			c.Abort()
			return
		}
		if !user.Admin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserFromContext retrieves the identity from the Gin context
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(UserContextKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
