package middleware

import (
	"net/http"
	"strings"

	"checkin/db"
	"checkin/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет Bearer-токен по таблице user_tokens и кладет
// user_id в контекст запроса
func AuthMiddleware(manager *db.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		var userToken models.UserTokens
		err := manager.Read(c.Request.Context()).
			Where("token = ?", token).
			First(&userToken).Error
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", userToken.UserID)
		c.Set("token", token)
		c.Next()
	}
}
