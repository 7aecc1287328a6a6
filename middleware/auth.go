package middleware

import (
	"strings"
	"time"

	"rentsplit-backend/models"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthRequired validates the bearer token and re-resolves the caller's User
// row. Every downstream authorization check compares against the identity
// set here, never against anything the client sent in a request body.
func AuthRequired(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		if tokenStr == "" {
			utils.Unauthorized(c, "Missing authentication token")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			utils.Unauthorized(c, "User not found")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)
		c.Next()
	}
}
