package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/taskmaster/pkg/helpers"
	"github.com/oksasatya/taskmaster/pkg/response"
)

const CtxUserIDKey = "userID"

// bearerToken reads "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the session token and, when Redis is configured, ensures the login
// session recorded at sign-in still exists.
// It sets userID, userName and sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
			return
		}

		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), "user:session:"+claims.UserID).Result()
			if err == nil && len(data) == 0 {
				response.Error(c, http.StatusUnauthorized, "session not found", nil)
				return
			}
			// redis errors fail open; the signature check above already passed
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("userName", claims.Username)
		c.Set("sessionID", claims.SessionID)
		c.Next()
	}
}
