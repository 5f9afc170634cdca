package service

import (
	"net/http"
	"strings"

	"gearbook/response"
	"gearbook/util"

	"github.com/gin-gonic/gin"
)

const ContextUserKey = "user"

// AuthMiddleware checks the Bearer token and stores the decoded identity
// in the gin context under ContextUserKey.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization token is required", response.InvalidToken)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}", response.InvalidToken)
			c.Abort()
			return
		}

		msg, err := util.GetTokenMgr().CheckToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token", response.TokenExpired)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, msg)
		c.Next()
	}
}
