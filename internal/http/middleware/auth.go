package middleware

import (
	"net/http"
	"strings"

	"rps_arena/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountKey is the gin context key holding the authenticated account id.
const AccountKey = "account"

// JWT authenticates "Authorization: Bearer <token>" and stores the account.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "bearer token required"})
			return
		}

		account, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid token"})
			return
		}

		c.Set(AccountKey, account)
		c.Next()
	}
}

// Account returns the account set by JWT.
func Account(c *gin.Context) (string, bool) {
	v, ok := c.Get(AccountKey)
	if !ok {
		return "", false
	}
	account, ok := v.(string)
	return account, ok && account != ""
}
