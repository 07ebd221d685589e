package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderToken is the header the client sends the session token in.
const HeaderToken = "x-auth-token"

const contextKeyUserID = "user_id"

// UserIDFromContext returns the current user ID set by RequireToken. Empty if not set.
func UserIDFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return ""
	}
	id, ok := v.(string)
	if !ok {
		return ""
	}
	return id
}

// RequireToken returns a middleware that verifies the x-auth-token header
// and sets the current user ID in context. If missing or invalid, responds with 401.
func RequireToken(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(HeaderToken)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}
		userID, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}
		c.Set(contextKeyUserID, userID)
		c.Next()
	}
}
