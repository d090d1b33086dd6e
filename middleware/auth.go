// Package middleware holds gin middleware shared by the API routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

const userIDKey = "userID"

// TokenParser verifies session tokens
type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// RequireAuth rejects requests without a valid session token. The token is
// read from the auth cookie first, then from an Authorization: Bearer header.
func RequireAuth(parser TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by RequireAuth
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": utils.ErrUnauthorized})
}
