package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/notesapp/notes-api/internal/constants"
	apierrors "github.com/notesapp/notes-api/internal/errors"
	"github.com/notesapp/notes-api/internal/token"
)

// RequireAuth verifies the signed session token on every protected
// endpoint. The token is read from the http-only cookie, or from the
// Authorization header for non-cookie clients.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(constants.SessionCookieName)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			message := "Invalid session"
			if err == token.ErrExpiredToken {
				message = "Session expired, please log in again"
			}
			apierrors.Unauthorized(c, message)
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}
