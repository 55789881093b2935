// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/logger"
	"tours-api/internal/models"
)

// Context keys for storing request data
const (
	UserKey = "user"
)

// Authenticator resolves a bearer token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Protect returns a middleware that requires a valid bearer token and stores
// the user in the context.
func Protect(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortWithError(c, apperrors.ErrNotLoggedIn)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// Identify is Protect that never fails. Anonymous callers and callers with a
// bad token continue without a user.
func Identify(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			user, err := auth.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Set(UserKey, user)
			} else {
				logger.FromContext(c.Request.Context()).Debug().Err(err).Msg("continuing anonymously")
			}
		}
		c.Next()
	}
}

// GetUser retrieves the authenticated user from the context.
// Returns nil if not found.
func GetUser(c *gin.Context) *models.User {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
