package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"board-api/models"
	"board-api/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "user_id"
	userKey   = "user"

	AdminTokenHeader = "X-Admin-Token"
)

// Authenticator resolves a bearer token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the caller in
// the context under "user_id" and "user".
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header with a Bearer token is required",
				Code:    http.StatusUnauthorized,
			})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.SendAppError(c, err)
			c.Abort()
			return
		}

		c.Set(userIDKey, user.ID)
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets anonymous
// requests through otherwise.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userIDKey, user.ID)
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated caller's id, or 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// RequireAdminToken guards administrative endpoints. An empty configured token disables them.
func RequireAdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		given := c.GetHeader(AdminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
				Error:   "Forbidden",
				Message: "Valid admin token required",
				Code:    http.StatusForbidden,
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
