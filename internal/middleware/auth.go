package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
)

// TokenValidator resolves an access token to its user. *service.AuthService implements it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.User, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// AuthMiddleware requires a valid bearer token
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return authenticate(validator, false)
}

// StreamAuthMiddleware also accepts the token as a "token" query parameter,
// since browsers cannot set headers on a WebSocket handshake
func StreamAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return authenticate(validator, true)
}

func authenticate(validator TokenValidator, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok && allowQuery {
			token = c.Query("token")
			ok = token != ""
		}
		if !ok {
			if c.GetHeader("Authorization") == "" {
				util.AbortWithError(c, util.ErrUnauthorized("Missing authorization header"))
			} else {
				util.AbortWithError(c, util.ErrUnauthorized("Invalid authorization header format"))
			}
			return
		}

		user, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			util.AbortWithError(c, err)
			return
		}

		c.Set(util.ContextUserID, user.ID)
		c.Set(util.ContextEmail, user.Email)
		c.Set(util.ContextToken, token)
		c.Next()
	}
}
