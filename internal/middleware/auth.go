package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/recipe-api/internal/constants"
	apierrors "github.com/yukikurage/recipe-api/internal/errors"
	"github.com/yukikurage/recipe-api/internal/models"
)

// UserResolver looks up the active user behind a credential
type UserResolver interface {
	ResolveToken(token string) (*models.User, error)
	GetActiveUser(id uint64) (*models.User, error)
}

// RequireAuth authenticates the request with a bearer token and falls back
// to the session cookie set by the token endpoint.
func RequireAuth(users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			user *models.User
			err  error
		)

		if header := c.GetHeader("Authorization"); header != "" {
			token, ok := strings.CutPrefix(header, constants.BearerPrefix)
			if !ok || token == "" {
				apierrors.Unauthorized(c, "Invalid authorization header")
				return
			}
			user, err = users.ResolveToken(strings.TrimSpace(token))
		} else {
			userID, ok := sessionUserID(sessions.Default(c))
			if !ok {
				apierrors.Unauthorized(c, "")
				return
			}
			user, err = users.GetActiveUser(userID)
		}

		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired credentials")
			return
		}

		// Store the user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func sessionUserID(session sessions.Session) (uint64, bool) {
	value := session.Get(constants.ContextKeyUserID)
	if value == nil {
		return 0, false
	}
	return toUserID(value)
}

func toUserID(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
