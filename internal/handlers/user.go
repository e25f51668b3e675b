package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/recipe-api/internal/constants"
	"github.com/yukikurage/recipe-api/internal/dto"
	apierrors "github.com/yukikurage/recipe-api/internal/errors"
	"github.com/yukikurage/recipe-api/internal/middleware"
	"github.com/yukikurage/recipe-api/internal/services"
)

// UserHandler serves registration, tokens and the current user's profile.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register creates a new user.
func (h *UserHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Token exchanges credentials for a bearer token and also starts a session.
func (h *UserHandler) Token(c *gin.Context) {
	type TokenRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, token, err := h.userService.Authenticate(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.TokenDTO{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

// Logout removes the authentication session. Bearer tokens stay valid
// until they expire.
func (h *UserHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

// UpdateMe applies a partial update to the authenticated user.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	h.updateMe(c, false)
}

// ReplaceMe applies a full update; email and password are required.
func (h *UserHandler) ReplaceMe(c *gin.Context) {
	h.updateMe(c, true)
}

func (h *UserHandler) updateMe(c *gin.Context, full bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if full {
		missing := map[string]string{}
		if req.Email == nil {
			missing["email"] = "is required"
		}
		if req.Password == nil {
			missing["password"] = "is required"
		}
		if len(missing) > 0 {
			apierrors.ValidationFailed(c, missing)
			return
		}
		if req.Name == nil {
			empty := ""
			req.Name = &empty
		}
	}

	user, err := h.userService.Update(userID, services.UpdateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
