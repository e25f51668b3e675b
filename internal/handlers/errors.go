package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/recipe-api/internal/errors"
	"github.com/yukikurage/recipe-api/internal/services"
	"github.com/yukikurage/recipe-api/internal/validation"
)

// respondError maps service errors to API error responses. Unexpected errors
// are attached to the context for the request logger and answered with 500.
func respondError(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrIngredientNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrLabelNameTaken),
		errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrDraftServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrDraftEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
