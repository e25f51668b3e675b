package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/recipe-api/internal/dto"
	apierrors "github.com/yukikurage/recipe-api/internal/errors"
	"github.com/yukikurage/recipe-api/internal/middleware"
	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/services"
	"github.com/yukikurage/recipe-api/internal/utils"
)

// LabelHandler serves the tag and ingredient endpoints, which share a shape.
type LabelHandler[T any, PT models.LabelPtr[T]] struct {
	labels *services.LabelService[T, PT]
}

// TagHandler serves /tags
type TagHandler = LabelHandler[models.Tag, *models.Tag]

// IngredientHandler serves /ingredients
type IngredientHandler = LabelHandler[models.Ingredient, *models.Ingredient]

// NewTagHandler creates a TagHandler
func NewTagHandler(tags *services.TagService) *TagHandler {
	return &TagHandler{labels: tags}
}

// NewIngredientHandler creates an IngredientHandler
func NewIngredientHandler(ingredients *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{labels: ingredients}
}

type labelRequest struct {
	Name string `json:"name" binding:"required"`
}

// List returns the user's labels, optionally only those used by a recipe
func (h *LabelHandler[T, PT]) List(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	labels, err := h.labels.List(userID, utils.GetFlagQuery(c, "assigned_only"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLabelDTOs[T, PT](labels))
}

// Create returns the user's label with the given name, creating it when
// missing. 201 means a label was created, 200 that it already existed.
func (h *LabelHandler[T, PT]) Create(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, map[string]string{"name": "is required"})
		return
	}

	label, created, err := h.labels.GetOrCreate(userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ToLabelDTO[T, PT](label))
}

// Get returns one of the user's labels
func (h *LabelHandler[T, PT]) Get(c *gin.Context) {
	userID, id, ok := ownedRequest(c)
	if !ok {
		return
	}

	label, err := h.labels.Get(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLabelDTO[T, PT](label))
}

// Update renames one of the user's labels
func (h *LabelHandler[T, PT]) Update(c *gin.Context) {
	userID, id, ok := ownedRequest(c)
	if !ok {
		return
	}

	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, map[string]string{"name": "is required"})
		return
	}

	label, err := h.labels.Rename(id, userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLabelDTO[T, PT](label))
}

// Delete removes one of the user's labels
func (h *LabelHandler[T, PT]) Delete(c *gin.Context) {
	userID, id, ok := ownedRequest(c)
	if !ok {
		return
	}

	if err := h.labels.Delete(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ownedRequest reads the authenticated user and the :id path parameter. A
// malformed id is answered like a missing row.
func ownedRequest(c *gin.Context) (userID, id uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		apierrors.NotFound(c, "")
		return 0, 0, false
	}

	return userID, id, true
}
