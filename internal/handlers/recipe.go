package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yukikurage/recipe-api/internal/dto"
	apierrors "github.com/yukikurage/recipe-api/internal/errors"
	"github.com/yukikurage/recipe-api/internal/middleware"
	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/services"
	"github.com/yukikurage/recipe-api/internal/utils"
)

// RecipeHandler serves the recipe endpoints
type RecipeHandler struct {
	recipeService *services.RecipeService
	draftService  *services.DraftService
}

// NewRecipeHandler creates a RecipeHandler. draftService may be nil, in
// which case drafting answers 503.
func NewRecipeHandler(recipeService *services.RecipeService, draftService *services.DraftService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		draftService:  draftService,
	}
}

// recipeRequest is the body of recipe writes. Absent fields stay nil; an
// owner field in the body is not part of the request and is dropped.
type recipeRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	TimeMinutes *int                 `json:"time_minutes"`
	Price       *decimal.Decimal     `json:"price"`
	Link        *string              `json:"link"`
	Tags        *[]dto.LabelInputDTO `json:"tags"`
	Ingredients *[]dto.LabelInputDTO `json:"ingredients"`
}

func (r recipeRequest) toInput() services.RecipeInput {
	return services.RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        labelNames(r.Tags),
		Ingredients: labelNames(r.Ingredients),
	}
}

func labelNames(labels *[]dto.LabelInputDTO) *[]string {
	if labels == nil {
		return nil
	}
	names := make([]string, len(*labels))
	for i, l := range *labels {
		names[i] = l.Name
	}
	return &names
}

// ListRecipes returns the user's recipes, newest first. The tags and
// ingredients query parameters take comma separated ids.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tagIDs, err := utils.ParseIDList(c.Query("tags"))
	if err != nil {
		apierrors.ValidationFailed(c, map[string]string{"tags": err.Error()})
		return
	}
	ingredientIDs, err := utils.ParseIDList(c.Query("ingredients"))
	if err != nil {
		apierrors.ValidationFailed(c, map[string]string{"ingredients": err.Error()})
		return
	}

	recipes, err := h.recipeService.List(services.ListRecipesInput{
		UserID:        userID,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecipeListDTO(recipes))
}

// GetRecipe returns one of the user's recipes
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, id, ok := ownedRequest(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.Get(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecipeDTO(*recipe))
}

// CreateRecipe creates a recipe owned by the current user
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	recipe, err := h.recipeService.Create(userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecipeDTO(*recipe))
}

// UpdateRecipe applies a partial update
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.writeRecipe(c, h.recipeService.Update)
}

// ReplaceRecipe applies a full update
func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	h.writeRecipe(c, h.recipeService.Replace)
}

func (h *RecipeHandler) writeRecipe(c *gin.Context, write func(id, userID uint64, input services.RecipeInput) (*models.Recipe, error)) {
	userID, id, ok := ownedRequest(c)
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	recipe, err := write(id, userID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecipeDTO(*recipe))
}

// DeleteRecipe deletes one of the user's recipes
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, id, ok := ownedRequest(c)
	if !ok {
		return
	}

	if err := h.recipeService.Delete(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DraftRecipe suggests a recipe from free text using OpenAI. The draft is
// returned in the create request shape and is not saved.
func (h *RecipeHandler) DraftRecipe(c *gin.Context) {
	type DraftRequest struct {
		Text string `json:"text"`
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	draft, err := h.draftService.DraftFromText(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRecipeDraftDTO(*draft))
}
