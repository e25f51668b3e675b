package dto

import (
	"time"

	"github.com/yukikurage/recipe-api/internal/constants"
	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/services"
)

// LabelDTO represents a tag or an ingredient in API responses
type LabelDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// RecipeListItemDTO represents a recipe in list responses. Description is
// only part of the detail view.
type RecipeListItemDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	TimeMinutes int        `json:"time_minutes"`
	Price       string     `json:"price"`
	Link        string     `json:"link"`
	Tags        []LabelDTO `json:"tags"`
	Ingredients []LabelDTO `json:"ingredients"`
}

// RecipeDTO represents a single recipe in API responses
type RecipeDTO struct {
	RecipeListItemDTO
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecipeDraftDTO is a suggested recipe, shaped like a create request
type RecipeDraftDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TimeMinutes int             `json:"time_minutes"`
	Price       string          `json:"price"`
	Link        string          `json:"link"`
	Tags        []LabelInputDTO `json:"tags"`
	Ingredients []LabelInputDTO `json:"ingredients"`
}

// LabelInputDTO is a label reference by name, as accepted on recipe writes
type LabelInputDTO struct {
	Name string `json:"name"`
}

// ToLabelDTO converts a tag or an ingredient to LabelDTO
func ToLabelDTO[T any, PT models.LabelPtr[T]](label *T) LabelDTO {
	return LabelDTO{
		ID:   PT(label).GetID(),
		Name: PT(label).GetName(),
	}
}

// ToLabelDTOs converts a slice of tags or ingredients
func ToLabelDTOs[T any, PT models.LabelPtr[T]](labels []T) []LabelDTO {
	items := make([]LabelDTO, len(labels))
	for i := range labels {
		items[i] = ToLabelDTO[T, PT](&labels[i])
	}
	return items
}

// ToRecipeListItemDTO converts a Recipe model to RecipeListItemDTO
func ToRecipeListItemDTO(recipe models.Recipe) RecipeListItemDTO {
	return RecipeListItemDTO{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price.StringFixed(constants.PricePlaces),
		Link:        recipe.Link,
		Tags:        ToLabelDTOs[models.Tag, *models.Tag](recipe.Tags),
		Ingredients: ToLabelDTOs[models.Ingredient, *models.Ingredient](recipe.Ingredients),
	}
}

// ToRecipeDTO converts a Recipe model to RecipeDTO
func ToRecipeDTO(recipe models.Recipe) RecipeDTO {
	return RecipeDTO{
		RecipeListItemDTO: ToRecipeListItemDTO(recipe),
		Description:       recipe.Description,
		CreatedAt:         recipe.CreatedAt,
		UpdatedAt:         recipe.UpdatedAt,
	}
}

// ToRecipeListDTO converts a slice of recipes to list items
func ToRecipeListDTO(recipes []models.Recipe) []RecipeListItemDTO {
	items := make([]RecipeListItemDTO, len(recipes))
	for i, recipe := range recipes {
		items[i] = ToRecipeListItemDTO(recipe)
	}
	return items
}

// ToRecipeDraftDTO converts a draft to the shape of a create request
func ToRecipeDraftDTO(draft services.RecipeDraft) RecipeDraftDTO {
	return RecipeDraftDTO{
		Title:       draft.Title,
		Description: draft.Description,
		TimeMinutes: draft.TimeMinutes,
		Price:       draft.Price.StringFixed(constants.PricePlaces),
		Link:        draft.Link,
		Tags:        toLabelInputs(draft.Tags),
		Ingredients: toLabelInputs(draft.Ingredients),
	}
}

func toLabelInputs(names []string) []LabelInputDTO {
	items := make([]LabelInputDTO, len(names))
	for i, name := range names {
		items[i] = LabelInputDTO{Name: name}
	}
	return items
}
