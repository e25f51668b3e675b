package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/repository"
	"github.com/yukikurage/recipe-api/internal/validation"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeService implements the recipe store. Writes run in one transaction
// so a recipe never ends up half linked.
type RecipeService struct {
	store     *repository.Store
	validator *validation.Validator
}

// NewRecipeService creates a new RecipeService
func NewRecipeService(store *repository.Store, validator *validation.Validator) *RecipeService {
	return &RecipeService{
		store:     store,
		validator: validator,
	}
}

// RecipeInput carries recipe attributes. Nil fields were not supplied.
// Tags and Ingredients are label names; a non-nil empty slice clears links.
type RecipeInput struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// ListRecipesInput represents filters for listing recipes
type ListRecipesInput struct {
	UserID        uint64
	TagIDs        []uint64
	IngredientIDs []uint64
}

// recipeFields mirrors the scalar columns for validation
type recipeFields struct {
	Title       string          `json:"title" validate:"recipetitle"`
	Description string          `json:"description"`
	TimeMinutes int             `json:"time_minutes" validate:"gte=0"`
	Price       decimal.Decimal `json:"price" validate:"price"`
	Link        string          `json:"link" validate:"omitempty,recipelink"`
}

// List returns the user's recipes, newest first
func (s *RecipeService) List(input ListRecipesInput) ([]models.Recipe, error) {
	recipes, err := s.store.Recipes.List(repository.RecipeFilter{
		UserID:        input.UserID,
		TagIDs:        input.TagIDs,
		IngredientIDs: input.IngredientIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one of the user's recipes with its tags and ingredients
func (s *RecipeService) Get(id, userID uint64) (*models.Recipe, error) {
	return findRecipe(s.store, id, userID)
}

// Create creates a recipe owned by userID and links the named tags and
// ingredients, creating the ones the user does not have yet.
func (s *RecipeService) Create(userID uint64, input RecipeInput) (*models.Recipe, error) {
	if err := requireFullInput(input); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{UserID: userID}
	applyRecipeInput(recipe, input, false)
	if err := s.validate(recipe); err != nil {
		return nil, err
	}

	var created *models.Recipe
	err := s.store.Transaction(func(tx *repository.Store) error {
		if err := tx.Recipes.Create(recipe); err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := relinkLabels(tx, recipe.ID, userID, input); err != nil {
			return err
		}

		var err error
		created, err = findRecipe(tx, recipe.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Update applies a partial update. Only supplied fields change; supplied
// label lists replace the existing links.
func (s *RecipeService) Update(id, userID uint64, input RecipeInput) (*models.Recipe, error) {
	return s.update(id, userID, input, false)
}

// Replace applies a full update. Title, time and price are required and
// omitted optional fields are reset.
func (s *RecipeService) Replace(id, userID uint64, input RecipeInput) (*models.Recipe, error) {
	if err := requireFullInput(input); err != nil {
		return nil, err
	}
	return s.update(id, userID, input, true)
}

// Delete hard deletes one of the user's recipes
func (s *RecipeService) Delete(id, userID uint64) error {
	return s.store.Transaction(func(tx *repository.Store) error {
		recipe, err := findRecipe(tx, id, userID)
		if err != nil {
			return err
		}

		if err := tx.Recipes.Delete(recipe); err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

func (s *RecipeService) update(id, userID uint64, input RecipeInput, reset bool) (*models.Recipe, error) {
	var updated *models.Recipe
	err := s.store.Transaction(func(tx *repository.Store) error {
		recipe, err := findRecipe(tx, id, userID)
		if err != nil {
			return err
		}

		applyRecipeInput(recipe, input, reset)
		if err := s.validate(recipe); err != nil {
			return err
		}

		if err := tx.Recipes.Update(recipe); err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := relinkLabels(tx, recipe.ID, userID, input); err != nil {
			return err
		}

		updated, err = findRecipe(tx, recipe.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *RecipeService) validate(recipe *models.Recipe) error {
	return s.validator.Validate(recipeFields{
		Title:       recipe.Title,
		Description: recipe.Description,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
	})
}

func findRecipe(store *repository.Store, id, userID uint64) (*models.Recipe, error) {
	recipe, err := store.Recipes.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return recipe, nil
}

// relinkLabels replaces the tag and ingredient links named in input. Labels
// are always looked up or created under the recipe owner.
func relinkLabels(tx *repository.Store, recipeID, userID uint64, input RecipeInput) error {
	if input.Tags != nil {
		ids, err := reconcileLabels[models.Tag, *models.Tag](tx.Tags, userID, *input.Tags)
		if err != nil {
			return err
		}
		if err := tx.Recipes.ReplaceTags(recipeID, ids); err != nil {
			return fmt.Errorf("failed to link tags: %w", err)
		}
	}

	if input.Ingredients != nil {
		ids, err := reconcileLabels[models.Ingredient, *models.Ingredient](tx.Ingredients, userID, *input.Ingredients)
		if err != nil {
			return err
		}
		if err := tx.Recipes.ReplaceIngredients(recipeID, ids); err != nil {
			return fmt.Errorf("failed to link ingredients: %w", err)
		}
	}

	return nil
}

func applyRecipeInput(recipe *models.Recipe, input RecipeInput, reset bool) {
	if reset {
		recipe.Description = ""
		recipe.Link = ""
	}

	if input.Title != nil {
		recipe.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		recipe.Description = *input.Description
	}
	if input.TimeMinutes != nil {
		recipe.TimeMinutes = *input.TimeMinutes
	}
	if input.Price != nil {
		recipe.Price = *input.Price
	}
	if input.Link != nil {
		recipe.Link = strings.TrimSpace(*input.Link)
	}
}

func requireFullInput(input RecipeInput) error {
	missing := make(map[string]string)
	if input.Title == nil {
		missing["title"] = "is required"
	}
	if input.TimeMinutes == nil {
		missing["time_minutes"] = "is required"
	}
	if input.Price == nil {
		missing["price"] = "is required"
	}
	if len(missing) > 0 {
		return &validation.Error{Fields: missing}
	}
	return nil
}
