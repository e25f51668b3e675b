package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/database"
	"github.com/yukikurage/recipe-api/internal/models"
)

// GormRecipeRepository is a GORM implementation of RecipeRepository
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &GormRecipeRepository{db: db}
}

// Create creates a new recipe row. Links are written separately.
func (r *GormRecipeRepository) Create(recipe *models.Recipe) error {
	return r.db.Omit("Tags", "Ingredients").Create(recipe).Error
}

// FindOwned finds one of the user's recipes with its tags and ingredients
func (r *GormRecipeRepository) FindOwned(id, userID uint64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withLabels(r.db).
		Scopes(database.OwnedBy(userID)).
		First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List retrieves the user's recipes, newest first
func (r *GormRecipeRepository) List(filter RecipeFilter) ([]models.Recipe, error) {
	recipes := []models.Recipe{}

	query := r.db.Model(&models.Recipe{}).Scopes(database.OwnedBy(filter.UserID))

	if len(filter.TagIDs) > 0 {
		query = query.Where("EXISTS (?)", r.linkedTo(models.RecipeTagsTable, "tag_id", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		query = query.Where("EXISTS (?)", r.linkedTo(models.RecipeIngredientsTable, "ingredient_id", filter.IngredientIDs))
	}

	if err := r.withLabels(query).Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Update writes the scalar columns of a recipe
func (r *GormRecipeRepository) Update(recipe *models.Recipe) error {
	return r.db.Model(recipe).
		Select("title", "description", "time_minutes", "price", "link", "updated_at").
		Omit("Tags", "Ingredients").
		Updates(recipe).Error
}

// ReplaceTags replaces the tag links of a recipe
func (r *GormRecipeRepository) ReplaceTags(recipeID uint64, tagIDs []uint64) error {
	return r.replaceLinks(models.RecipeTagsTable, "tag_id", recipeID, tagIDs)
}

// ReplaceIngredients replaces the ingredient links of a recipe
func (r *GormRecipeRepository) ReplaceIngredients(recipeID uint64, ingredientIDs []uint64) error {
	return r.replaceLinks(models.RecipeIngredientsTable, "ingredient_id", recipeID, ingredientIDs)
}

// Delete hard deletes a recipe and its links
func (r *GormRecipeRepository) Delete(recipe *models.Recipe) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{models.RecipeTagsTable, models.RecipeIngredientsTable} {
			if err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE recipe_id = ?", table), recipe.ID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
}

func (r *GormRecipeRepository) replaceLinks(table, column string, recipeID uint64, ids []uint64) error {
	if err := r.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE recipe_id = ?", table), recipeID).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	rows := make([]map[string]any, len(ids))
	for i, id := range ids {
		rows[i] = map[string]any{"recipe_id": recipeID, column: id}
	}
	return r.db.Table(table).Create(&rows).Error
}

func (r *GormRecipeRepository) linkedTo(table, column string, ids []uint64) *gorm.DB {
	return r.db.Table(table).
		Select("1").
		Where(fmt.Sprintf("%s.recipe_id = recipes.id", table)).
		Where(fmt.Sprintf("%s.%s IN ?", table, column), ids)
}

func (r *GormRecipeRepository) withLabels(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name DESC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.name DESC") })
}
