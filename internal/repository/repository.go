package repository

import (
	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// Update saves every column of the user
	Update(user *models.User) error
}

// LabelRepository defines data access for a user-owned label kind (tags and
// ingredients share it). Every lookup is scoped to the owning user.
type LabelRepository[T any] interface {
	// ListByUser lists the user's labels by name descending. With assignedOnly
	// set, only labels linked to at least one recipe are returned.
	ListByUser(userID uint64, assignedOnly bool) ([]T, error)

	// FindOwned finds a label by ID among the user's labels
	FindOwned(id, userID uint64) (*T, error)

	// GetOrCreate returns the user's label with the given name, inserting it
	// when missing. The bool reports whether a row was inserted.
	GetOrCreate(userID uint64, name string) (*T, bool, error)

	// Update saves the label
	Update(label *T) error

	// Delete removes the label and its recipe links
	Delete(label *T) error
}

// RecipeRepository defines the interface for recipe data access
type RecipeRepository interface {
	// Create inserts the recipe row without touching its links
	Create(recipe *models.Recipe) error

	// FindOwned finds a recipe by ID among the user's recipes, with tags and ingredients
	FindOwned(id, userID uint64) (*models.Recipe, error)

	// List lists the user's recipes, most recent first
	List(filter RecipeFilter) ([]models.Recipe, error)

	// Update saves the scalar columns; the owner is never written
	Update(recipe *models.Recipe) error

	// ReplaceTags clears the recipe's tag links and links tagIDs
	ReplaceTags(recipeID uint64, tagIDs []uint64) error

	// ReplaceIngredients clears the recipe's ingredient links and links ingredientIDs
	ReplaceIngredients(recipeID uint64, ingredientIDs []uint64) error

	// Delete removes the recipe and its links
	Delete(recipe *models.Recipe) error
}

// RecipeFilter holds filtering options for listing recipes
type RecipeFilter struct {
	UserID        uint64
	TagIDs        []uint64
	IngredientIDs []uint64
}

// Store groups the repositories bound to one database handle.
type Store struct {
	db          *gorm.DB
	Users       UserRepository
	Tags        LabelRepository[models.Tag]
	Ingredients LabelRepository[models.Ingredient]
	Recipes     RecipeRepository
}

// NewStore creates a Store whose repositories share db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewUserRepository(db),
		Tags:        NewTagRepository(db),
		Ingredients: NewIngredientRepository(db),
		Recipes:     NewRecipeRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// The transaction commits when fn returns nil.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
