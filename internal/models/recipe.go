package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe join tables
const (
	RecipeTagsTable        = "recipe_tags"
	RecipeIngredientsTable = "recipe_ingredients"
)

type Recipe struct {
	ID          uint64          `gorm:"primarykey" json:"id"`
	UserID      uint64          `gorm:"not null;index" json:"-"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	TimeMinutes int             `gorm:"not null" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"price"`
	Link        string          `gorm:"type:varchar(255)" json:"link"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}
