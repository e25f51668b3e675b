package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/recipe-api/internal/database"
	"github.com/yukikurage/recipe-api/internal/models"
)

// ErrLabelVanished is returned when a label kept disappearing between the
// conflicting insert and the follow-up read.
var ErrLabelVanished = errors.New("label repository: label vanished during get-or-create")

const getOrCreateAttempts = 2

// GormLabelRepository is a GORM implementation of LabelRepository
type GormLabelRepository[T any, PT models.LabelPtr[T]] struct {
	db         *gorm.DB
	table      string
	joinTable  string
	joinColumn string
}

// NewTagRepository creates a LabelRepository for tags
func NewTagRepository(db *gorm.DB) LabelRepository[models.Tag] {
	return &GormLabelRepository[models.Tag, *models.Tag]{
		db:         db,
		table:      "tags",
		joinTable:  models.RecipeTagsTable,
		joinColumn: "tag_id",
	}
}

// NewIngredientRepository creates a LabelRepository for ingredients
func NewIngredientRepository(db *gorm.DB) LabelRepository[models.Ingredient] {
	return &GormLabelRepository[models.Ingredient, *models.Ingredient]{
		db:         db,
		table:      "ingredients",
		joinTable:  models.RecipeIngredientsTable,
		joinColumn: "ingredient_id",
	}
}

// ListByUser lists the user's labels ordered by name descending
func (r *GormLabelRepository[T, PT]) ListByUser(userID uint64, assignedOnly bool) ([]T, error) {
	labels := []T{}

	query := r.db.Model(PT(new(T))).Scopes(database.OwnedBy(userID))
	if assignedOnly {
		linked := r.db.Table(r.joinTable).
			Select("1").
			Where(fmt.Sprintf("%s.%s = %s.id", r.joinTable, r.joinColumn, r.table))
		query = query.Where("EXISTS (?)", linked)
	}

	if err := query.Order("name DESC").Order("id DESC").Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// FindOwned finds one of the user's labels by ID
func (r *GormLabelRepository[T, PT]) FindOwned(id, userID uint64) (*T, error) {
	var label T
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&label, id).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// GetOrCreate looks the label up and inserts it when missing. The insert
// ignores unique violations on (user_id, name). After such a conflict the row
// is re-read with a locking read, which sees the latest committed version even
// inside a REPEATABLE READ transaction whose snapshot predates it.
func (r *GormLabelRepository[T, PT]) GetOrCreate(userID uint64, name string) (*T, bool, error) {
	existing, err := r.findByName(r.db, userID, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	for range getOrCreateAttempts {
		label := PT(new(T))
		label.SetOwner(userID)
		label.SetName(name)

		result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(label)
		if result.Error != nil {
			return nil, false, result.Error
		}
		if result.RowsAffected == 1 {
			return (*T)(label), true, nil
		}

		locked := r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
		existing, err := r.findByName(locked, userID, name)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	return nil, false, ErrLabelVanished
}

// Update updates a label
func (r *GormLabelRepository[T, PT]) Update(label *T) error {
	return r.db.Save(PT(label)).Error
}

// Delete removes the label and its recipe links in a transaction
func (r *GormLabelRepository[T, PT]) Delete(label *T) error {
	id := PT(label).GetID()
	return r.db.Transaction(func(tx *gorm.DB) error {
		unlink := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", r.joinTable, r.joinColumn)
		if err := tx.Exec(unlink, id).Error; err != nil {
			return err
		}

		return tx.Delete(PT(label)).Error
	})
}

func (r *GormLabelRepository[T, PT]) findByName(db *gorm.DB, userID uint64, name string) (*T, error) {
	var label T
	if err := db.Scopes(database.OwnedBy(userID)).
		Where("name = ?", name).
		First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}
