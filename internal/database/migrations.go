package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/models"
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	}
}

// Migrate creates or updates the schema and the secondary indexes.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return err
	}
	log.Info("database migrations completed")
	return nil
}

// AddIndexes adds the reverse lookup indexes on the recipe join tables. The
// join tables only carry a (recipe_id, label_id) primary key, which does not
// serve "which recipes use this tag" queries.
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{models.RecipeTagsTable, "idx_recipe_tags_tag_id", "tag_id"},
		{models.RecipeIngredientsTable, "idx_recipe_ingredients_ingredient_id", "ingredient_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
