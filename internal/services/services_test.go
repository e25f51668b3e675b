package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/recipe-api/internal/auth"
	"github.com/yukikurage/recipe-api/internal/database"
	"github.com/yukikurage/recipe-api/internal/models"
	"github.com/yukikurage/recipe-api/internal/repository"
	"github.com/yukikurage/recipe-api/internal/validation"
)

type serviceTestEnv struct {
	db          *gorm.DB
	store       *repository.Store
	users       *UserService
	tags        *TagService
	ingredients *IngredientService
	recipes     *RecipeService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	store := repository.NewStore(db)
	return serviceTestEnv{
		db:          db,
		store:       store,
		users:       NewUserService(store.Users, auth.NewTokenIssuer([]byte("secret"), time.Hour)),
		tags:        NewTagService(store.Tags),
		ingredients: NewIngredientService(store.Ingredients),
		recipes:     NewRecipeService(store, validation.New()),
	}
}

func (env serviceTestEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.users.Register(RegisterInput{Email: email, Password: "testpass123"})
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T {
	return &v
}
