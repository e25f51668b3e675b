package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/recipe-api/internal/dto"
	"github.com/yukikurage/recipe-api/internal/models"
)

func recipeURL(id uint64) string {
	return fmt.Sprintf("/api/recipes/%d", id)
}

func (suite *HandlerTestSuite) TestListRecipes_Unauthorized() {
	w := suite.request(http.MethodGet, "/api/recipes", nil, "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// ListRecipes called without the auth middleware must not fall through
func (suite *HandlerTestSuite) TestListRecipes_NoUserInContext() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/recipes", nil)

	NewRecipeHandler(suite.svc.Recipes, nil).ListRecipes(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestListRecipes_NewestFirstAndOwnOnly() {
	user, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")
	first := suite.createTestRecipe(user.ID, "First")
	second := suite.createTestRecipe(user.ID, "Second")
	suite.createTestRecipe(other.ID, "Foreign")

	w := suite.request(http.MethodGet, "/api/recipes", nil, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response []dto.RecipeListItemDTO
	suite.decode(w, &response)
	suite.Require().Len(response, 2)
	assert.Equal(suite.T(), second.ID, response[0].ID)
	assert.Equal(suite.T(), first.ID, response[1].ID)
	assert.Equal(suite.T(), "5.00", response[0].Price)
}

func (suite *HandlerTestSuite) TestListRecipes_FilterByTags() {
	user, token := suite.createTestUser("user@example.com")
	curry := suite.createTestRecipe(user.ID, "Thai vegetable curry", "Vegan")
	suite.createTestRecipe(user.ID, "Fish and chips")

	url := fmt.Sprintf("/api/recipes?tags=%d", curry.Tags[0].ID)
	w := suite.request(http.MethodGet, url, nil, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response []dto.RecipeListItemDTO
	suite.decode(w, &response)
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), curry.ID, response[0].ID)

	w = suite.request(http.MethodGet, "/api/recipes?tags=abc", nil, token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateRecipe_WithTagsAndIngredients() {
	user, token := suite.createTestUser("user@example.com")
	suite.svc.Tags.GetOrCreate(user.ID, "Indian")

	w := suite.request(http.MethodPost, "/api/recipes", map[string]any{
		"title":        "Pongal",
		"time_minutes": 60,
		"price":        "4.50",
		"tags":         []map[string]string{{"name": "Indian"}, {"name": "Breakfast"}},
		"ingredients":  []map[string]string{{"name": "Rice"}, {"name": "Rice"}},
	}, token)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var response dto.RecipeDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Pongal", response.Title)
	assert.Equal(suite.T(), "4.50", response.Price)
	assert.Len(suite.T(), response.Tags, 2)
	assert.Len(suite.T(), response.Ingredients, 1)

	var tagCount int64
	suite.db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount)
	assert.Equal(suite.T(), int64(2), tagCount)
}

func (suite *HandlerTestSuite) TestCreateRecipe_NumericPrice() {
	_, token := suite.createTestUser("user@example.com")

	w := suite.request(http.MethodPost, "/api/recipes", map[string]any{
		"title":        "Toast",
		"time_minutes": 5,
		"price":        1.5,
	}, token)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var response dto.RecipeDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "1.50", response.Price)
}

func (suite *HandlerTestSuite) TestCreateRecipe_ValidationFailed() {
	_, token := suite.createTestUser("user@example.com")

	w := suite.request(http.MethodPost, "/api/recipes", map[string]any{
		"title": "No time or price",
	}, token)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "time_minutes")
}

func (suite *HandlerTestSuite) TestGetRecipe() {
	user, token := suite.createTestUser("user@example.com")
	recipe := suite.createTestRecipe(user.ID, "Soup", "Dinner")

	w := suite.request(http.MethodGet, recipeURL(recipe.ID), nil, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.RecipeDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), dto.ToRecipeDTO(*recipe).Tags, response.Tags)
}

func (suite *HandlerTestSuite) TestGetRecipe_ForeignOrMissingIsNotFound() {
	owner, _ := suite.createTestUser("owner@example.com")
	_, token := suite.createTestUser("intruder@example.com")
	recipe := suite.createTestRecipe(owner.ID, "Secret")

	for _, url := range []string{recipeURL(recipe.ID), recipeURL(recipe.ID + 100), "/api/recipes/abc"} {
		w := suite.request(http.MethodGet, url, nil, token)
		assert.Equal(suite.T(), http.StatusNotFound, w.Code, url)
	}
}

func (suite *HandlerTestSuite) TestUpdateRecipe_Partial() {
	user, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")
	recipe := suite.createTestRecipe(user.ID, "Soup", "Dinner")

	w := suite.request(http.MethodPatch, recipeURL(recipe.ID), map[string]any{
		"title": "Better soup",
		"user":  other.ID,
		"tags":  []map[string]string{},
	}, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.RecipeDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), "Better soup", response.Title)
	assert.Empty(suite.T(), response.Tags)
	assert.Equal(suite.T(), "5.00", response.Price)

	var stored models.Recipe
	suite.Require().NoError(suite.db.First(&stored, recipe.ID).Error)
	assert.Equal(suite.T(), user.ID, stored.UserID)
}

func (suite *HandlerTestSuite) TestReplaceRecipe() {
	user, token := suite.createTestUser("user@example.com")
	recipe := suite.createTestRecipe(user.ID, "Soup")

	w := suite.request(http.MethodPut, recipeURL(recipe.ID), map[string]any{
		"title":        "Spaghetti carbonara",
		"time_minutes": 25,
		"price":        "5.00",
		"link":         "https://example.com/recipe.pdf",
	}, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.RecipeDTO
	suite.decode(w, &response)
	assert.Equal(suite.T(), 25, response.TimeMinutes)
	assert.Equal(suite.T(), "https://example.com/recipe.pdf", response.Link)

	w = suite.request(http.MethodPut, recipeURL(recipe.ID), map[string]any{"title": "Missing"}, token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteRecipe() {
	user, token := suite.createTestUser("user@example.com")
	recipe := suite.createTestRecipe(user.ID, "Soup")

	w := suite.request(http.MethodDelete, recipeURL(recipe.ID), nil, token)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *HandlerTestSuite) TestDeleteRecipe_ForeignIsNotFound() {
	owner, _ := suite.createTestUser("owner@example.com")
	_, token := suite.createTestUser("intruder@example.com")
	recipe := suite.createTestRecipe(owner.ID, "Secret")

	w := suite.request(http.MethodDelete, recipeURL(recipe.ID), nil, token)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	var count int64
	suite.db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *HandlerTestSuite) TestDraftRecipe_NotConfigured() {
	_, token := suite.createTestUser("user@example.com")

	w := suite.request(http.MethodPost, "/api/recipes/draft", map[string]string{"text": "soup"}, token)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}
