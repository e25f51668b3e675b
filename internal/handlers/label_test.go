package handlers

import (
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"

	"github.com/yukikurage/recipe-api/internal/dto"
	"github.com/yukikurage/recipe-api/internal/models"
)

func (suite *HandlerTestSuite) TestListTags() {
	user, token := suite.createTestUser("user@example.com")
	other, _ := suite.createTestUser("other@example.com")
	for _, name := range []string{"Dessert", "Vegan"} {
		_, _, err := suite.svc.Tags.GetOrCreate(user.ID, name)
		suite.Require().NoError(err)
	}
	_, _, err := suite.svc.Tags.GetOrCreate(other.ID, "Fruity")
	suite.Require().NoError(err)

	w := suite.request(http.MethodGet, "/api/tags", nil, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response []dto.LabelDTO
	suite.decode(w, &response)
	suite.Require().Len(response, 2)
	assert.Equal(suite.T(), "Vegan", response[0].Name)
	assert.Equal(suite.T(), "Dessert", response[1].Name)
}

func (suite *HandlerTestSuite) TestListIngredients_AssignedOnly() {
	user, token := suite.createTestUser("user@example.com")
	_, _, err := suite.svc.Ingredients.GetOrCreate(user.ID, "Turkey")
	suite.Require().NoError(err)

	recipe := suite.createTestRecipe(user.ID, "Eggs benedict")
	_, err = suite.svc.Recipes.Update(recipe.ID, user.ID, recipeInputWithIngredients("Eggs"))
	suite.Require().NoError(err)

	w := suite.request(http.MethodGet, "/api/ingredients?assigned_only=1", nil, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response []dto.LabelDTO
	suite.decode(w, &response)
	suite.Require().Len(response, 1)
	assert.Equal(suite.T(), "Eggs", response[0].Name)
}

func (suite *HandlerTestSuite) TestCreateTag_GetOrCreate() {
	_, token := suite.createTestUser("user@example.com")

	first := suite.request(http.MethodPost, "/api/tags", map[string]string{"name": "Lunch"}, token)
	assert.Equal(suite.T(), http.StatusCreated, first.Code)

	second := suite.request(http.MethodPost, "/api/tags", map[string]string{"name": "Lunch"}, token)
	assert.Equal(suite.T(), http.StatusOK, second.Code)

	var a, b dto.LabelDTO
	suite.decode(first, &a)
	suite.decode(second, &b)
	assert.Equal(suite.T(), a.ID, b.ID)

	blank := suite.request(http.MethodPost, "/api/tags", map[string]string{"name": "  "}, token)
	assert.Equal(suite.T(), http.StatusBadRequest, blank.Code)
}

func (suite *HandlerTestSuite) TestUpdateTag() {
	user, token := suite.createTestUser("user@example.com")
	tag, _, err := suite.svc.Tags.GetOrCreate(user.ID, "After Dinner")
	suite.Require().NoError(err)

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tags/%d", tag.ID), map[string]string{"name": "Dessert"}, token)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var stored models.Tag
	suite.Require().NoError(suite.db.First(&stored, tag.ID).Error)
	assert.Equal(suite.T(), "Dessert", stored.Name)
}

func (suite *HandlerTestSuite) TestUpdateTag_NameTaken() {
	user, token := suite.createTestUser("user@example.com")
	_, _, err := suite.svc.Tags.GetOrCreate(user.ID, "Dessert")
	suite.Require().NoError(err)
	tag, _, err := suite.svc.Tags.GetOrCreate(user.ID, "Sweet")
	suite.Require().NoError(err)

	w := suite.request(http.MethodPatch, fmt.Sprintf("/api/tags/%d", tag.ID), map[string]string{"name": "Dessert"}, token)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteIngredient() {
	user, token := suite.createTestUser("user@example.com")
	ingredient, _, err := suite.svc.Ingredients.GetOrCreate(user.ID, "Lettuce")
	suite.Require().NoError(err)

	w := suite.request(http.MethodDelete, fmt.Sprintf("/api/ingredients/%d", ingredient.ID), nil, token)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Ingredient{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *HandlerTestSuite) TestLabels_ForeignIsNotFound() {
	owner, _ := suite.createTestUser("owner@example.com")
	_, token := suite.createTestUser("intruder@example.com")
	tag, _, err := suite.svc.Tags.GetOrCreate(owner.ID, "Private")
	suite.Require().NoError(err)
	url := fmt.Sprintf("/api/tags/%d", tag.ID)

	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodGet, url, nil, token).Code)
	assert.Equal(suite.T(), http.StatusNotFound,
		suite.request(http.MethodPatch, url, map[string]string{"name": "Mine"}, token).Code)
	assert.Equal(suite.T(), http.StatusNotFound, suite.request(http.MethodDelete, url, nil, token).Code)

	var stored models.Tag
	suite.Require().NoError(suite.db.First(&stored, tag.ID).Error)
	assert.Equal(suite.T(), "Private", stored.Name)
}
