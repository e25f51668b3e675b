package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/yukikurage/recipe-api/internal/services"
)

func ptr[T any](v T) *T {
	return &v
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func servicesLogin(email, password string) services.LoginInput {
	return services.LoginInput{Email: email, Password: password}
}

func recipeInputWithIngredients(names ...string) services.RecipeInput {
	return services.RecipeInput{Ingredients: &names}
}
