package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/recipe-api/internal/constants"
	"github.com/yukikurage/recipe-api/internal/middleware"
	"github.com/yukikurage/recipe-api/internal/services"
)

// Services bundles what the router needs. Drafts may be nil.
type Services struct {
	Users       *services.UserService
	Tags        *services.TagService
	Ingredients *services.IngredientService
	Recipes     *services.RecipeService
	Drafts      *services.DraftService
}

// NewRouter builds the gin engine with every API route registered
func NewRouter(svc Services, sessionStore sessions.Store, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	userHandler := NewUserHandler(svc.Users)
	recipeHandler := NewRecipeHandler(svc.Recipes, svc.Drafts)
	tagHandler := NewTagHandler(svc.Tags)
	ingredientHandler := NewIngredientHandler(svc.Ingredients)

	requireAuth := middleware.RequireAuth(svc.Users)
	limiter := middleware.NewIPRateLimiter(
		constants.AuthRequestsPerMinute,
		constants.AuthBurst,
		constants.LimiterIdleTimeout,
	)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"message": "Recipe API is running",
			})
		})

		// User routes
		users := api.Group("/users")
		{
			users.POST("", limiter.Middleware(), userHandler.Register)
			users.POST("/token", limiter.Middleware(), userHandler.Token)
			users.POST("/logout", userHandler.Logout)
			users.GET("/me", requireAuth, userHandler.Me)
			users.PATCH("/me", requireAuth, userHandler.UpdateMe)
			users.PUT("/me", requireAuth, userHandler.ReplaceMe)
		}

		// Recipe routes (protected)
		recipes := api.Group("/recipes")
		recipes.Use(requireAuth)
		{
			recipes.GET("", recipeHandler.ListRecipes)
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.POST("/draft", recipeHandler.DraftRecipe)
			recipes.GET("/:id", recipeHandler.GetRecipe)
			recipes.PATCH("/:id", recipeHandler.UpdateRecipe)
			recipes.PUT("/:id", recipeHandler.ReplaceRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
		}

		registerLabelRoutes(api.Group("/tags", requireAuth), tagHandler)
		registerLabelRoutes(api.Group("/ingredients", requireAuth), ingredientHandler)
	}

	return r
}

type labelRoutes interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func registerLabelRoutes(g *gin.RouterGroup, h labelRoutes) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
