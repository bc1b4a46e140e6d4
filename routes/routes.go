package routes

import (
	"slices"

	"foodsnap/controllers"
	"foodsnap/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controllers bundles every handler group the router mounts.
type Controllers struct {
	Food          *controllers.FoodController
	Recipes       *controllers.RecipeController
	Meals         *controllers.MealController
	Summary       *controllers.SummaryController
	Users         *controllers.UserController
	Ingredients   *controllers.IngredientController
	Notifications *controllers.NotificationController
	Devices       *controllers.DeviceController
	Realtime      *controllers.RealtimeController
}

func SetupRouter(h Controllers, allowedOrigins []string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestLogger(log), middlewares.Recovery(log))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	api := r.Group("/api")
	{
		api.GET("/", controllers.Banner)

		api.POST("/analyze-food", h.Food.AnalyzeFood)
		api.POST("/analyze-ingredients", h.Food.AnalyzeIngredients)
		api.POST("/search-food", h.Food.SearchFood)

		api.POST("/recipe-suggestions", h.Recipes.Suggestions)
		api.POST("/search-recipes", h.Recipes.Search)

		api.GET("/analysis-count/:userId/today", h.Users.AnalysisCount)
	}

	meals := api.Group("/meals")
	{
		meals.POST("", h.Meals.SaveMeal)
		meals.GET("/:userId", h.Meals.ListMeals)
		meals.GET("/:userId/today", h.Meals.TodayCount)
		meals.GET("/:userId/daily-totals", h.Summary.DailyTotals)
		meals.DELETE("/:mealId", h.Meals.DeleteMeal)
	}

	users := api.Group("/users")
	{
		users.POST("", h.Users.Create)
		users.GET("/:userId", h.Users.Get)
		users.POST("/:userId/goals", h.Users.SetGoals)
		users.PATCH("/:userId/premium", h.Users.SetPremium)

		users.POST("/:userId/ingredients", h.Ingredients.Save)
		users.GET("/:userId/ingredients", h.Ingredients.Get)
		users.DELETE("/:userId/ingredients", h.Ingredients.Clear)

		users.GET("/:userId/nutrition-summary", h.Summary.NutritionSummary)
		users.POST("/:userId/smart-notification", h.Notifications.Smart)
		users.POST("/:userId/notifications/toggle", h.Notifications.Toggle)
		users.POST("/:userId/devices", h.Devices.Register)
		users.GET("/:userId/live", h.Realtime.Live)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	if len(origins) == 0 || slices.Contains(origins, "*") {
		// reflect any origin; a literal "*" is not allowed with credentials
		cfg.AllowOriginFunc = func(string) bool { return true }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
