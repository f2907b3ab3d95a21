package routes

import (
	"github.com/gin-gonic/gin"

	"foodhub-api/handlers"
	"foodhub-api/middleware"
)

// SetupPricingRoutes sets up public pricing and catalogue routes.
func SetupPricingRoutes(rg *gin.RouterGroup, pricing *handlers.PricingHandler, foods *handlers.FoodHandler) {
	rg.GET("/pricing", pricing.GetPrice)
	rg.GET("/foods", foods.ListFoods)
	rg.GET("/foods/:id", foods.GetFood)
}

// SetupForecastRoutes sets up public forecast routes.
func SetupForecastRoutes(rg *gin.RouterGroup, forecast *handlers.ForecastHandler) {
	rg.GET("/forecast/summary", forecast.Summary)
	rg.GET("/forecast/food/:id", forecast.ByFood)
	rg.GET("/forecast/historical/:id", forecast.Historical)
	rg.GET("/forecast/alerts", forecast.Alerts)
	rg.GET("/forecast/config", forecast.Config)
}

// SetupOrderRoutes sets up the order intake route.
func SetupOrderRoutes(rg *gin.RouterGroup, orders *handlers.OrderHandler) {
	rg.POST("/orders", orders.PlaceOrder)
}

// SetupAdminRoutes sets up rule management and forecast regeneration behind
// admin authentication.
func SetupAdminRoutes(rg *gin.RouterGroup, rules *handlers.RulesHandler, forecast *handlers.ForecastHandler) {
	admin := rg.Group("/")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.GET("/pricing/rules", rules.ListRules)
		admin.POST("/pricing/rules", rules.CreateRule)
		admin.PUT("/pricing/rules/:ruleId", rules.UpdateRule)
		admin.POST("/forecast/generate", forecast.Generate)
	}
}
