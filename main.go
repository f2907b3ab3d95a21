package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"foodhub-api/config"
	"foodhub-api/handlers"
	"foodhub-api/middleware"
	"foodhub-api/observability"
	"foodhub-api/repositories/postgres"
	"foodhub-api/routes"
	"foodhub-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	ruleRepo := postgres.NewPricingRuleRepository(db)
	userRepo := postgres.NewUserRepository(db)
	foodRepo := postgres.NewFoodRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	demandRepo := postgres.NewDemandStateRepository(db)
	weatherRepo := postgres.NewWeatherRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)

	opsHandler := handlers.NewOpsHandler()

	loyaltyService := services.NewLoyaltyService(userRepo)
	weatherService := services.NewWeatherService(weatherRepo, metrics)
	demandService := services.NewDemandService(orderRepo, demandRepo, opsHandler, metrics)
	pricingService := services.NewPricingService(ruleRepo, userRepo, loyaltyService, weatherService, demandService, metrics)
	forecastService := services.NewForecastService(orderRepo, foodRepo, forecastRepo, metrics)

	if err := pricingService.SeedDefaultRules(ctx); err != nil {
		log.Printf("⚠️ Failed to seed default pricing rules: %v", err)
	}

	go demandService.Start(ctx)

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RateLimiter())

	pricingHandler := handlers.NewPricingHandler(pricingService, foodRepo)
	foodHandler := handlers.NewFoodHandler(foodRepo, pricingService)
	rulesHandler := handlers.NewRulesHandler(ruleRepo, pricingService)
	forecastHandler := handlers.NewForecastHandler(forecastService, opsHandler)
	orderHandler := handlers.NewOrderHandler(orderRepo, loyaltyService, demandService)

	v1 := router.Group("/api/v1")
	{
		routes.SetupPricingRoutes(v1, pricingHandler, foodHandler)
		routes.SetupForecastRoutes(v1, forecastHandler)
		routes.SetupOrderRoutes(v1, orderHandler)
		routes.SetupAdminRoutes(v1, rulesHandler, forecastHandler)
		v1.GET("/ws/ops", opsHandler.HandleWS)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}
}
