package main

import (
	"log"

	"rentsplit-backend/config"
	"rentsplit-backend/database"
	"rentsplit-backend/handlers"
	"rentsplit-backend/middleware"
	"rentsplit-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close(db)

	// Connect to Redis (optional, won't crash if unavailable)
	cache := services.NewDashboardCache(database.ConnectRedis(cfg))

	// Wire services
	notifier := services.NewNotificationService(cfg)
	processor := services.NewPayPalClient(cfg)

	authSvc := services.NewAuthService(db, cfg)
	householdSvc := services.NewHouseholdService(db, notifier, cache)
	dashboardSvc := services.NewDashboardService(db, householdSvc, cache)
	expenseSvc := services.NewExpenseService(db, householdSvc, cache)
	settlementSvc := services.NewSettlementService(db, processor, notifier, cache)

	authHandler := handlers.NewAuthHandler(authSvc)
	userHandler := handlers.NewUserHandler(db)
	householdHandler := handlers.NewHouseholdHandler(householdSvc, dashboardSvc)
	expenseHandler := handlers.NewExpenseHandler(expenseSvc)
	paymentHandler := handlers.NewPaymentHandler(settlementSvc)

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": cfg.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/google", authHandler.GoogleSignIn)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(cfg.JWTSecret, db))
	{
		// User
		api.GET("/users/me", userHandler.GetProfile)
		api.PUT("/users/me/fcm-token", userHandler.UpdateFCMToken)

		// Households
		api.POST("/households", householdHandler.Create)
		api.GET("/households", householdHandler.List)
		api.GET("/households/dashboard", householdHandler.Dashboard)
		api.GET("/households/:id", householdHandler.Get)
		api.POST("/households/:id/members", householdHandler.AddMember)
		api.DELETE("/households/:id/members", householdHandler.RemoveMember)

		// Expenses
		api.POST("/households/:id/expenses", expenseHandler.Create)
		api.GET("/households/:id/expenses", expenseHandler.List)
		api.PUT("/households/:id/expenses/:expenseId", expenseHandler.Update)
		api.DELETE("/households/:id/expenses/:expenseId", expenseHandler.Delete)
		api.GET("/splits", expenseHandler.ListSplits)

		// Payments
		api.POST("/payments/orders", paymentHandler.CreateOrder)
		api.POST("/payments/orders/:orderId/capture", paymentHandler.CaptureOrder)
		api.GET("/activity", paymentHandler.ListActivity)
	}

	// Start server
	addr := "0.0.0.0:" + cfg.Port
	log.Printf("🚀 %s server starting on %s", cfg.AppName, addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
