package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bucketeer/internal/config"
	"bucketeer/internal/database"
	"bucketeer/internal/handlers"
	"bucketeer/internal/logger"
	"bucketeer/internal/middleware"
	"bucketeer/internal/services"
	"bucketeer/internal/validator"
)

// @title           Bucketeer API
// @version         1.0
// @description     Bucketeer is a personal budgeting tool: allocate income into buckets across fixed categories, track spending against them, and keep history when buckets are deleted.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	bucketHandler := handlers.NewBucketHandler(budgetService)
	expenseHandler := handlers.NewExpenseHandler(budgetService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	v1.GET("/plans", authHandler.GetPlans)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/plan", authHandler.ChangePlan)

	// Board routes
	protected.GET("/board", bucketHandler.GetBoard)
	protected.GET("/summary", bucketHandler.GetSummary)
	protected.GET("/buckets", bucketHandler.ListBuckets)
	protected.POST("/board/import", bucketHandler.Import)
	protected.GET("/board/export", bucketHandler.Export)
	protected.PUT("/preferences/theme", bucketHandler.SetTheme)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("/:categoryID/items", bucketHandler.CreateItem)
	categories.PUT("/:categoryID/items/:itemID", bucketHandler.UpdateItem)
	categories.DELETE("/:categoryID/items/:itemID", bucketHandler.DeleteItem)
	categories.POST("/:categoryID/items/:itemID/move", bucketHandler.MoveItem)
	categories.POST("/:categoryID/sort", bucketHandler.ToggleSort)
	categories.PUT("/:categoryID/open", bucketHandler.SetOpen)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.PUT("/:expenseID", expenseHandler.UpdateExpense)
	expenses.DELETE("/:expenseID", expenseHandler.DeleteExpense)

	log.Infof("Starting Bucketeer backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
