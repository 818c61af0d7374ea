package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/securetask/secure-task-api/internal/bootstrap"
	"github.com/securetask/secure-task-api/internal/config"
	"github.com/securetask/secure-task-api/internal/database"
	"github.com/securetask/secure-task-api/internal/handlers"
	"github.com/securetask/secure-task-api/internal/middleware"
	"github.com/securetask/secure-task-api/internal/models"
	"github.com/securetask/secure-task-api/internal/repository"
	"github.com/securetask/secure-task-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Seed the root organization and initial owner (idempotent)
	if err := bootstrap.EnsureSeedData(db, cfg); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(db, userRepo, auditRepo, cfg.JWTSecret, cfg.TokenTTL)
	taskService := services.NewTaskService(db, taskRepo, userRepo, auditRepo)
	userService := services.NewUserService(db, userRepo, orgRepo, auditRepo)
	orgService := services.NewOrganizationService(orgRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Secure Task API is running",
		})
	})

	// Required roles are declared statically per route, read once here at
	// startup.
	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	elevated := middleware.RequireRoles(auditService, models.RoleOwner, models.RoleAdmin)

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", elevated, taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", elevated, taskHandler.UpdateTask)
			tasks.DELETE("/:id", elevated, taskHandler.DeleteTask)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", elevated, userHandler.CreateUser)
			users.PATCH("/:id", elevated, userHandler.UpdateUser)
			users.PUT("/:id/role", elevated, userHandler.ChangeRole)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(requireAuth)
		{
			orgs.GET("", elevated, orgHandler.ListOrganizations)
		}

		// Audit trail (protected)
		audit := api.Group("/audit-log")
		audit.Use(requireAuth)
		{
			audit.GET("", elevated, auditHandler.ListAuditLog)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
