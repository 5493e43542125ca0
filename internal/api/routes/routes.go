package routes

import (
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/api/handlers"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/api/middleware"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/repository"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/services"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/cache"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps carries the optional collaborators wired from main.
type Deps struct {
	CacheManager cache.Manager
	Waker        services.Waker
	Limiter      ratelimit.Limiter
}

func SetupRoutes(router *gin.Engine, db *mongo.Database, deps Deps) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	hiringRepo := repository.NewHiringRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	vehicleService := services.NewVehicleService(vehicleRepo, userRepo, hiringRepo)
	hiringService := services.NewHiringService(hiringRepo, vehicleRepo, userRepo, outboxRepo)
	applicationService := services.NewApplicationService(hiringRepo, vehicleRepo, userRepo, outboxRepo)

	if deps.CacheManager != nil {
		hiringService.SetCacheManager(deps.CacheManager)
		applicationService.SetCacheManager(deps.CacheManager)
	}
	if deps.Waker != nil {
		hiringService.SetWaker(deps.Waker)
		applicationService.SetWaker(deps.Waker)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	vehicleHandler := handlers.NewVehicleHandler(vehicleService)
	hiringHandler := handlers.NewHiringHandler(hiringService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	healthHandler := handlers.NewHealthHandler(db)

	api := router.Group("/api/v1")

	// Public routes
	api.GET("/health", healthHandler.Check)
	api.GET("/all-driver-hirings", hiringHandler.ListAll)

	auth := api.Group("/auth")
	if deps.Limiter != nil {
		auth.Use(middleware.RateLimitMiddleware(deps.Limiter, "auth"))
	}
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.Profile)

		protected.POST("/register", vehicleHandler.Register)
		protected.POST("/decision", hiringHandler.Decide)
		protected.POST("/submit", hiringHandler.Submit)
		protected.GET("/data", vehicleHandler.GetOwnerData)
		protected.DELETE("/vehicle/:userId/:vehicleId", vehicleHandler.Delete)
		protected.DELETE("/driver-hiring/:userId/:driverHiringId", hiringHandler.Delete)

		protected.GET("/driver-applications/:driverHiringId", applicationHandler.List)
		protected.POST("/accept-driver-application/:driverHiringId/:driverId", applicationHandler.Accept)

		// Admin routes
		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/pending-driver-hirings", hiringHandler.ListPending)
			admin.POST("/accept-driver-hiring/:driverHiringId", hiringHandler.Approve)
			admin.POST("/reject-driver-hiring/:driverHiringId", hiringHandler.Reject)
		}

		// Driver routes
		driver := protected.Group("/")
		driver.Use(middleware.RequireRole(models.RoleDriver))
		if deps.Limiter != nil {
			driver.Use(middleware.RateLimitMiddleware(deps.Limiter, "apply"))
		}
		{
			driver.POST("/apply-driver-hiring", applicationHandler.Apply)
		}
	}
}
