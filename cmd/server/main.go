package main

import (
	"log"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/api/routes"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/config"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/repository"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/cache"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/database"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/email"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/notify"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to MongoDB
	db, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Disconnect(db.Client())

	// One Redis client shared by the listing cache and the rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	cacheManager := cache.NewRedisManagerWithClient(redisClient, cache.DefaultConfig())
	defer cacheManager.Close()
	limiter := ratelimit.NewRedisLimiter(redisClient, ratelimit.DefaultConfig())

	if err := cacheManager.HealthCheck(); err != nil {
		log.Printf("Redis connection failed: %v (listings will be served from MongoDB)", err)
	} else {
		log.Printf("Redis connected successfully at %s", cfg.Redis.Addr)
	}

	// Start the notification outbox dispatcher
	emailService := email.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.FromEmail,
		cfg.SMTP.FromName,
		cfg.SMTP.AppURL,
	)
	dispatcher := notify.NewDispatcher(repository.NewOutboxRepository(db), emailService, cfg.OutboxInterval)
	dispatcher.Start()
	defer dispatcher.Stop()

	// Setup Gin router
	router := gin.Default()

	// CORS middleware
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}

	// Handle wildcard origin for development
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	router.Use(cors.New(corsConfig))

	// Setup routes
	routes.SetupRoutes(router, db, routes.Deps{
		CacheManager: cacheManager,
		Waker:        dispatcher,
		Limiter:      limiter,
	})

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}
