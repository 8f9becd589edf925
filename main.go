package main

import (
	"log"

	"realingdle/config"
	"realingdle/handlers"
	"realingdle/middleware"
	"realingdle/models"
	"realingdle/routes"
	"realingdle/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.State{},
		&models.Class{},
		&models.Race{},
		&models.Occupation{},
		&models.Association{},
		&models.Place{},
		&models.Character{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize image storage
	storage, err := services.NewStorageService(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal("Failed to initialize upload storage:", err)
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	characterService := services.NewCharacterService(db, storage)
	lookupService := services.NewLookupService(db)
	gameService := services.NewGameService(characterService, redisClient, cfg.GameMaxLives)

	// Initialize WebSocket hub
	hub := services.NewHub(gameService)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	characterHandler := handlers.NewCharacterHandler(characterService)
	lookupHandler := handlers.NewLookupHandler(lookupService)
	gameHandler := handlers.NewGameHandler(gameService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, characterHandler, lookupHandler, gameHandler, hub, gameService, cfg.JWTSecret, cfg.UploadDir)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
