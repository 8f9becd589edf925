package routes

import (
	"log"
	"net/http"

	"realingdle/handlers"
	"realingdle/middleware"
	"realingdle/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	characterHandler *handlers.CharacterHandler,
	lookupHandler *handlers.LookupHandler,
	gameHandler *handlers.GameHandler,
	hub *services.Hub,
	gameService *services.GameService,
	jwtSecret string,
	uploadDir string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Management routes (admin capability required)
			admin := protected.Group("/")
			admin.Use(middleware.AdminRequired())
			{
				characters := admin.Group("/characters")
				{
					characters.GET("", characterHandler.ListCharacters)
					characters.POST("", characterHandler.CreateCharacter)
					characters.GET("/:id", characterHandler.GetCharacter)
					characters.PUT("/:id", characterHandler.UpdateCharacter)
					characters.DELETE("/:id", characterHandler.DeleteCharacter)
				}

				lookups := admin.Group("/lookups")
				{
					lookups.GET("/:kind", lookupHandler.List)
					lookups.POST("/:kind", lookupHandler.Add)
					lookups.PUT("/:kind/:id", lookupHandler.Rename)
					lookups.DELETE("/:kind/:id", lookupHandler.Delete)
				}
			}
		}

		// Public game routes
		game := api.Group("/game")
		{
			game.POST("/rounds", gameHandler.StartRound)
			game.GET("/rounds/:id", gameHandler.GetRound)
			game.POST("/rounds/:id/guess", gameHandler.SubmitGuess)
		}
	}

	// WebSocket endpoint for live round play
	router.GET("/ws/rounds/:roundID", func(c *gin.Context) {
		roundID := c.Param("roundID")

		// Reject unknown rounds before upgrading the connection
		if _, err := gameService.GetRound(c.Request.Context(), roundID); err != nil {
			log.Printf("WebSocket connection rejected for round %s: %v", roundID, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Round not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for round %s: %v", roundID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
			return
		}

		hub.RegisterClient(conn, roundID)
	})

	// Uploaded character images, served as the public bucket
	router.Static("/uploads", uploadDir)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
