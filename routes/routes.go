package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"boxpool/controllers"
	claim_service "boxpool/services/claim"
	game_service "boxpool/services/game"
	"boxpool/services/pending"
	player_service "boxpool/services/player"
	"boxpool/services/socket_io"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, pendingStore pending.Store, sio *socket_io.SocketServer) {
	// The service layer; controllers are thin bindings over these.
	gameService := &game_service.Service{DB: db, Pending: pendingStore, Broadcast: sio}
	arbiter := &claim_service.Arbiter{DB: db, Pending: pendingStore}
	registry := &player_service.Registry{DB: db}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)
	api.GET("/health", controllers.Health)

	games := api.Group("/games")
	{
		games.POST("", controllers.CreateGame(gameService))
		games.GET("/:game_code", controllers.GetGame(gameService))
		games.POST("/:game_code/start", controllers.StartGame(gameService))
		games.POST("/:game_code/score", controllers.UpdateGameScore(gameService))
		games.POST("/:game_code/current-score", controllers.UpdateCurrentScore(gameService))

		games.POST("/:game_code/join", controllers.JoinGame(registry))
		games.POST("/:game_code/owner-login", controllers.OwnerLogin(registry))
		games.GET("/:game_code/players", controllers.GetGamePlayers(registry))
		games.PATCH("/:game_code/players/:player_id/payment", controllers.TogglePayment(registry))

		games.POST("/:game_code/squares", controllers.ConfirmSquares(arbiter))
		games.GET("/:game_code/squares", controllers.GetPlayerSquares(registry))

		games.POST("/:game_code/pending-squares", controllers.SetPendingSquares(db, pendingStore))
		games.GET("/:game_code/pending-squares", controllers.GetPendingSquares(db, pendingStore))
	}
}
