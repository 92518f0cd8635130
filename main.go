package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"boxpool/config"
	game_constants "boxpool/constants/game"
	"boxpool/middleware"
	"boxpool/routes"
	"boxpool/services/pending"
	"boxpool/services/redis"
	"boxpool/services/socket_io"
)

// @title Boxpool API
// @version 1.0
// @description Gin-Gonic server for the squares pool game API
// @BasePath /
// @paths
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	// Pending selections are advisory and expire in seconds, so a single
	// instance runs fine on the in-memory ledger. Redis is only needed
	// when several instances must share the same picture.
	var pendingStore pending.Store
	if os.Getenv("PENDING_BACKEND") == "redis" {
		redisClient, err := config.Connect_redis()
		if err != nil {
			log.Fatalf("Error connecting to Redis: %v", err)
		}
		log.Println("Connection to Redis successful")
		defer redis.CloseRedis(redisClient)
		pendingStore = pending.NewRedisStore(redisClient)
	} else {
		pendingStore = pending.NewMemoryStore(game_constants.PendingTTL)
	}

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	sio := &socket_io.SocketServer{}
	sio.Start(r)

	routes.SetupRoutes(r, gormDB, pendingStore, sio)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
