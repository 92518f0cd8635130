package config

import (
	"log"
	"os"

	"boxpool/services/redis"
)

// Connect to Redis
func Connect_redis() (*redis.RedisClient, error) {
	redisUri := os.Getenv("REDIS_URL")
	if redisUri == "" {
		redisUri = "localhost:6379"
	}
	redisClient, err := redis.InitRedis(redisUri, 0)
	if err != nil {
		log.Printf("Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("Redis connection established")
	return redisClient, nil
}
