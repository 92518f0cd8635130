package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	redis_models "boxpool/models/redis"
	redis_utils "boxpool/services/redis/utils"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SavePendingSet stores one player's pending-selection working set.
// Key format: "pending:{gameCode}:{playerID}", TTL = the ledger lease;
// Redis expiry is what ages abandoned sets out.
func (rc *RedisClient) SavePendingSet(gameCode, playerID string, entries []redis_models.PendingSelection, ttl time.Duration) error {
	key := redis_utils.FormatPendingKey(gameCode, playerID)
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error marshaling pending set: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, ttl).Err()
}

// GetPendingSet retrieves one player's pending set. A missing key is not
// an error: it returns an empty set (the lease simply expired).
func (rc *RedisClient) GetPendingSet(key string) ([]redis_models.PendingSelection, error) {
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting pending set: %v", err)
	}

	var entries []redis_models.PendingSelection
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error unmarshaling pending set: %v", err)
	}
	return entries, nil
}

// DeletePendingSet removes one player's pending set.
func (rc *RedisClient) DeletePendingSet(gameCode, playerID string) error {
	key := redis_utils.FormatPendingKey(gameCode, playerID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting pending set: %v", err)
	}
	return nil
}

// ScanPendingKeys lists every live pending-set key for a game.
func (rc *RedisClient) ScanPendingKeys(gameCode string) ([]string, error) {
	pattern := redis_utils.FormatPendingPattern(gameCode)
	var keys []string
	iter := rc.client.Scan(rc.ctx, 0, pattern, 0).Iterator()
	for iter.Next(rc.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning pending keys: %v", err)
	}
	return keys, nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
