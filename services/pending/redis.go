package pending

import (
	"time"

	game_constants "boxpool/constants/game"
	redis_models "boxpool/models/redis"
	redis_service "boxpool/services/redis"
)

// RedisStore is the shared-cache ledger for multi-instance deployments:
// same contract as MemoryStore, but the working sets live in Redis with a
// per-player TTL, so every instance sees the same advisory picture and
// expiry is handled by Redis itself.
type RedisStore struct {
	client *redis_service.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *redis_service.RedisClient) *RedisStore {
	return &RedisStore{client: client, ttl: game_constants.PendingTTL}
}

func (r *RedisStore) SetPending(gameCode, playerID string, cells []Cell) ([]redis_models.PendingSelection, error) {
	if len(cells) == 0 {
		// An empty submission is a cancellation.
		if err := r.client.DeletePendingSet(gameCode, playerID); err != nil {
			return nil, err
		}
		return r.ListPending(gameCode)
	}

	now := time.Now()
	entries := make([]redis_models.PendingSelection, 0, len(cells))
	for _, cell := range cells {
		entries = append(entries, redis_models.PendingSelection{
			GameCode:  gameCode,
			PlayerID:  playerID,
			Row:       cell.Row,
			Col:       cell.Col,
			Timestamp: now,
		})
	}

	// One key per (game, player): a SET replaces the previous working set
	// atomically, which gives the per-player last-write-wins contract.
	if err := r.client.SavePendingSet(gameCode, playerID, entries, r.ttl); err != nil {
		return nil, err
	}
	return r.ListPending(gameCode)
}

func (r *RedisStore) ListPending(gameCode string) ([]redis_models.PendingSelection, error) {
	keys, err := r.client.ScanPendingKeys(gameCode)
	if err != nil {
		return nil, err
	}

	var all []redis_models.PendingSelection
	for _, key := range keys {
		entries, err := r.client.GetPendingSet(key)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

func (r *RedisStore) ClearPending(gameCode, playerID string) error {
	return r.client.DeletePendingSet(gameCode, playerID)
}

func (r *RedisStore) ClearGame(gameCode string) error {
	keys, err := r.client.ScanPendingKeys(gameCode)
	if err != nil {
		return err
	}
	return r.client.CleanupKeys(keys)
}
