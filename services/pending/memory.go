package pending

import (
	"sync"
	"time"

	game_constants "boxpool/constants/game"
	redis_models "boxpool/models/redis"
)

// MemoryStore is the single-process ledger: one authoritative in-memory
// table for the process lifetime. A restart clears all in-flight intents,
// which is acceptable because intents are advisory only.
type MemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	byGame map[string][]redis_models.PendingSelection
	now    func() time.Time
}

// NewMemoryStore builds a ledger with the given entry lifetime. Callers
// normally pass game_constants.PendingTTL; tests shorten it.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = game_constants.PendingTTL
	}
	return &MemoryStore{
		ttl:    ttl,
		byGame: make(map[string][]redis_models.PendingSelection),
		now:    time.Now,
	}
}

func (m *MemoryStore) SetPending(gameCode, playerID string, cells []Cell) ([]redis_models.PendingSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	kept := m.liveEntriesLocked(gameCode, now)

	// Drop the player's previous working set; the new one supersedes it.
	filtered := kept[:0]
	for _, entry := range kept {
		if entry.PlayerID != playerID {
			filtered = append(filtered, entry)
		}
	}

	for _, cell := range cells {
		filtered = append(filtered, redis_models.PendingSelection{
			GameCode:  gameCode,
			PlayerID:  playerID,
			Row:       cell.Row,
			Col:       cell.Col,
			Timestamp: now,
		})
	}

	m.storeLocked(gameCode, filtered)
	return append([]redis_models.PendingSelection(nil), filtered...), nil
}

func (m *MemoryStore) ListPending(gameCode string) ([]redis_models.PendingSelection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.liveEntriesLocked(gameCode, m.now())
	m.storeLocked(gameCode, live)
	return append([]redis_models.PendingSelection(nil), live...), nil
}

func (m *MemoryStore) ClearPending(gameCode, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.liveEntriesLocked(gameCode, m.now())
	filtered := kept[:0]
	for _, entry := range kept {
		if entry.PlayerID != playerID {
			filtered = append(filtered, entry)
		}
	}
	m.storeLocked(gameCode, filtered)
	return nil
}

func (m *MemoryStore) ClearGame(gameCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byGame, gameCode)
	return nil
}

// liveEntriesLocked filters out expired entries; eviction is lazy, a side
// effect of every read and write path.
func (m *MemoryStore) liveEntriesLocked(gameCode string, now time.Time) []redis_models.PendingSelection {
	entries := m.byGame[gameCode]
	live := make([]redis_models.PendingSelection, 0, len(entries))
	for _, entry := range entries {
		if now.Sub(entry.Timestamp) < m.ttl {
			live = append(live, entry)
		}
	}
	return live
}

func (m *MemoryStore) storeLocked(gameCode string, entries []redis_models.PendingSelection) {
	if len(entries) == 0 {
		delete(m.byGame, gameCode)
		return
	}
	m.byGame[gameCode] = entries
}
