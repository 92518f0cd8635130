/**
 * Package pending is the pending-selection ledger: an ephemeral,
 * time-bounded record of the squares each player is actively considering
 * but has not confirmed. It exists so polling clients can paint "someone
 * else is looking at this cell" feedback and waste fewer confirms.
 *
 * The ledger is advisory, not authoritative. Correctness of claiming is
 * enforced solely by the squares table's primary key; the ledger may be
 * stale, empty after a restart, or plain wrong without breaking anything.
 */
package pending

import (
	redis_models "boxpool/models/redis"
)

// Cell is one (row, col) grid coordinate.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Store is the ledger contract. Implementations must make reads and
// writes for a single game linearizable with respect to each other;
// games are independent partitions, so no cross-game ordering is needed.
type Store interface {
	// SetPending replaces all of the player's pending entries for the
	// game with the given set, stamping each with the current time.
	// Last write wins per player. Returns the game's full pending set.
	SetPending(gameCode, playerID string, cells []Cell) ([]redis_models.PendingSelection, error)

	// ListPending returns all non-expired entries for the game.
	ListPending(gameCode string) ([]redis_models.PendingSelection, error)

	// ClearPending removes all of the player's entries for the game.
	ClearPending(gameCode, playerID string) error

	// ClearGame drops every entry for the game. Called when the game
	// starts and the grid freezes.
	ClearGame(gameCode string) error
}
