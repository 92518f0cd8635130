package redis

import "time"

// PendingSelection is one tentative, unconfirmed square pick. It is
// advisory only: it lives in the ledger (in-process map or Redis), never
// in PostgreSQL, and losing it on restart is acceptable.
type PendingSelection struct {
	GameCode  string    `json:"gameId"`
	PlayerID  string    `json:"playerId"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Timestamp time.Time `json:"timestamp"`
}
