package game_constants

import "time"

const GridSize = 10
const TotalSquares = GridSize * GridSize
const GameCodeBytes = 3 // hex-encoded -> 6 uppercase chars

// Per-player square limit bounds enforced at game creation
const (
	MinSquareLimit = 1
	MaxSquareLimit = TotalSquares
)

// Scoring percentages must add up to exactly this
const TotalScoringPercent = 100.0

// Pending selections are a heuristic lease, not a lock: an abandoned
// browser tab stops haunting a cell after this long.
const PendingTTL = 30 * time.Second

// Quarter identifiers, in play order
const (
	QuarterFirst  = "firstQuarter"
	QuarterSecond = "secondQuarter"
	QuarterThird  = "thirdQuarter"
	QuarterFinal  = "final"
)
