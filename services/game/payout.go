package game

import (
	"math"

	"boxpool/apperrors"
	game_constants "boxpool/constants/game"
	models "boxpool/models/postgres"
)

// PayoutBreakdown is the per-quarter slice of the prize pool.
type PayoutBreakdown struct {
	FirstQuarter  float64 `json:"firstQuarter"`
	SecondQuarter float64 `json:"secondQuarter"`
	ThirdQuarter  float64 `json:"thirdQuarter"`
	Final         float64 `json:"final"`
}

// PrizePool is claimed squares times cost. An incompletely filled board
// yields a pool sized to the squares actually claimed; unclaimed cells
// contribute nothing.
func PrizePool(claimedSquares int, squareCost float64) float64 {
	return float64(claimedSquares) * squareCost
}

// Payouts splits the pool by the scoring percentages. The percentages
// were validated to sum to 100 at creation time, so this never fails.
func Payouts(prizePool float64, scoring models.ScoringConfig) PayoutBreakdown {
	return PayoutBreakdown{
		FirstQuarter:  prizePool * scoring.FirstQuarter / 100,
		SecondQuarter: prizePool * scoring.SecondQuarter / 100,
		ThirdQuarter:  prizePool * scoring.ThirdQuarter / 100,
		Final:         prizePool * scoring.Final / 100,
	}
}

// ValidateScoring enforces the creation-time invariant: every percentage
// non-negative and the four summing to exactly 100 (within float noise).
func ValidateScoring(scoring models.ScoringConfig) error {
	parts := []float64{scoring.FirstQuarter, scoring.SecondQuarter, scoring.ThirdQuarter, scoring.Final}
	sum := 0.0
	for _, p := range parts {
		if p < 0 || math.IsNaN(p) {
			return apperrors.Validation("Scoring percentages must be non-negative")
		}
		sum += p
	}
	if math.Abs(sum-game_constants.TotalScoringPercent) > 1e-9 {
		return apperrors.Validation("Scoring percentages must sum to 100")
	}
	return nil
}

// WinningCell maps a score onto a storage (row, col) through the final
// grid's label permutation: the row whose label equals vertical mod 10
// and the column whose label equals horizontal mod 10. The indirection is
// the entire point of the shuffle: the winning cell is unpredictable
// until the final grid is revealed at game start.
func WinningCell(score models.Score, final models.GridLabels) (row, col int, ok bool) {
	rowLabel := ((score.Vertical % 10) + 10) % 10
	colLabel := ((score.Horizontal % 10) + 10) % 10

	row, col = -1, -1
	for i, label := range final.Rows {
		if label == rowLabel {
			row = i
			break
		}
	}
	for i, label := range final.Cols {
		if label == colLabel {
			col = i
			break
		}
	}
	return row, col, row >= 0 && col >= 0
}
