package game

import (
	"math/rand/v2"

	game_constants "boxpool/constants/game"
	models "boxpool/models/postgres"
)

// NewGridLabels returns an independent uniform-random permutation of the
// digits 0-9 for each axis, via Fisher-Yates. A game makes two separate
// calls: the setup-display grid and the hidden final grid. They are not
// required to differ.
func NewGridLabels() models.GridLabels {
	return models.GridLabels{
		Rows: shuffledDigits(),
		Cols: shuffledDigits(),
	}
}

func shuffledDigits() []int {
	digits := make([]int, game_constants.GridSize)
	for i := range digits {
		digits[i] = i
	}
	for i := len(digits) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		digits[i], digits[j] = digits[j], digits[i]
	}
	return digits
}
