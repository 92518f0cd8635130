package game

import (
	"testing"
	"time"

	models "boxpool/models/postgres"

	"github.com/stretchr/testify/assert"
)

func testGame(t *testing.T, status models.GameStatus) *models.Game {
	t.Helper()

	g := &models.Game{
		Code:           "A1B2C3",
		Name:           "Office pool",
		OwnerEmail:     "owner@example.com",
		Status:         status,
		SquareCost:     5,
		SquareLimit:    10,
		TeamVertical:   "Hawks",
		TeamHorizontal: "Wolves",
		CurrentQuarter: "firstQuarter",
		CreatedAt:      time.Now(),
	}

	grid := models.GameGrid{
		Rows: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		Cols: []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		Final: &models.GridLabels{
			Rows: []int{5, 3, 8, 1, 9, 0, 2, 7, 4, 6},
			Cols: []int{2, 6, 0, 9, 4, 7, 1, 8, 5, 3},
		},
	}
	assert.NoError(t, g.SetGameGrid(grid))
	assert.NoError(t, g.SetScoringConfig(models.ScoringConfig{
		FirstQuarter: 25, SecondQuarter: 25, ThirdQuarter: 25, Final: 25,
	}))
	assert.NoError(t, g.SetGameScores(models.GameScores{}))
	return g
}

func TestProjectGameHidesFinalGridDuringSetup(t *testing.T) {
	g := testGame(t, models.GameStatusSetup)

	view, err := ProjectGame(g)
	assert.NoError(t, err)
	assert.Nil(t, view.Grid.Final)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, view.Grid.Rows)
}

func TestProjectGameRevealsFinalGridWhenActive(t *testing.T) {
	g := testGame(t, models.GameStatusActive)

	view, err := ProjectGame(g)
	assert.NoError(t, err)
	assert.NotNil(t, view.Grid.Final)
	assert.Equal(t, []int{5, 3, 8, 1, 9, 0, 2, 7, 4, 6}, view.Grid.Final.Rows)
}

func TestProjectGameDoesNotMutateStoredRecord(t *testing.T) {
	g := testGame(t, models.GameStatusSetup)
	before := string(g.Grid)

	_, err := ProjectGame(g)
	assert.NoError(t, err)

	// Redaction happens on the projection, never on the stored jsonb.
	assert.Equal(t, before, string(g.Grid))
	grid, err := g.GameGrid()
	assert.NoError(t, err)
	assert.NotNil(t, grid.Final)
}
