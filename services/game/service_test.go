package game

import (
	"testing"
	"time"

	"boxpool/apperrors"
	game_constants "boxpool/constants/game"
	models "boxpool/models/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCommitQuarter(t *testing.T) {
	var scores models.GameScores

	err := commitQuarter(&scores, game_constants.QuarterFirst, models.Score{Vertical: 7, Horizontal: 3})
	assert.NoError(t, err)
	assert.NotNil(t, scores.FirstQuarter)
	assert.Equal(t, 7, scores.FirstQuarter.Vertical)
	assert.Equal(t, 3, scores.FirstQuarter.Horizontal)
	assert.Nil(t, scores.SecondQuarter)
}

func TestCommitQuarterRejectsRecommit(t *testing.T) {
	var scores models.GameScores

	assert.NoError(t, commitQuarter(&scores, game_constants.QuarterSecond, models.Score{Vertical: 14, Horizontal: 10}))

	err := commitQuarter(&scores, game_constants.QuarterSecond, models.Score{Vertical: 21, Horizontal: 10})
	assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))

	// The frozen score is untouched.
	assert.Equal(t, 14, scores.SecondQuarter.Vertical)
}

func TestCommitQuarterRejectsUnknownQuarter(t *testing.T) {
	var scores models.GameScores

	err := commitQuarter(&scores, "overtime", models.Score{})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestQuarterWinners(t *testing.T) {
	g := testGame(t, models.GameStatusActive)

	// Final grid from testGame: Rows {5,3,8,1,9,0,2,7,4,6},
	// Cols {2,6,0,9,4,7,1,8,5,3}. A 17-14 first quarter maps to the row
	// labelled 7 (index 7) and the column labelled 4 (index 4).
	var scores models.GameScores
	assert.NoError(t, commitQuarter(&scores, game_constants.QuarterFirst, models.Score{Vertical: 17, Horizontal: 14}))
	assert.NoError(t, g.SetGameScores(scores))

	playerID := uuid.New()
	players := []models.Player{{ID: playerID, GameCode: g.Code, Name: "Dana", Email: "dana@example.com"}}
	squares := []models.Square{{GameCode: g.Code, Row: 7, Col: 4, PlayerID: playerID, SelectedAt: time.Now()}}

	payouts := Payouts(PrizePool(len(squares), g.SquareCost), mustScoring(t, g))

	winners, err := quarterWinners(g, squares, players, payouts)
	assert.NoError(t, err)
	assert.Len(t, winners, 1)

	w, ok := winners[game_constants.QuarterFirst]
	assert.True(t, ok)
	assert.Equal(t, 7, w.Row)
	assert.Equal(t, 4, w.Col)
	assert.Equal(t, playerID.String(), w.PlayerID)
	assert.Equal(t, "Dana", w.PlayerName)
	assert.Equal(t, payouts.FirstQuarter, w.Payout)
}

func TestQuarterWinnersUnclaimedCell(t *testing.T) {
	g := testGame(t, models.GameStatusActive)

	var scores models.GameScores
	assert.NoError(t, commitQuarter(&scores, game_constants.QuarterFirst, models.Score{Vertical: 17, Horizontal: 14}))
	assert.NoError(t, g.SetGameScores(scores))

	winners, err := quarterWinners(g, nil, nil, PayoutBreakdown{FirstQuarter: 50})
	assert.NoError(t, err)

	w, ok := winners[game_constants.QuarterFirst]
	assert.True(t, ok)
	assert.Empty(t, w.PlayerID)
	assert.Empty(t, w.PlayerName)
	assert.Equal(t, 50.0, w.Payout)
}

func TestQuarterWinnersNoneBeforeCommit(t *testing.T) {
	g := testGame(t, models.GameStatusActive)

	winners, err := quarterWinners(g, nil, nil, PayoutBreakdown{})
	assert.NoError(t, err)
	assert.Empty(t, winners)
}

func mustScoring(t *testing.T, g *models.Game) models.ScoringConfig {
	t.Helper()
	sc, err := g.ScoringConfig()
	assert.NoError(t, err)
	return sc
}
