package game

import (
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"boxpool/apperrors"
	game_constants "boxpool/constants/game"
	"boxpool/middleware"
	models "boxpool/models/postgres"
	"boxpool/services/pending"
	"boxpool/utils"
)

// Broadcaster pushes advisory update hints into game rooms. Clients poll
// for state; the hints only shorten the poll latency, so a nil
// Broadcaster is fine.
type Broadcaster interface {
	BroadcastToGame(gameCode string, event string, payload interface{})
}

// Service owns the Game aggregate's lifecycle: creation, the
// setup -> active -> completed state machine, score recording and the
// derived read path.
type Service struct {
	DB        *gorm.DB
	Pending   pending.Store
	Broadcast Broadcaster
}

type TeamsConfig struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

type Config struct {
	SquareCost  float64              `json:"squareCost"`
	SquareLimit int                  `json:"squareLimit"`
	Scoring     models.ScoringConfig `json:"scoring"`
	Teams       TeamsConfig          `json:"teams"`
}

type CreateParams struct {
	Name            string
	OwnerEmail      string
	OwnerName       string
	OwnerPassphrase string
	Config          Config
}

type CreateResult struct {
	Game       GameView   `json:"game"`
	Owner      PlayerView `json:"owner"`
	AccessLink string     `json:"accessLink"`
	OwnerToken string     `json:"ownerToken"`
}

// Create validates the config, generates the code and both grid
// permutations, and registers the owner as the first player, all in one
// transaction.
func (s *Service) Create(params CreateParams) (*CreateResult, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperrors.Validation("Game name is required")
	}
	if strings.TrimSpace(params.OwnerEmail) == "" {
		return nil, apperrors.Validation("Owner email is required")
	}
	if strings.TrimSpace(params.OwnerName) == "" {
		return nil, apperrors.Validation("Owner name is required")
	}
	if params.Config.SquareCost < 0 {
		return nil, apperrors.Validation("Square cost cannot be negative")
	}
	if params.Config.SquareLimit < game_constants.MinSquareLimit ||
		params.Config.SquareLimit > game_constants.MaxSquareLimit {
		return nil, apperrors.Validation(fmt.Sprintf("Square limit must be between %d and %d",
			game_constants.MinSquareLimit, game_constants.MaxSquareLimit))
	}
	if err := ValidateScoring(params.Config.Scoring); err != nil {
		return nil, err
	}

	teams := params.Config.Teams
	if strings.TrimSpace(teams.Vertical) == "" {
		teams.Vertical = "Team 1"
	}
	if strings.TrimSpace(teams.Horizontal) == "" {
		teams.Horizontal = "Team 2"
	}

	ownerEmail := utils.NormalizeEmail(params.OwnerEmail)

	// Two independent shuffles: the setup-display grid and the final
	// grid that actually decides winners.
	setupLabels := NewGridLabels()
	finalLabels := NewGridLabels()

	game := models.Game{
		Name:           params.Name,
		OwnerEmail:     ownerEmail,
		Status:         models.GameStatusSetup,
		SquareCost:     params.Config.SquareCost,
		SquareLimit:    params.Config.SquareLimit,
		TeamVertical:   teams.Vertical,
		TeamHorizontal: teams.Horizontal,
		CurrentQuarter: game_constants.QuarterFirst,
	}
	if err := game.SetScoringConfig(params.Config.Scoring); err != nil {
		return nil, err
	}
	if err := game.SetGameGrid(models.GameGrid{
		Rows:  setupLabels.Rows,
		Cols:  setupLabels.Cols,
		Final: &finalLabels,
	}); err != nil {
		return nil, err
	}
	if err := game.SetGameScores(models.GameScores{Current: models.Score{}}); err != nil {
		return nil, err
	}

	if params.OwnerPassphrase != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.OwnerPassphrase), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		game.OwnerPassHash = string(hash)
	}

	owner := models.Player{
		Email: ownerEmail,
		Name:  params.OwnerName,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		owner.GameCode = game.Code
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}

	token, err := middleware.SignOwnerToken(game.Code, ownerEmail)
	if err != nil {
		return nil, err
	}

	view, err := ProjectGame(&game)
	if err != nil {
		return nil, err
	}

	return &CreateResult{
		Game:       view,
		Owner:      ProjectPlayer(owner),
		AccessLink: "/game/" + game.Code,
		OwnerToken: token,
	}, nil
}

// Get is the polled read path: projected game, players, squares, and the
// live-recomputed prize pool, payouts and committed-quarter winners.
func (s *Service) Get(gameCode string) (*Detail, error) {
	game, err := utils.FindGame(s.DB, gameCode)
	if err != nil {
		return nil, err
	}

	var players []models.Player
	if err := s.DB.Where("game_code = ?", gameCode).Order("joined_at").Find(&players).Error; err != nil {
		return nil, err
	}

	var squares []models.Square
	if err := s.DB.Where("game_code = ?", gameCode).Find(&squares).Error; err != nil {
		return nil, err
	}

	scoring, err := game.ScoringConfig()
	if err != nil {
		return nil, err
	}
	prizePool := PrizePool(len(squares), game.SquareCost)
	payouts := Payouts(prizePool, scoring)

	view, err := ProjectGame(game)
	if err != nil {
		return nil, err
	}

	playerViews := make([]PlayerView, len(players))
	for i, p := range players {
		playerViews[i] = ProjectPlayer(p)
	}

	winners, err := quarterWinners(game, squares, players, payouts)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Game:      view,
		Players:   playerViews,
		Squares:   ProjectSquares(squares),
		PrizePool: prizePool,
		Payouts:   payouts,
		Winners:   winners,
	}, nil
}

// Start flips the game to active. Irrevocable: from this point the grid
// is frozen, no further squares may be claimed, and the final grid
// becomes visible to all readers.
func (s *Service) Start(gameCode, requesterEmail string) (*Detail, error) {
	game, err := utils.FindGame(s.DB, gameCode)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(game, requesterEmail); err != nil {
		return nil, err
	}

	next, err := Transition(game.Status, EventStart)
	if err != nil {
		return nil, err
	}

	grid, err := game.GameGrid()
	if err != nil {
		return nil, err
	}
	if grid.Final == nil {
		return nil, apperrors.InvalidState("Game grid not properly initialized")
	}

	// Update-if-still-setup: two racing start calls cannot both succeed,
	// so startedAt is stamped exactly once.
	now := time.Now()
	result := s.DB.Model(&models.Game{}).
		Where("code = ? AND status = ?", gameCode, models.GameStatusSetup).
		Updates(map[string]interface{}{"status": next, "started_at": now})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("Game already started")
	}

	// The grid is frozen; lingering pending picks are just noise now.
	if err := s.Pending.ClearGame(gameCode); err != nil {
		log.Printf("Error clearing pending selections for game %s: %v", gameCode, err)
	}

	s.broadcast(gameCode, "game-started", map[string]interface{}{"gameId": gameCode})
	return s.Get(gameCode)
}

// UpdateScore records the running score and, when a quarter is supplied,
// freezes that quarter's result. Committing "final" completes the game.
func (s *Service) UpdateScore(gameCode, requesterEmail string, score models.Score, quarter string) (*Detail, error) {
	game, err := utils.FindGame(s.DB, gameCode)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(game, requesterEmail); err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusActive {
		return nil, apperrors.InvalidState("Game not active")
	}

	scores, err := game.GameScores()
	if err != nil {
		return nil, err
	}
	scores.Current = score

	updates := map[string]interface{}{}

	if quarter != "" {
		if err := commitQuarter(&scores, quarter, score); err != nil {
			return nil, err
		}
		updates["current_quarter"] = quarter

		if quarter == game_constants.QuarterFinal {
			next, err := Transition(game.Status, EventCommitFinal)
			if err != nil {
				return nil, err
			}
			updates["status"] = next
			updates["completed_at"] = time.Now()
		}
	}

	scoresGame := models.Game{}
	if err := scoresGame.SetGameScores(scores); err != nil {
		return nil, err
	}
	updates["scores"] = datatypes.JSON(scoresGame.Scores)

	// The status gate rides along in the WHERE clause so a concurrent
	// completion cannot be overwritten by a straggling score update.
	result := s.DB.Model(&models.Game{}).
		Where("code = ? AND status = ?", gameCode, models.GameStatusActive).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.InvalidState("Game not active")
	}

	s.broadcast(gameCode, "score-updated", map[string]interface{}{"gameId": gameCode, "score": score, "quarter": quarter})
	return s.Get(gameCode)
}

// commitQuarter freezes one quarter's score. Commits are irreversible:
// re-committing an already-frozen quarter is rejected rather than letting
// the owner rewrite history after payouts were implied.
func commitQuarter(scores *models.GameScores, quarter string, score models.Score) error {
	var slot **models.Score
	switch quarter {
	case game_constants.QuarterFirst:
		slot = &scores.FirstQuarter
	case game_constants.QuarterSecond:
		slot = &scores.SecondQuarter
	case game_constants.QuarterThird:
		slot = &scores.ThirdQuarter
	case game_constants.QuarterFinal:
		slot = &scores.Final
	default:
		return apperrors.Validation("Invalid quarter")
	}
	if *slot != nil {
		return apperrors.InvalidState(fmt.Sprintf("Quarter %q is already committed", quarter))
	}
	committed := score
	*slot = &committed
	return nil
}

// quarterWinners derives the winner of every committed quarter by mapping
// each frozen score through the final grid permutation. An unclaimed
// winning cell yields an entry with no player.
func quarterWinners(game *models.Game, squares []models.Square, players []models.Player, payouts PayoutBreakdown) (map[string]QuarterWinner, error) {
	grid, err := game.GameGrid()
	if err != nil {
		return nil, err
	}
	scores, err := game.GameScores()
	if err != nil {
		return nil, err
	}

	winners := make(map[string]QuarterWinner)
	if grid.Final == nil {
		return winners, nil
	}

	namesByID := make(map[string]string, len(players))
	for _, p := range players {
		namesByID[p.ID.String()] = p.Name
	}

	committed := []struct {
		quarter string
		score   *models.Score
		payout  float64
	}{
		{game_constants.QuarterFirst, scores.FirstQuarter, payouts.FirstQuarter},
		{game_constants.QuarterSecond, scores.SecondQuarter, payouts.SecondQuarter},
		{game_constants.QuarterThird, scores.ThirdQuarter, payouts.ThirdQuarter},
		{game_constants.QuarterFinal, scores.Final, payouts.Final},
	}

	for _, q := range committed {
		if q.score == nil {
			continue
		}
		row, col, ok := WinningCell(*q.score, *grid.Final)
		if !ok {
			continue
		}
		winner := QuarterWinner{
			Quarter: q.quarter,
			Score:   *q.score,
			Row:     row,
			Col:     col,
			Payout:  q.payout,
		}
		for _, sq := range squares {
			if sq.Row == row && sq.Col == col {
				winner.PlayerID = sq.PlayerID.String()
				winner.PlayerName = namesByID[winner.PlayerID]
				break
			}
		}
		winners[q.quarter] = winner
	}
	return winners, nil
}

func (s *Service) broadcast(gameCode, event string, payload interface{}) {
	if s.Broadcast != nil {
		s.Broadcast.BroadcastToGame(gameCode, event, payload)
	}
}
