package game

import (
	"time"

	models "boxpool/models/postgres"
)

// The view types are the read-boundary projection of the stored records.
// Redaction of the final grid happens here, on a fresh copy, never by
// deleting fields on the loaded record (which could get persisted back).

type TeamsView struct {
	Vertical   string `json:"vertical"`
	Horizontal string `json:"horizontal"`
}

type ConfigView struct {
	SquareCost  float64              `json:"squareCost"`
	SquareLimit int                  `json:"squareLimit"`
	Scoring     models.ScoringConfig `json:"scoring"`
	Teams       TeamsView            `json:"teams"`
}

type GameView struct {
	GameID         string            `json:"gameId"`
	Name           string            `json:"name"`
	OwnerEmail     string            `json:"ownerEmail"`
	Status         models.GameStatus `json:"status"`
	Config         ConfigView        `json:"config"`
	Grid           models.GameGrid   `json:"grid"`
	Scores         models.GameScores `json:"scores"`
	CurrentQuarter string            `json:"currentQuarter"`
	CreatedAt      time.Time         `json:"createdAt"`
	StartedAt      *time.Time        `json:"startedAt,omitempty"`
	CompletedAt    *time.Time        `json:"completedAt,omitempty"`
}

type PlayerView struct {
	ID            string    `json:"id"`
	GameID        string    `json:"gameId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	VenmoUsername string    `json:"venmoUsername,omitempty"`
	HasPaid       bool      `json:"hasPaid"`
	JoinedAt      time.Time `json:"joinedAt"`
}

type SquareView struct {
	GameID     string    `json:"gameId"`
	PlayerID   string    `json:"playerId"`
	Row        int       `json:"row"`
	Col        int       `json:"col"`
	SelectedAt time.Time `json:"selectedAt"`
}

// QuarterWinner is the derived result for one committed quarter.
type QuarterWinner struct {
	Quarter    string       `json:"quarter"`
	Score      models.Score `json:"score"`
	Row        int          `json:"row"`
	Col        int          `json:"col"`
	PlayerID   string       `json:"playerId,omitempty"`
	PlayerName string       `json:"playerName,omitempty"`
	Payout     float64      `json:"payout"`
}

// Detail is the full read-path response: the projected game plus live,
// always-recomputed prize pool, payouts and winners. None of the derived
// numbers are ever stored, so they cannot go stale against the claimed
// square count.
type Detail struct {
	Game      GameView                 `json:"game"`
	Players   []PlayerView             `json:"players"`
	Squares   []SquareView             `json:"squares"`
	PrizePool float64                  `json:"prizePool"`
	Payouts   PayoutBreakdown          `json:"payouts"`
	Winners   map[string]QuarterWinner `json:"winners"`
}

// ProjectGame builds the client-facing shape of a game. While the game is
// still in setup the final grid is withheld, so participants cannot infer
// the active grid's true mapping before commitment.
func ProjectGame(g *models.Game) (GameView, error) {
	grid, err := g.GameGrid()
	if err != nil {
		return GameView{}, err
	}
	scores, err := g.GameScores()
	if err != nil {
		return GameView{}, err
	}
	scoring, err := g.ScoringConfig()
	if err != nil {
		return GameView{}, err
	}

	if g.Status == models.GameStatusSetup {
		grid.Final = nil
	}

	return GameView{
		GameID:     g.Code,
		Name:       g.Name,
		OwnerEmail: g.OwnerEmail,
		Status:     g.Status,
		Config: ConfigView{
			SquareCost:  g.SquareCost,
			SquareLimit: g.SquareLimit,
			Scoring:     scoring,
			Teams:       TeamsView{Vertical: g.TeamVertical, Horizontal: g.TeamHorizontal},
		},
		Grid:           grid,
		Scores:         scores,
		CurrentQuarter: g.CurrentQuarter,
		CreatedAt:      g.CreatedAt,
		StartedAt:      g.StartedAt,
		CompletedAt:    g.CompletedAt,
	}, nil
}

func ProjectPlayer(p models.Player) PlayerView {
	return PlayerView{
		ID:            p.ID.String(),
		GameID:        p.GameCode,
		Name:          p.Name,
		Email:         p.Email,
		VenmoUsername: p.VenmoUsername,
		HasPaid:       p.HasPaid,
		JoinedAt:      p.JoinedAt,
	}
}

func ProjectSquare(sq models.Square) SquareView {
	return SquareView{
		GameID:     sq.GameCode,
		PlayerID:   sq.PlayerID.String(),
		Row:        sq.Row,
		Col:        sq.Col,
		SelectedAt: sq.SelectedAt,
	}
}

func ProjectSquares(squares []models.Square) []SquareView {
	views := make([]SquareView, len(squares))
	for i, sq := range squares {
		views[i] = ProjectSquare(sq)
	}
	return views
}
