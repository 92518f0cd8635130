package postgres

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	game_constants "boxpool/constants/game"
)

type GameStatus string

const (
	GameStatusSetup     GameStatus = "setup"
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
)

// Score is one reading of the two running team totals.
type Score struct {
	Vertical   int `json:"vertical"`
	Horizontal int `json:"horizontal"`
}

// GameScores holds the live running score plus the frozen per-quarter
// scores. A nil quarter pointer means that quarter has not been committed.
type GameScores struct {
	Current       Score  `json:"current"`
	FirstQuarter  *Score `json:"firstQuarter,omitempty"`
	SecondQuarter *Score `json:"secondQuarter,omitempty"`
	ThirdQuarter  *Score `json:"thirdQuarter,omitempty"`
	Final         *Score `json:"final,omitempty"`
}

// GridLabels is one shuffled permutation of the digits 0-9 for each axis.
type GridLabels struct {
	Rows []int `json:"rows"`
	Cols []int `json:"cols"`
}

// GameGrid is the setup-display permutation plus the hidden final one.
// Final stays non-nil in storage for the whole game lifetime; it is the
// read-boundary projection that withholds it while the game is in setup.
type GameGrid struct {
	Rows  []int       `json:"rows"`
	Cols  []int       `json:"cols"`
	Final *GridLabels `json:"final,omitempty"`
}

// ScoringConfig is the four payout percentages, summing to 100.
type ScoringConfig struct {
	FirstQuarter  float64 `json:"firstQuarter"`
	SecondQuarter float64 `json:"secondQuarter"`
	ThirdQuarter  float64 `json:"thirdQuarter"`
	Final         float64 `json:"final"`
}

/*
 * 'Game' is one squares pool. The grid permutations and the score record
 * are stored as jsonb documents; everything the state machine gates on
 * (status, owner, quarter pointer) is a scalar column.
 */
type Game struct {
	Code           string         `gorm:"primaryKey;size:12;not null"`
	Name           string         `gorm:"size:100;not null"`
	OwnerEmail     string         `gorm:"size:100;not null;index:idx_games_owner"`
	OwnerPassHash  string         `gorm:"size:255"`
	Status         GameStatus     `gorm:"size:20;not null;default:'setup';index:idx_games_status"`
	SquareCost     float64        `gorm:"not null;default:0"`
	SquareLimit    int            `gorm:"not null;default:100"`
	TeamVertical   string         `gorm:"size:50;not null;default:'Team 1'"`
	TeamHorizontal string         `gorm:"size:50;not null;default:'Team 2'"`
	Scoring        datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Grid           datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Scores         datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CurrentQuarter string         `gorm:"size:20;not null;default:'firstQuarter'"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
	StartedAt      *time.Time
	CompletedAt    *time.Time

	// Relationships
	Players []Player `gorm:"foreignKey:GameCode;references:Code;constraint:OnDelete:CASCADE"`
	Squares []Square `gorm:"foreignKey:GameCode;references:Code;constraint:OnDelete:CASCADE"`
}

// NewGameCode returns a short, high-entropy, shareable game code.
// Collisions are handled by the BeforeCreate retry loop, not here.
func NewGameCode() string {
	b := make([]byte, game_constants.GameCodeBytes)
	rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}

// Ensure the code is truly unique. Six hex chars give ~16M codes, so a
// duplicate is rare but possible across concurrent creations.
func (g *Game) BeforeCreate(tx *gorm.DB) (err error) {
	if g.Code != "" {
		return nil
	}
	for {
		newCode := NewGameCode()
		var existing Game
		if err := tx.Where("code = ?", newCode).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				g.Code = newCode
				return nil
			}
			return err
		}
		// Otherwise, loop again to generate a new unique code
	}
}

func (g *Game) ScoringConfig() (ScoringConfig, error) {
	var sc ScoringConfig
	err := json.Unmarshal(g.Scoring, &sc)
	return sc, err
}

func (g *Game) SetScoringConfig(sc ScoringConfig) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return err
	}
	g.Scoring = datatypes.JSON(data)
	return nil
}

func (g *Game) GameGrid() (GameGrid, error) {
	var grid GameGrid
	err := json.Unmarshal(g.Grid, &grid)
	return grid, err
}

func (g *Game) SetGameGrid(grid GameGrid) error {
	data, err := json.Marshal(grid)
	if err != nil {
		return err
	}
	g.Grid = datatypes.JSON(data)
	return nil
}

func (g *Game) GameScores() (GameScores, error) {
	var scores GameScores
	err := json.Unmarshal(g.Scores, &scores)
	return scores, err
}

func (g *Game) SetGameScores(scores GameScores) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	g.Scores = datatypes.JSON(data)
	return nil
}
