/**
 * Package claim converts tentative picks into permanent squares. This is
 * the one place where correctness under concurrency matters: uniqueness
 * of (game, row, col) is enforced by the squares table's composite
 * primary key — an optimistic insert that treats a unique violation as
 * "already taken" — never by an application-level read-then-write. The
 * per-player quota is enforced under a row lock on the player, so a burst
 * of concurrent confirms from one player cannot blow past their limit.
 */
package claim

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boxpool/apperrors"
	game_constants "boxpool/constants/game"
	models "boxpool/models/postgres"
	"boxpool/services/pending"
	"boxpool/utils"
)

// Arbiter is the claim core. It consults the lifecycle status gate and
// the player quota, persists squares, and tidies the pending ledger.
type Arbiter struct {
	DB      *gorm.DB
	Pending pending.Store
}

// RejectedCell reports one cell that could not be claimed and why.
type RejectedCell struct {
	Cell    pending.Cell `json:"cell"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
}

// Result is the per-cell outcome of one confirm call. Partial success is
// a valid outcome: accepted squares are kept even when later cells fail.
type Result struct {
	Accepted []models.Square `json:"accepted"`
	Rejected []RejectedCell  `json:"rejected"`
}

// Confirm attempts to permanently claim each cell, in order, for the
// player identified by email. The whole call fails fast (typed error,
// nothing claimed) if the game is missing, the game is no longer in
// setup, or the player is unknown. Individual cells fail independently.
func (a *Arbiter) Confirm(gameCode, email string, cells []pending.Cell) (*Result, error) {
	game, err := utils.FindGame(a.DB, gameCode)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusSetup {
		return nil, apperrors.InvalidState("Game is no longer accepting square selections")
	}

	player, err := utils.FindPlayer(a.DB, gameCode, email)
	if err != nil {
		return nil, err
	}

	result := &Result{Accepted: []models.Square{}, Rejected: []RejectedCell{}}
	for _, cell := range cells {
		square, claimErr := a.claimOne(game, player, cell)
		if claimErr == nil {
			result.Accepted = append(result.Accepted, *square)
			continue
		}
		var appErr *apperrors.Error
		if errors.As(claimErr, &appErr) {
			result.Rejected = append(result.Rejected, RejectedCell{
				Cell:    cell,
				Code:    appErr.Code,
				Message: appErr.Message,
			})
			continue
		}
		// Infrastructure failure: stop here. Cells already accepted are
		// committed and stay that way; the caller sees both the partial
		// result and the error.
		return result, claimErr
	}

	if len(result.Accepted) > 0 {
		// Same logical operation as the confirm, so the UI never sees a
		// flash of "still pending" on a cell that is now owned.
		if err := a.Pending.ClearPending(gameCode, player.ID.String()); err != nil {
			log.Printf("Error clearing pending selections for player %s in game %s: %v",
				player.ID, gameCode, err)
		}
	}
	return result, nil
}

// claimOne claims a single cell inside one transaction:
//
//  1. re-read the game status, so a confirm racing the owner's start
//     call cannot slip a square in after the grid froze;
//  2. lock the player row, serializing this player's claims so the quota
//     count cannot be raced by the player's own parallel confirms;
//  3. re-count the player's squares and enforce the quota;
//  4. insert; the composite primary key decides uniqueness races, and a
//     unique violation is the normal "somebody else won" outcome, not a
//     bug.
func (a *Arbiter) claimOne(game *models.Game, player *models.Player, cell pending.Cell) (*models.Square, error) {
	if cell.Row < 0 || cell.Row >= game_constants.GridSize ||
		cell.Col < 0 || cell.Col >= game_constants.GridSize {
		return nil, apperrors.Validation(fmt.Sprintf("Cell (%d,%d) is outside the grid", cell.Row, cell.Col))
	}

	square := models.Square{
		GameCode:   game.Code,
		Row:        cell.Row,
		Col:        cell.Col,
		PlayerID:   player.ID,
		SelectedAt: time.Now(),
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var current models.Game
		if err := tx.Select("status").Where("code = ?", game.Code).First(&current).Error; err != nil {
			return err
		}
		if current.Status != models.GameStatusSetup {
			return apperrors.InvalidState("Game is no longer accepting square selections")
		}

		var locked models.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", player.ID).First(&locked).Error; err != nil {
			return err
		}

		count, err := utils.CountPlayerSquares(tx, game.Code, player.ID.String())
		if err != nil {
			return err
		}
		if count >= int64(game.SquareLimit) {
			return apperrors.QuotaExceeded(fmt.Sprintf("Maximum of %d squares per player reached", game.SquareLimit))
		}

		if err := tx.Create(&square).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperrors.SquareTaken(fmt.Sprintf("Square (%d,%d) already taken", cell.Row, cell.Col))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &square, nil
}
