package utils

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"boxpool/apperrors"
	models "boxpool/models/postgres"
)

// NormalizeEmail is the canonical form used everywhere an email is a key:
// trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SameEmail compares two addresses case-insensitively.
func SameEmail(a, b string) bool {
	return NormalizeEmail(a) == NormalizeEmail(b)
}

// FindGame loads a game by code, mapping a miss to the domain NotFound.
func FindGame(db *gorm.DB, gameCode string) (*models.Game, error) {
	var game models.Game
	result := db.Where("code = ?", gameCode).First(&game)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Game not found")
		}
		return nil, result.Error
	}
	return &game, nil
}

// FindPlayer loads a player by the (game, email) natural key.
func FindPlayer(db *gorm.DB, gameCode string, email string) (*models.Player, error) {
	var player models.Player
	result := db.Where("game_code = ? AND email = ?", gameCode, NormalizeEmail(email)).First(&player)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Player not found")
		}
		return nil, result.Error
	}
	return &player, nil
}

// CountPlayerSquares counts the player's permanent squares in a game.
// Runs against whatever db handle it is given, so callers inside a
// transaction count within that transaction.
func CountPlayerSquares(db *gorm.DB, gameCode string, playerID string) (int64, error) {
	var count int64
	err := db.Model(&models.Square{}).
		Where("game_code = ? AND player_id = ?", gameCode, playerID).
		Count(&count).Error
	return count, err
}

// RequireOwner returns Unauthorized unless the requester is the game's
// owner (case-insensitive email match).
func RequireOwner(game *models.Game, requesterEmail string) error {
	if !SameEmail(game.OwnerEmail, requesterEmail) {
		return apperrors.Unauthorized("Only the game owner can do that")
	}
	return nil
}

// IsUniqueViolation recognizes a primary/unique key conflict from the
// storage layer, whichever shape the driver reports it in.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
