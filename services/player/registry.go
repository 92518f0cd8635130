package player

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"boxpool/apperrors"
	"boxpool/middleware"
	models "boxpool/models/postgres"
	"boxpool/utils"
)

// Registry manages Player identity: one record per (game, email),
// idempotent joins, the owner-only payment flag and the optional owner
// credential check.
type Registry struct {
	DB *gorm.DB
}

// Join registers a player or updates an existing one. Emails are the
// natural key, normalized to lowercase. Re-joining with a new name
// renames the player (and updates the venmo handle if one is given) no
// matter the game status; brand-new non-owner players are only accepted
// while the game is in setup. The owner can always join their own game,
// e.g. after a cache clear.
func (r *Registry) Join(gameCode, email, name, venmoUsername string) (*models.Player, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("Name and email are required")
	}

	game, err := utils.FindGame(r.DB, gameCode)
	if err != nil {
		return nil, err
	}

	normalized := utils.NormalizeEmail(email)

	existing, err := utils.FindPlayer(r.DB, gameCode, normalized)
	if err == nil {
		return r.update(existing, name, venmoUsername)
	}
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		return nil, err
	}

	if game.Status != models.GameStatusSetup && !utils.SameEmail(normalized, game.OwnerEmail) {
		return nil, apperrors.InvalidState("Game is no longer accepting new players")
	}

	player := models.Player{
		GameCode:      gameCode,
		Email:         normalized,
		Name:          name,
		VenmoUsername: venmoUsername,
	}
	if err := r.DB.Create(&player).Error; err != nil {
		// Two first-joins for the same email racing: the loser of the
		// (game, email) unique index retries as an update.
		if utils.IsUniqueViolation(err) {
			raced, findErr := utils.FindPlayer(r.DB, gameCode, normalized)
			if findErr != nil {
				return nil, findErr
			}
			return r.update(raced, name, venmoUsername)
		}
		return nil, err
	}
	return &player, nil
}

func (r *Registry) update(player *models.Player, name, venmoUsername string) (*models.Player, error) {
	changed := false
	if name != "" && player.Name != name {
		player.Name = name
		changed = true
	}
	if venmoUsername != "" && player.VenmoUsername != venmoUsername {
		player.VenmoUsername = venmoUsername
		changed = true
	}
	if changed {
		if err := r.DB.Save(player).Error; err != nil {
			return nil, err
		}
	}
	return player, nil
}

// TogglePayment flips the player's hasPaid flag. Owner-only; payment is
// binary, there is no partial-payment concept.
func (r *Registry) TogglePayment(gameCode string, playerID uuid.UUID, requesterEmail string) (*models.Player, error) {
	game, err := utils.FindGame(r.DB, gameCode)
	if err != nil {
		return nil, err
	}
	if err := utils.RequireOwner(game, requesterEmail); err != nil {
		return nil, err
	}

	var player models.Player
	result := r.DB.Where("game_code = ? AND id = ?", gameCode, playerID).First(&player)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Player not found")
		}
		return nil, result.Error
	}

	player.HasPaid = !player.HasPaid
	if err := r.DB.Model(&player).Update("has_paid", player.HasPaid).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// Squares returns the player's permanent squares in the game.
func (r *Registry) Squares(gameCode, email string) ([]models.Square, error) {
	player, err := utils.FindPlayer(r.DB, gameCode, email)
	if err != nil {
		return nil, err
	}

	var squares []models.Square
	err = r.DB.Where("game_code = ? AND player_id = ?", gameCode, player.ID).
		Order("selected_at").Find(&squares).Error
	if err != nil {
		return nil, err
	}
	return squares, nil
}

// PlayersWithSquares lists every player in the game with their squares
// preloaded, for the roster view.
func (r *Registry) PlayersWithSquares(gameCode string) ([]models.Player, error) {
	if _, err := utils.FindGame(r.DB, gameCode); err != nil {
		return nil, err
	}

	var players []models.Player
	err := r.DB.Preload("Squares").Where("game_code = ?", gameCode).
		Order("joined_at").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

// OwnerLogin verifies the requester is the owner — and, when the game was
// created with a passphrase, checks it against the bcrypt hash — then
// issues a fresh owner token.
func (r *Registry) OwnerLogin(gameCode, email, passphrase string) (string, error) {
	game, err := utils.FindGame(r.DB, gameCode)
	if err != nil {
		return "", err
	}
	if err := utils.RequireOwner(game, email); err != nil {
		return "", err
	}
	if game.OwnerPassHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(game.OwnerPassHash), []byte(passphrase)); err != nil {
			return "", apperrors.Unauthorized("Invalid passphrase")
		}
	}
	return middleware.SignOwnerToken(gameCode, utils.NormalizeEmail(email))
}
