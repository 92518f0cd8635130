package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boxpool/apperrors"
	"boxpool/middleware"
	game_service "boxpool/services/game"
	player_service "boxpool/services/player"
)

type joinGameRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	VenmoUsername string `json:"venmoUsername,omitempty"`
}

type ownerLoginRequest struct {
	Email      string `json:"email"`
	Passphrase string `json:"passphrase"`
}

type togglePaymentRequest struct {
	OwnerEmail string `json:"ownerEmail"`
}

// @Summary Joins a game
// @Description Registers a player (one per game+email). Re-joining updates the display name and venmo handle instead of creating a duplicate; new non-owner players are rejected once the game has started
// @Tags player
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.joinGameRequest true "Player identity"
// @Success 200 {object} object{player=game_service.PlayerView}
// @Success 201 {object} object{player=game_service.PlayerView}
// @Failure 400 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/join [post]
func JoinGame(registry *player_service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}

		player, err := registry.Join(c.Param("game_code"), req.Email, req.Name, req.VenmoUsername)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		// Remember who this browser is, so refreshes don't need a re-join.
		session := sessions.Default(c)
		session.Set("Email", player.Email)
		if err := session.Save(); err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"player": game_service.ProjectPlayer(*player)})
	}
}

// @Summary Issues an owner token
// @Description Verifies the owner identity (and passphrase, when the game has one) and returns a fresh Bearer token for owner-only calls
// @Tags player
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.ownerLoginRequest true "Owner credentials"
// @Success 200 {object} object{ownerToken=string}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/owner-login [post]
func OwnerLogin(registry *player_service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ownerLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}

		token, err := registry.OwnerLogin(c.Param("game_code"), req.Email, req.Passphrase)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ownerToken": token})
	}
}

// @Summary Toggles a player's paid flag
// @Description Owner-only. Payment is binary: the flag just flips
// @Tags player
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param player_id path string true "Player id"
// @Param request body controllers.togglePaymentRequest true "Owner email (or Bearer owner token)"
// @Success 200 {object} object{player=game_service.PlayerView}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/players/{player_id}/payment [patch]
func TogglePayment(registry *player_service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req togglePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}

		playerID, err := uuid.Parse(c.Param("player_id"))
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid player id"))
			return
		}

		requester := middleware.RequesterEmail(c, req.OwnerEmail)
		if requester == "" {
			apperrors.Respond(c, apperrors.Validation("Owner email is required"))
			return
		}

		player, err := registry.TogglePayment(c.Param("game_code"), playerID, requester)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"player": game_service.ProjectPlayer(*player)})
	}
}

// @Summary Lists a player's squares
// @Description Returns the permanent squares owned by the player with the given email
// @Tags player
// @Produce json
// @Param game_code path string true "Game code"
// @Param email query string true "Player email"
// @Success 200 {object} object{squares=[]game_service.SquareView}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/squares [get]
func GetPlayerSquares(registry *player_service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			apperrors.Respond(c, apperrors.Validation("Email is required"))
			return
		}

		squares, err := registry.Squares(c.Param("game_code"), email)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"squares": game_service.ProjectSquares(squares)})
	}
}

// @Summary Lists all players with their squares
// @Description Returns the game roster, each player carrying their claimed squares
// @Tags player
// @Produce json
// @Param game_code path string true "Game code"
// @Success 200 {object} object{players=[]object}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/players [get]
func GetGamePlayers(registry *player_service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		players, err := registry.PlayersWithSquares(c.Param("game_code"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		roster := make([]gin.H, len(players))
		for i, p := range players {
			roster[i] = gin.H{
				"id":            p.ID.String(),
				"gameId":        p.GameCode,
				"name":          p.Name,
				"email":         p.Email,
				"venmoUsername": p.VenmoUsername,
				"hasPaid":       p.HasPaid,
				"joinedAt":      p.JoinedAt,
				"squares":       game_service.ProjectSquares(p.Squares),
			}
		}
		c.JSON(http.StatusOK, gin.H{"players": roster})
	}
}
