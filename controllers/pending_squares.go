package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"boxpool/apperrors"
	redis_models "boxpool/models/redis"
	"boxpool/services/pending"
	"boxpool/utils"
)

type setPendingRequest struct {
	Email   string         `json:"email"`
	Squares []pending.Cell `json:"squares"`
}

// @Summary Replaces a player's pending selections
// @Description Swaps the player's whole tentative working set for the given cells (an empty set is a cancellation). Entries expire after 30 seconds; this is advisory UX feedback, not a reservation
// @Tags squares
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.setPendingRequest true "Tentative cells"
// @Success 200 {object} object{pendingSquares=[]redis.PendingSelection}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/pending-squares [post]
func SetPendingSquares(db *gorm.DB, store pending.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setPendingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}

		gameCode := c.Param("game_code")
		player, err := utils.FindPlayer(db, gameCode, req.Email)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		entries, err := store.SetPending(gameCode, player.ID.String(), req.Squares)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pendingSquares": entries})
	}
}

// @Summary Lists a game's pending selections
// @Description Returns every non-expired tentative pick for the game, so polling clients can paint cells other players are considering
// @Tags squares
// @Produce json
// @Param game_code path string true "Game code"
// @Success 200 {object} object{pendingSquares=[]redis.PendingSelection}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/pending-squares [get]
func GetPendingSquares(db *gorm.DB, store pending.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameCode := c.Param("game_code")
		if _, err := utils.FindGame(db, gameCode); err != nil {
			apperrors.Respond(c, err)
			return
		}

		entries, err := store.ListPending(gameCode)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		if entries == nil {
			entries = []redis_models.PendingSelection{}
		}
		c.JSON(http.StatusOK, gin.H{"pendingSquares": entries})
	}
}
