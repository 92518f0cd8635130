package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boxpool/apperrors"
	claim_service "boxpool/services/claim"
	game_service "boxpool/services/game"
	"boxpool/services/pending"
)

type confirmSquaresRequest struct {
	Email   string         `json:"email"`
	Squares []pending.Cell `json:"squares"`
}

// @Summary Confirms square selections
// @Description Converts the player's tentative picks into permanent squares. Cells are attempted independently and in order: a lost uniqueness race or an exhausted quota rejects that cell only, so partial success is a normal outcome, not an error
// @Tags squares
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.confirmSquaresRequest true "Cells to claim"
// @Success 201 {object} object{accepted=[]game_service.SquareView,rejected=[]claim_service.RejectedCell}
// @Failure 400 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/squares [post]
func ConfirmSquares(arbiter *claim_service.Arbiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req confirmSquaresRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}
		if req.Email == "" {
			apperrors.Respond(c, apperrors.Validation("Email is required"))
			return
		}
		if len(req.Squares) == 0 {
			apperrors.Respond(c, apperrors.Validation("At least one square is required"))
			return
		}

		result, err := arbiter.Confirm(c.Param("game_code"), req.Email, req.Squares)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		status := http.StatusOK
		if len(result.Accepted) > 0 {
			status = http.StatusCreated
		}
		c.JSON(status, gin.H{
			"accepted": game_service.ProjectSquares(result.Accepted),
			"rejected": result.Rejected,
		})
	}
}
