package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boxpool/apperrors"
	"boxpool/middleware"
	models "boxpool/models/postgres"
	game_service "boxpool/services/game"
)

type createGameRequest struct {
	Name            string              `json:"name"`
	OwnerEmail      string              `json:"ownerEmail"`
	OwnerName       string              `json:"ownerName"`
	OwnerPassphrase string              `json:"ownerPassphrase,omitempty"`
	Config          game_service.Config `json:"config"`
}

type startGameRequest struct {
	OwnerEmail string `json:"ownerEmail"`
}

type updateScoreRequest struct {
	OwnerEmail string        `json:"ownerEmail"`
	Score      *models.Score `json:"score"`
	Quarter    string        `json:"quarter,omitempty"`
}

// @Summary Creates a new squares pool
// @Description Validates the config, generates the game code and both grid permutations, registers the owner as the first player and returns the game (setup grid only) with an access link and owner token
// @Tags game
// @Accept json
// @Produce json
// @Param request body controllers.createGameRequest true "Game settings"
// @Success 201 {object} game_service.CreateResult
// @Failure 400 {object} object{error=string,code=string}
// @Router /games [post]
func CreateGame(svc *game_service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}

		result, err := svc.Create(game_service.CreateParams{
			Name:            req.Name,
			OwnerEmail:      req.OwnerEmail,
			OwnerName:       req.OwnerName,
			OwnerPassphrase: req.OwnerPassphrase,
			Config:          req.Config,
		})
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// @Summary Gives the full state of a game
// @Description Returns the game (final grid redacted while in setup), players, squares, and the live-computed prize pool, payouts and committed-quarter winners
// @Tags game
// @Produce json
// @Param game_code path string true "Game code"
// @Success 200 {object} game_service.Detail
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code} [get]
func GetGame(svc *game_service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svc.Get(c.Param("game_code"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// @Summary Starts a game
// @Description Owner-only. Irreversibly flips the game from setup to active: claiming closes, the final grid becomes visible, pending selections are purged
// @Tags game
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.startGameRequest true "Owner email (or Bearer owner token)"
// @Success 200 {object} game_service.Detail
// @Failure 400 {object} object{error=string,code=string}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/start [post]
func StartGame(svc *game_service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}

		requester := middleware.RequesterEmail(c, req.OwnerEmail)
		if requester == "" {
			apperrors.Respond(c, apperrors.Validation("Owner email is required"))
			return
		}

		detail, err := svc.Start(c.Param("game_code"), requester)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// @Summary Commits a quarter score
// @Description Owner-only. Updates the running score and irreversibly freezes the given quarter's result; committing "final" completes the game
// @Tags game
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.updateScoreRequest true "Score and quarter"
// @Success 200 {object} game_service.Detail
// @Failure 400 {object} object{error=string,code=string}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/score [post]
func UpdateGameScore(svc *game_service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}
		if req.Score == nil {
			apperrors.Respond(c, apperrors.Validation("Invalid score format"))
			return
		}
		if req.Quarter == "" {
			apperrors.Respond(c, apperrors.Validation("Invalid quarter"))
			return
		}

		requester := middleware.RequesterEmail(c, req.OwnerEmail)
		if requester == "" {
			apperrors.Respond(c, apperrors.Validation("Owner email is required"))
			return
		}

		detail, err := svc.UpdateScore(c.Param("game_code"), requester, *req.Score, req.Quarter)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// @Summary Updates the running score
// @Description Owner-only. Updates the live current score without committing any quarter, for display and winner preview while a quarter is in play
// @Tags game
// @Accept json
// @Produce json
// @Param game_code path string true "Game code"
// @Param request body controllers.updateScoreRequest true "Score"
// @Success 200 {object} game_service.Detail
// @Failure 400 {object} object{error=string,code=string}
// @Failure 403 {object} object{error=string,code=string}
// @Failure 404 {object} object{error=string,code=string}
// @Router /games/{game_code}/current-score [post]
func UpdateCurrentScore(svc *game_service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateScoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.Respond(c, apperrors.Validation("Invalid request body"))
			return
		}
		if req.Score == nil {
			apperrors.Respond(c, apperrors.Validation("Invalid score format"))
			return
		}

		requester := middleware.RequesterEmail(c, req.OwnerEmail)
		if requester == "" {
			apperrors.Respond(c, apperrors.Validation("Owner email is required"))
			return
		}

		detail, err := svc.UpdateScore(c.Param("game_code"), requester, *req.Score, "")
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}
