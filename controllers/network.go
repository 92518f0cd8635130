package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Liveness check
// @Tags network
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// @Summary Health check
// @Tags network
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
