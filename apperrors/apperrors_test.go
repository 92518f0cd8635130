package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeSquareTaken, CodeOf(SquareTaken("taken")))
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("nope")))
	assert.Equal(t, CodeQuotaExceeded, CodeOf(QuotaExceeded("limit")))

	// Wrapped domain errors still resolve.
	wrapped := fmt.Errorf("confirming squares: %w", InvalidState("not active"))
	assert.Equal(t, CodeInvalidState, CodeOf(wrapped))

	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("v").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("n").Status)
	assert.Equal(t, http.StatusForbidden, Unauthorized("u").Status)
	assert.Equal(t, http.StatusBadRequest, InvalidState("i").Status)
	assert.Equal(t, http.StatusConflict, SquareTaken("s").Status)
	assert.Equal(t, http.StatusBadRequest, QuotaExceeded("q").Status)
}

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, SquareTaken("Square (3, 4) is already claimed"))

	assert.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Square (3, 4) is already claimed", body["error"])
	assert.Equal(t, CodeSquareTaken, body["code"])
}

func TestRespondInfrastructureError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// Internals never leak to the client.
	assert.Equal(t, "Internal server error", body["error"])
}
