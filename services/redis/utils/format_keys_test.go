package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPendingKey(t *testing.T) {
	assert.Equal(t, "pending:A1B2C3:player-1", FormatPendingKey("A1B2C3", "player-1"))
}

func TestFormatPendingPattern(t *testing.T) {
	assert.Equal(t, "pending:A1B2C3:*", FormatPendingPattern("A1B2C3"))
}
