package utils

import (
	"errors"
	"fmt"
	"testing"

	"boxpool/apperrors"
	models "boxpool/models/postgres"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "dana@example.com", NormalizeEmail("  Dana@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSameEmail(t *testing.T) {
	assert.True(t, SameEmail("Owner@Example.com", "owner@example.com "))
	assert.False(t, SameEmail("owner@example.com", "other@example.com"))
}

func TestRequireOwner(t *testing.T) {
	game := &models.Game{Code: "A1B2C3", OwnerEmail: "owner@example.com"}

	assert.NoError(t, RequireOwner(game, "OWNER@example.com"))

	err := RequireOwner(game, "player@example.com")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("creating square: %w", &pq.Error{Code: "23505"})))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
	// Other constraint classes are real failures, not "already taken".
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))
}
