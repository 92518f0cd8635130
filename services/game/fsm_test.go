package game

import (
	"testing"

	"boxpool/apperrors"
	models "boxpool/models/postgres"

	"github.com/stretchr/testify/assert"
)

func TestTransitionForwardEdges(t *testing.T) {
	next, err := Transition(models.GameStatusSetup, EventStart)
	assert.NoError(t, err)
	assert.Equal(t, models.GameStatusActive, next)

	next, err = Transition(models.GameStatusActive, EventCommitFinal)
	assert.NoError(t, err)
	assert.Equal(t, models.GameStatusCompleted, next)
}

func TestTransitionRejectsInvalidEdges(t *testing.T) {
	cases := []struct {
		status models.GameStatus
		event  Event
	}{
		{models.GameStatusSetup, EventCommitFinal},
		{models.GameStatusActive, EventStart},
		{models.GameStatusCompleted, EventStart},
		{models.GameStatusCompleted, EventCommitFinal},
		{models.GameStatus("unknown"), EventStart},
	}

	for _, tc := range cases {
		_, err := Transition(tc.status, tc.event)
		assert.Error(t, err, "expected %s on %q to be rejected", tc.event, tc.status)
		assert.Equal(t, apperrors.CodeInvalidState, apperrors.CodeOf(err))
	}
}
