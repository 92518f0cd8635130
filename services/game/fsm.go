package game

import (
	"fmt"

	"boxpool/apperrors"
	models "boxpool/models/postgres"
)

// Event is something that can move a game through its lifecycle.
type Event string

const (
	// EventStart is the owner starting the game: grid freezes, final
	// grid becomes visible, claiming closes forever.
	EventStart Event = "start"
	// EventCommitFinal is the owner committing the "final" quarter
	// score, which ends the game.
	EventCommitFinal Event = "commitFinal"
)

// transitions is the whole state machine: setup -> active -> completed,
// strictly forward, each edge terminal once crossed.
var transitions = map[models.GameStatus]map[Event]models.GameStatus{
	models.GameStatusSetup: {
		EventStart: models.GameStatusActive,
	},
	models.GameStatusActive: {
		EventCommitFinal: models.GameStatusCompleted,
	},
}

// Transition returns the state the game moves to on event, or an
// InvalidState error if the edge does not exist. It is pure: storage
// applies the result with an update-if-status-still-matches write, so a
// race between two identical transitions still produces exactly one
// winner.
func Transition(current models.GameStatus, event Event) (models.GameStatus, error) {
	if next, ok := transitions[current][event]; ok {
		return next, nil
	}
	return "", apperrors.InvalidState(fmt.Sprintf("Cannot %s a game in %q state", event, current))
}
