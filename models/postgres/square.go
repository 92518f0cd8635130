package postgres

import (
	"time"

	"github.com/google/uuid"
)

/*
 * 'Square' is one permanently-claimed cell of a game's 10x10 grid.
 * The composite primary key (game, row, col) is the authoritative
 * uniqueness guarantee: two concurrent claims for the same cell race on
 * this constraint and exactly one insert wins. Squares are append-only,
 * never mutated or deleted.
 */
type Square struct {
	// NOTE: composite primary key definition. Column names avoid the
	// reserved words ROW/COL so raw query fragments need no quoting.
	GameCode   string    `gorm:"column:game_code;primaryKey;size:12;not null"`
	Row        int       `gorm:"column:row_index;primaryKey;not null"`
	Col        int       `gorm:"column:col_index;primaryKey;not null"`
	PlayerID   uuid.UUID `gorm:"type:uuid;not null;index:idx_squares_player"`
	SelectedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Game   Game   `gorm:"foreignKey:GameCode;references:Code"`
	Player Player `gorm:"foreignKey:PlayerID"`
}
