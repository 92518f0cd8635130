package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Player' is one participant in one pool, keyed naturally by
 * (game, email). Joining again with the same email updates the record
 * instead of creating a second one; players are never deleted.
 */
type Player struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	GameCode      string    `gorm:"size:12;not null;uniqueIndex:idx_players_game_email"`
	Email         string    `gorm:"size:100;not null;uniqueIndex:idx_players_game_email"`
	Name          string    `gorm:"size:100;not null"`
	VenmoUsername string    `gorm:"size:50"`
	HasPaid       bool      `gorm:"not null;default:false"`
	JoinedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Game    Game     `gorm:"foreignKey:GameCode;references:Code"`
	Squares []Square `gorm:"foreignKey:PlayerID"`
}

func (p *Player) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
