package model

import "github.com/tcgforge/rulesengine/internal/mana"

// Player holds the per-player state tracked by the engine.
type Player struct {
	ID                   string
	Name                 string
	Life                 int
	Poison               int
	ManaPool             *mana.ManaPool
	HasPassed            bool
	HandKept             bool
	MulliganCount        int
	Lost                 bool
	Left                 bool
	LoyaltyActivatedThisTurn map[string]bool
}

// NewPlayer constructs a player with starting life and an empty mana pool.
func NewPlayer(id, name string, startingLife int) *Player {
	return &Player{
		ID:                       id,
		Name:                     name,
		Life:                     startingLife,
		ManaPool:                 mana.NewManaPool(),
		LoyaltyActivatedThisTurn: make(map[string]bool),
	}
}

// CanRespond reports whether the player may still receive priority actions
// (has neither conceded nor lost).
func (p *Player) CanRespond() bool {
	return !p.Lost && !p.Left
}
