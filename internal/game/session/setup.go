package session

import (
	"fmt"

	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/game/player"
	"github.com/cory-johannsen/monsters/internal/game/world"
)

// StarterNets is the number of capture nets a new player carries.
const StarterNets = 1

// NewPlayer creates a player at start with starter as the first party member.
//
// Precondition: pool and start must be non-nil.
// Postcondition: Returns an error when starter is not a known template.
func NewPlayer(name, starter string, pool *monster.Pool, start *world.Region) (*player.Player, error) {
	p := player.New(name)
	p.MoveTo(start.Name)
	m, err := pool.Spawn(starter)
	if err != nil {
		return nil, fmt.Errorf("starter monster: %w", err)
	}
	if err := p.AddToParty(m); err != nil {
		return nil, err
	}
	if err := p.AddItem(CaptureNet, StarterNets); err != nil {
		return nil, err
	}
	return p, nil
}
