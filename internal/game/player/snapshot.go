package player

import (
	"fmt"

	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/monster"
)

// PartyMember records one party slot by template name and current health.
type PartyMember struct {
	ID        string `json:"id"`
	Template  string `json:"template"`
	CurrentHP int    `json:"current_hp"`
}

// Snapshot is the storable state of a Player.
type Snapshot struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Location  string            `json:"location"`
	Vitals    Vitals            `json:"vitals"`
	Party     []PartyMember     `json:"party"`
	Inventory []inventory.Stack `json:"inventory"`
}

// Snapshot captures the player's current state.
//
// Postcondition: the result shares no memory with p.
func (p *Player) Snapshot() Snapshot {
	s := Snapshot{
		ID:        p.ID,
		Name:      p.Name,
		Location:  p.Location,
		Vitals:    p.Vitals,
		Party:     make([]PartyMember, 0, len(p.party)),
		Inventory: p.Inventory.Stacks(),
	}
	for _, m := range p.party {
		s.Party = append(s.Party, PartyMember{ID: m.ID, Template: m.Name, CurrentHP: m.CurrentHP()})
	}
	return s
}

// Restore rebuilds a Player from s, spawning party members from pool.
//
// Precondition: pool must contain every template named in s.Party.
// Postcondition: Returns a player whose Snapshot() equals s (modulo vitals clamping),
// or an error naming the first unknown template or invalid stack.
func Restore(s Snapshot, pool *monster.Pool) (*Player, error) {
	p := New(s.Name)
	p.ID = s.ID
	p.Location = s.Location
	p.Vitals = s.Vitals
	p.Vitals.Clamp()
	for _, pm := range s.Party {
		m, err := pool.Spawn(pm.Template)
		if err != nil {
			return nil, fmt.Errorf("restoring party: %w", err)
		}
		if pm.ID != "" {
			m.ID = pm.ID
		}
		m.SetCurrentHP(pm.CurrentHP)
		if err := p.AddToParty(m); err != nil {
			return nil, fmt.Errorf("restoring party: %w", err)
		}
	}
	for _, st := range s.Inventory {
		if err := p.Inventory.Add(st.Name, st.Quantity); err != nil {
			return nil, fmt.Errorf("restoring inventory: %w", err)
		}
	}
	return p, nil
}
