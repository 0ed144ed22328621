// Package player defines the player's party, inventory and survival vitals.
package player

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/monster"
)

const (
	// MaxPartySize is the number of monsters a player can carry.
	MaxPartySize = 6
	// MaxStat is the upper bound of every vital.
	MaxStat = 100

	// starvationDamage is lost from Health per tick while Hunger is maxed.
	starvationDamage = 10
	// exposureFatigue is lost from Stamina per tick while Exposure is maxed.
	exposureFatigue = 10
)

var (
	// ErrPartyFull is returned when adding to a party of MaxPartySize monsters.
	ErrPartyFull = errors.New("player: party is full")
	// ErrNotInParty is returned when a monster or slot is not in the party.
	ErrNotInParty = errors.New("player: monster not in party")
)

// Vitals are the survival stats, each in [0, MaxStat].
type Vitals struct {
	Health   int `json:"health"`
	Stamina  int `json:"stamina"`
	Hunger   int `json:"hunger"`
	Morale   int `json:"morale"`
	Exposure int `json:"exposure"`
}

// DefaultVitals returns the vitals of a freshly created player.
func DefaultVitals() Vitals {
	return Vitals{Health: 100, Stamina: 100, Hunger: 0, Morale: 70, Exposure: 0}
}

// Clamp forces every vital into [0, MaxStat].
func (v *Vitals) Clamp() {
	v.Health = clamp(v.Health)
	v.Stamina = clamp(v.Stamina)
	v.Hunger = clamp(v.Hunger)
	v.Morale = clamp(v.Morale)
	v.Exposure = clamp(v.Exposure)
}

// Player is the single human-controlled adventurer.
//
// ID is assigned at creation and is stable across saves.
type Player struct {
	ID       string
	Name     string
	Location string
	Vitals
	Inventory *inventory.Bag

	party []*monster.Monster
}

// New creates a player with default vitals, an empty party and an empty bag.
func New(name string) *Player {
	return &Player{
		ID:        uuid.NewString(),
		Name:      name,
		Vitals:    DefaultVitals(),
		Inventory: inventory.NewBag(),
	}
}

// Party returns the party in slot order. Index 0 is the active monster.
//
// Postcondition: the returned slice is a copy; the monsters are shared.
func (p *Player) Party() []*monster.Monster {
	return append([]*monster.Monster(nil), p.party...)
}

// AddToParty appends m to the party.
//
// Postcondition: Returns ErrPartyFull when the party already holds MaxPartySize monsters.
func (p *Player) AddToParty(m *monster.Monster) error {
	if len(p.party) >= MaxPartySize {
		return fmt.Errorf("adding %s: %w", m.Name, ErrPartyFull)
	}
	p.party = append(p.party, m)
	return nil
}

// RemoveFromParty removes m from the party.
func (p *Player) RemoveFromParty(m *monster.Monster) error {
	for i, pm := range p.party {
		if pm == m {
			p.party = append(p.party[:i], p.party[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("removing %s: %w", m.Name, ErrNotInParty)
}

// AvailablePartySlots returns how many more monsters the party can hold.
func (p *Player) AvailablePartySlots() int {
	return MaxPartySize - len(p.party)
}

// ActiveMonster returns the monster in slot 0, or nil for an empty party.
func (p *Player) ActiveMonster() *monster.Monster {
	if len(p.party) == 0 {
		return nil
	}
	return p.party[0]
}

// CycleActiveMonster moves the monster at index to the front of the party.
// The relative order of the other monsters is kept.
//
// Postcondition: on success ActiveMonster() is the returned monster.
func (p *Player) CycleActiveMonster(index int) (*monster.Monster, error) {
	if index < 0 || index >= len(p.party) {
		return nil, fmt.Errorf("party slot %d: %w", index+1, ErrNotInParty)
	}
	chosen := p.party[index]
	copy(p.party[1:index+1], p.party[:index])
	p.party[0] = chosen
	return chosen, nil
}

// FirstHealthy returns the first party monster that has not fainted, or nil.
func (p *Player) FirstHealthy() *monster.Monster {
	for _, m := range p.party {
		if !m.IsFainted() {
			return m
		}
	}
	return nil
}

// MoveTo sets the player's location to the named region.
func (p *Player) MoveTo(region string) {
	p.Location = region
}

// ApplySurvivalTick advances needs by one tick. A maxed Hunger costs Health
// and a maxed Exposure costs Stamina.
//
// Precondition: all rates are non-negative.
// Postcondition: every vital stays within [0, MaxStat].
func (p *Player) ApplySurvivalTick(hungerRate, exposureRate, moraleDrain int) {
	p.Hunger = min(MaxStat, p.Hunger+hungerRate)
	p.Exposure = min(MaxStat, p.Exposure+exposureRate)
	p.Morale = max(0, p.Morale-moraleDrain)
	if p.Hunger >= MaxStat {
		p.Health = max(0, p.Health-starvationDamage)
	}
	if p.Exposure >= MaxStat {
		p.Stamina = max(0, p.Stamina-exposureFatigue)
	}
}

// Rest recovers vitals and lets every party monster heal a quarter of its
// maximum health.
func (p *Player) Rest() {
	p.Hunger -= 20
	p.Exposure -= 20
	p.Health += 15
	p.Stamina += 25
	p.Morale += 5
	p.Vitals.Clamp()
	for _, m := range p.party {
		m.Heal(max(1, m.MaxHP/4))
	}
}

// IsIncapacitated reports whether the player has no health left.
func (p *Player) IsIncapacitated() bool {
	return p.Health <= 0
}

// AddItem adds quantity units of name to the inventory.
func (p *Player) AddItem(name string, quantity int) error {
	return p.Inventory.Add(name, quantity)
}

// RemoveItem removes quantity units of name from the inventory.
func (p *Player) RemoveItem(name string, quantity int) error {
	return p.Inventory.Remove(name, quantity)
}

// HasItem reports whether the inventory holds at least one unit of name.
func (p *Player) HasItem(name string) bool {
	return p.Inventory.Has(name)
}

// ItemQuantity returns how many units of name the inventory holds.
func (p *Player) ItemQuantity(name string) int {
	return p.Inventory.Quantity(name)
}

// ConsumeItem removes one unit of name and reports whether it was held.
func (p *Player) ConsumeItem(name string) bool {
	return p.Inventory.Consume(name)
}

// InventorySummary renders the inventory, one stack per line.
func (p *Player) InventorySummary() []string {
	return p.Inventory.Summary()
}

// Status renders the player's vitals on one line.
func (p *Player) Status() string {
	return fmt.Sprintf("Health %d  Stamina %d  Hunger %d  Morale %d  Exposure %d",
		p.Health, p.Stamina, p.Hunger, p.Morale, p.Exposure)
}

func clamp(v int) int {
	return min(MaxStat, max(0, v))
}
