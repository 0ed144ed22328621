// Package exploration moves the player between regions and resolves the
// events met along the way.
package exploration

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/game/player"
	"github.com/cory-johannsen/monsters/internal/game/world"
)

// Outcome classifies an exploration event.
type Outcome string

const (
	OutcomeCalm      Outcome = "calm"
	OutcomeResource  Outcome = "resource"
	OutcomeEncounter Outcome = "encounter"
	OutcomeHazard    Outcome = "hazard"
)

const (
	// resourceBand is the roll width above the encounter chance that yields a resource.
	resourceBand = 0.25
	// maxHazardChance caps the hazard band at the top of the roll range.
	maxHazardChance = 0.4
)

// ForageStamina is spent on every forage attempt.
const ForageStamina = 5

// Event is the result of rolling for what happens in a region.
type Event struct {
	Region          string
	Outcome         Outcome
	Roll            float64
	EncounterChance float64
}

// Narrator adds flavour text to resolved events. Implementations may return
// an empty note.
type Narrator interface {
	Narrate(region *world.Region, ev Event) (string, error)
}

// Explorer resolves travel, events and foraging with an injected Source.
type Explorer struct {
	src      dice.Source
	narrator Narrator
	logger   *zap.Logger
}

// NewExplorer creates an Explorer.
//
// Precondition: src and logger must be non-nil; narrator may be nil.
func NewExplorer(src dice.Source, narrator Narrator, logger *zap.Logger) *Explorer {
	return &Explorer{src: src, narrator: narrator, logger: logger}
}

// HazardChance returns the width of the hazard band for a danger level.
//
// Postcondition: 0 <= result <= 0.4.
func HazardChance(danger int) float64 {
	return min(maxHazardChance, max(0, 0.05+float64(danger)*0.05))
}

// Travel moves p to dest and rolls the arrival event.
//
// Postcondition: p.Location == dest.Name and the event's EncounterChance
// equals dest.EncounterChance().
func (e *Explorer) Travel(p *player.Player, dest *world.Region) Event {
	p.MoveTo(dest.Name)
	ev := e.RollEvent(dest)
	e.logger.Debug("travel",
		zap.String("player", p.Name),
		zap.String("region", dest.Name),
		zap.String("outcome", string(ev.Outcome)),
		zap.Float64("roll", ev.Roll),
	)
	return ev
}

// RollEvent draws one uniform sample and classifies it. Encounters take the
// bottom of the range, hazards the top, and resources the band just above
// the encounter chance.
func (e *Explorer) RollEvent(region *world.Region) Event {
	chance := region.EncounterChance()
	roll := e.src.Float64()
	ev := Event{Region: region.Name, Roll: roll, EncounterChance: chance}
	switch {
	case roll < chance:
		ev.Outcome = OutcomeEncounter
	case roll >= 1-HazardChance(region.DangerLevel):
		ev.Outcome = OutcomeHazard
	case roll < chance+resourceBand:
		ev.Outcome = OutcomeResource
	default:
		ev.Outcome = OutcomeCalm
	}
	return ev
}

// ResolveEvent applies the non-combat effects of ev to p and returns notes
// describing them. Encounters are reported but fought by the caller.
//
// Postcondition: p's vitals stay within [0, player.MaxStat].
func (e *Explorer) ResolveEvent(p *player.Player, region *world.Region, ev Event) ([]string, error) {
	var notes []string
	switch ev.Outcome {
	case OutcomeCalm:
		notes = append(notes, fmt.Sprintf("The way through %s is quiet.", region.Name))
	case OutcomeResource:
		item, err := e.gather(p, region)
		if err != nil {
			return nil, err
		}
		notes = append(notes, fmt.Sprintf("You come across some %s.", item))
	case OutcomeEncounter:
		notes = append(notes, fmt.Sprintf("Something stirs in %s. A wild monster approaches!", region.Name))
	case OutcomeHazard:
		note, err := e.hazard(p, region)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	default:
		return nil, fmt.Errorf("unknown exploration outcome %q", ev.Outcome)
	}
	if e.narrator != nil {
		extra, err := e.narrator.Narrate(region, ev)
		if err != nil {
			e.logger.Warn("narration failed", zap.String("region", region.Name), zap.Error(err))
		} else if extra != "" {
			notes = append(notes, extra)
		}
	}
	return notes, nil
}

func (e *Explorer) hazard(p *player.Player, region *world.Region) (string, error) {
	expr, err := dice.Parse(region.HazardDamage)
	if err != nil {
		return "", fmt.Errorf("region %q hazard: %w", region.Name, err)
	}
	dmg := max(1, dice.Roll(expr, e.src).Total())
	moraleLoss := max(1, region.DangerLevel)
	p.Health -= dmg
	p.Stamina -= dmg
	p.Morale -= moraleLoss
	p.Vitals.Clamp()
	return fmt.Sprintf("Hazards of %s wear you down: -%d health, -%d stamina, -%d morale.",
		region.Name, dmg, dmg, moraleLoss), nil
}

func (e *Explorer) gather(p *player.Player, region *world.Region) (string, error) {
	item, err := dice.Choose(e.src, region.Biome.Resources)
	if err != nil {
		return "", fmt.Errorf("region %q has nothing to gather: %w", region.Name, err)
	}
	if err := p.AddItem(item, 1); err != nil {
		return "", err
	}
	return item, nil
}

// Forage spends stamina to gather one resource of the region's biome.
//
// Postcondition: on success the returned item's quantity in p's inventory
// increased by one.
func (e *Explorer) Forage(p *player.Player, region *world.Region) (string, error) {
	item, err := e.gather(p, region)
	if err != nil {
		return "", err
	}
	p.Stamina = max(0, p.Stamina-ForageStamina)
	return item, nil
}

// Encounter spawns a wild monster for region. Regions that list monsters
// restrict the draw to those templates.
func (e *Explorer) Encounter(pool *monster.Pool, region *world.Region) (*monster.Monster, error) {
	var filter func(*monster.Template) bool
	if len(region.Monsters) > 0 {
		allowed := make(map[string]bool, len(region.Monsters))
		for _, name := range region.Monsters {
			allowed[name] = true
		}
		filter = func(t *monster.Template) bool { return allowed[t.Name] }
	}
	m, err := pool.SpawnRandom(e.src, filter)
	if err != nil {
		return nil, fmt.Errorf("encounter in %q: %w", region.Name, err)
	}
	return m, nil
}
