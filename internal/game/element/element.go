// Package element holds the elemental effectiveness table used by damage resolution.
package element

// Neutral is the element assumed when an attack carries no element of its own.
const Neutral = "neutral"

// Element tags used by the shipped content.
const (
	Fire     = "fire"
	Water    = "water"
	Nature   = "nature"
	Earth    = "earth"
	Electric = "electric"
	Mystic   = "mystic"
)

// table maps attacking element to defending element to damage multiplier.
// Pairs that are absent are neutral (1.0). Read-only after package init.
var table = map[string]map[string]float64{
	Fire:     {Nature: 1.25, Water: 0.75},
	Water:    {Fire: 1.25, Electric: 0.75},
	Nature:   {Earth: 1.15, Fire: 0.75},
	Earth:    {Electric: 1.25, Nature: 0.85},
	Electric: {Water: 1.3, Earth: 0.7},
}

// Modifier returns the damage multiplier for an attack of the attacking element
// against a defender of the defending element.
//
// An empty attacking element is treated as Neutral.
// Postcondition: Returns the configured multiplier, or 1.0 for any unlisted pair.
func Modifier(attacking, defending string) float64 {
	if attacking == "" {
		attacking = Neutral
	}
	row, ok := table[attacking]
	if !ok {
		return 1.0
	}
	if m, ok := row[defending]; ok {
		return m
	}
	return 1.0
}

// Effectiveness classifies a multiplier for display.
type Effectiveness int

const (
	EffectNeutral Effectiveness = iota
	EffectSuper
	EffectResisted
)

// String returns a short human-readable label.
func (e Effectiveness) String() string {
	switch e {
	case EffectSuper:
		return "super effective"
	case EffectResisted:
		return "resisted"
	default:
		return "neutral"
	}
}

// Classify reports whether attacking vs defending is super effective, resisted, or neutral.
func Classify(attacking, defending string) Effectiveness {
	m := Modifier(attacking, defending)
	switch {
	case m > 1.0:
		return EffectSuper
	case m < 1.0:
		return EffectResisted
	default:
		return EffectNeutral
	}
}
