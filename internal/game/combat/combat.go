// Package combat implements the auto-battle engine: damage resolution, turn
// order, the capture sub-protocol, and the round loop that ties them together.
package combat

import "errors"

// ErrInvalidState is returned when a battle is requested with inputs that
// violate its preconditions (missing or already-fainted combatants).
var ErrInvalidState = errors.New("combat: invalid state")

// Source is the subset of dice.Source used by the battle loop.
// Using a local interface keeps combat free of a dice dependency.
type Source interface {
	// Float64 returns a uniform sample in [0, 1).
	Float64() float64
}

// Side identifies which party a combatant belongs to.
type Side int

const (
	SidePlayer Side = iota
	SideWild
)

// String returns a human-readable side label.
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideWild:
		return "wild"
	default:
		return "unknown"
	}
}

// State is the battle state machine's current state.
type State int

const (
	StateOngoing State = iota
	StatePlayerWon
	StateWildWon
	StateCaptured
	// StateDraw is only reached if the loop ends with both sides standing or
	// both fainted, which the round algorithm does not produce.
	StateDraw
)

// String returns the state's snake_case name.
func (s State) String() string {
	switch s {
	case StateOngoing:
		return "ongoing"
	case StatePlayerWon:
		return "player_won"
	case StateWildWon:
		return "wild_won"
	case StateCaptured:
		return "captured"
	case StateDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the battle.
func (s State) Terminal() bool { return s != StateOngoing }
