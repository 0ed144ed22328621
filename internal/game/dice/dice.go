// Package dice provides the randomness abstraction shared by combat, exploration,
// and spawning, together with a small dice-expression roller used by content files.
package dice

import (
	"errors"
	"fmt"
)

// Source is the randomness provider for every random decision in the game.
//
// Implementations used across goroutines MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniform sample in [0, 1).
	Float64() float64
}

// ErrEmptyChoice is returned by Choose when given no candidates.
var ErrEmptyChoice = errors.New("dice: choose from empty sequence")

// Choose returns one element of items picked uniformly with src.
//
// Postcondition: Returns an element of items, or ErrEmptyChoice if items is empty.
func Choose[T any](src Source, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, ErrEmptyChoice
	}
	return items[src.Intn(len(items))], nil
}

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string, e.g. "1d6+2 → [4] +2 = 6".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}
