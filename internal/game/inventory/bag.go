// Package inventory provides the player's stackable item bag and the
// recipe book used for crafting.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("inventory: quantity must be positive")
	// ErrUnknownItem is returned when removing an item the bag does not hold.
	ErrUnknownItem = errors.New("inventory: item not found")
	// ErrInsufficient is returned when removing more than the bag holds.
	ErrInsufficient = errors.New("inventory: not enough items")
)

// Stack is a named quantity of one item kind.
type Stack struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Bag holds stacks of items keyed by name. Names are normalised to lower case.
// Stacks with zero quantity are removed. A Bag is not safe for concurrent use.
type Bag struct {
	items map[string]int
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{items: make(map[string]int)}
}

// Normalize returns the canonical form of an item name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add puts quantity units of name into the bag.
//
// Precondition: quantity > 0 and name is non-empty.
// Postcondition: Quantity(name) increases by quantity, or an error is returned
// and the bag is unchanged.
func (b *Bag) Add(name string, quantity int) error {
	name = Normalize(name)
	if name == "" {
		return fmt.Errorf("inventory: item name must not be empty")
	}
	if quantity <= 0 {
		return fmt.Errorf("adding %d %s: %w", quantity, name, ErrInvalidQuantity)
	}
	b.items[name] += quantity
	return nil
}

// Remove takes quantity units of name out of the bag.
//
// Precondition: quantity > 0.
// Postcondition: on success Quantity(name) decreases by quantity and an empty
// stack is dropped; on error the bag is unchanged.
func (b *Bag) Remove(name string, quantity int) error {
	name = Normalize(name)
	if quantity <= 0 {
		return fmt.Errorf("removing %d %s: %w", quantity, name, ErrInvalidQuantity)
	}
	have, ok := b.items[name]
	if !ok {
		return fmt.Errorf("removing %s: %w", name, ErrUnknownItem)
	}
	if quantity > have {
		return fmt.Errorf("removing %d %s (have %d): %w", quantity, name, have, ErrInsufficient)
	}
	if quantity == have {
		delete(b.items, name)
	} else {
		b.items[name] = have - quantity
	}
	return nil
}

// Consume removes one unit of name and reports whether one was available.
func (b *Bag) Consume(name string) bool {
	return b.Remove(name, 1) == nil
}

// Has reports whether at least one unit of name is held.
func (b *Bag) Has(name string) bool {
	return b.items[Normalize(name)] > 0
}

// Quantity returns how many units of name are held.
func (b *Bag) Quantity(name string) int {
	return b.items[Normalize(name)]
}

// Len returns the number of distinct stacks.
func (b *Bag) Len() int { return len(b.items) }

// Stacks returns a snapshot of all stacks sorted by name.
//
// Postcondition: the returned slice is a copy.
func (b *Bag) Stacks() []Stack {
	out := make([]Stack, 0, len(b.items))
	for name, q := range b.items {
		out = append(out, Stack{Name: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary renders one "name xN" line per stack, or "(empty)".
func (b *Bag) Summary() []string {
	if len(b.items) == 0 {
		return []string{"(empty)"}
	}
	stacks := b.Stacks()
	out := make([]string, len(stacks))
	for i, s := range stacks {
		out[i] = fmt.Sprintf("%s x%d", s.Name, s.Quantity)
	}
	return out
}
