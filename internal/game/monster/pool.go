package monster

import (
	"fmt"

	"github.com/cory-johannsen/monsters/internal/game/dice"
)

// Pool is a read-only registry of monster templates.
// Spawned monsters are independent copies, so a Pool is safe for concurrent use.
type Pool struct {
	templates map[string]*Template
	order     []string
}

// NewPool indexes templates by name.
//
// Precondition: every template must have passed Validate.
// Postcondition: Returns a Pool or an error on duplicate names.
func NewPool(templates []*Template) (*Pool, error) {
	p := &Pool{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, exists := p.templates[t.Name]; exists {
			return nil, fmt.Errorf("duplicate monster template %q", t.Name)
		}
		p.templates[t.Name] = t
		p.order = append(p.order, t.Name)
	}
	return p, nil
}

// Len returns the number of templates.
func (p *Pool) Len() int { return len(p.order) }

// Names returns template names in load order.
func (p *Pool) Names() []string {
	return append([]string(nil), p.order...)
}

// Template returns the named template.
//
// Postcondition: Returns (template, true) if found, or (nil, false).
func (p *Pool) Template(name string) (*Template, bool) {
	t, ok := p.templates[name]
	return t, ok
}

// Spawn creates a fresh full-health monster from the named template.
func (p *Pool) Spawn(name string) (*Monster, error) {
	t, ok := p.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown monster %q", name)
	}
	return New(t), nil
}

// SpawnRandom picks a template uniformly among those accepted by filter
// (all templates when filter is nil) and spawns it.
//
// Postcondition: Returns a fresh monster, or an error when no template matches.
func (p *Pool) SpawnRandom(src dice.Source, filter func(*Template) bool) (*Monster, error) {
	var candidates []*Template
	for _, name := range p.order {
		t := p.templates[name]
		if filter == nil || filter(t) {
			candidates = append(candidates, t)
		}
	}
	t, err := dice.Choose(src, candidates)
	if err != nil {
		return nil, fmt.Errorf("spawning wild monster: %w", err)
	}
	return New(t), nil
}
