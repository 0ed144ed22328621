package world

import (
	"fmt"
)

// Manager indexes the overworld graph by region name.
// It is read-only after construction and safe for concurrent readers.
type Manager struct {
	regions map[string]*Region
	order   []*Region
	start   string
}

// NewManager creates a Manager over regions.
//
// Precondition: regions must be non-empty and start must name one of them.
// Postcondition: Returns a Manager, or an error on duplicate names, an unknown
// start region, or a neighbor outside the set.
func NewManager(regions []*Region, start string) (*Manager, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("world must contain at least one region")
	}
	m := &Manager{
		regions: make(map[string]*Region, len(regions)),
		order:   append([]*Region(nil), regions...),
		start:   start,
	}
	for _, r := range regions {
		if _, exists := m.regions[r.Name]; exists {
			return nil, fmt.Errorf("duplicate region %q", r.Name)
		}
		m.regions[r.Name] = r
	}
	if _, ok := m.regions[start]; !ok {
		return nil, fmt.Errorf("start region %q not found", start)
	}
	if err := m.validateLinks(); err != nil {
		return nil, err
	}
	return m, nil
}

// validateLinks checks that every neighbor is known and links back.
func (m *Manager) validateLinks() error {
	for _, r := range m.order {
		for dir, name := range r.Neighbors {
			n, ok := m.regions[name]
			if !ok {
				return fmt.Errorf("region %q: %s leads to unknown region %q", r.Name, dir, name)
			}
			if n.Neighbors[dir.Opposite()] != r.Name {
				return fmt.Errorf("region %q: %s link to %q is not mirrored", r.Name, dir, name)
			}
		}
	}
	return nil
}

// ValidateMonsters checks that every monster a region restricts encounters to
// is among known.
//
// Postcondition: Returns nil, or an error naming the first region (in load
// order) that lists an unknown monster.
func (m *Manager) ValidateMonsters(known []string) error {
	set := make(map[string]bool, len(known))
	for _, name := range known {
		set[name] = true
	}
	for _, r := range m.order {
		for _, name := range r.Monsters {
			if !set[name] {
				return fmt.Errorf("region %q: unknown monster %q", r.Name, name)
			}
		}
	}
	return nil
}

// Region returns the region with the given name.
//
// Postcondition: Returns (region, true) if found, or (nil, false) otherwise.
func (m *Manager) Region(name string) (*Region, bool) {
	r, ok := m.regions[name]
	return r, ok
}

// Start returns the region new players begin in.
func (m *Manager) Start() *Region {
	return m.regions[m.start]
}

// Navigate resolves movement from a region in a direction.
//
// Precondition: from must name a known region.
// Postcondition: Returns the destination region, or an error if there is no
// link that way.
func (m *Manager) Navigate(from string, dir Direction) (*Region, error) {
	r, ok := m.regions[from]
	if !ok {
		return nil, fmt.Errorf("region %q not found", from)
	}
	name, ok := r.Neighbors[dir]
	if !ok {
		return nil, fmt.Errorf("you cannot travel %s from %s", dir, from)
	}
	return m.regions[name], nil
}

// Regions returns every region in load order.
func (m *Manager) Regions() []*Region {
	return append([]*Region(nil), m.order...)
}

// Names returns all region names sorted alphabetically.
func (m *Manager) Names() []string {
	return sortedNames(m.regions)
}

// Len returns the number of regions.
func (m *Manager) Len() int { return len(m.regions) }
