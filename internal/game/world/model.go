// Package world provides the overworld model: biomes, regions, and the
// direction-keyed graph connecting them.
package world

import (
	"fmt"
	"sort"
	"strings"
)

// Direction names a link from one region to another.
type Direction string

// Compass directions usable as region links.
const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
)

// StandardDirections contains every direction a region link may use.
var StandardDirections = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
}

var directionAliases = map[string]Direction{
	"n": North, "s": South, "e": East, "w": West,
	"ne": Northeast, "nw": Northwest, "se": Southeast, "sw": Southwest,
}

// ParseDirection resolves a direction name or its abbreviation, ignoring case.
//
// Postcondition: Returns (dir, true) for a standard direction, or ("", false).
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := directionAliases[s]; ok {
		return d, true
	}
	d := Direction(s)
	return d, d.IsStandard()
}

// IsStandard reports whether d is one of the standard directions.
func (d Direction) IsStandard() bool {
	for _, sd := range StandardDirections {
		if d == sd {
			return true
		}
	}
	return false
}

// Opposite returns the opposite of a standard direction, or "" otherwise.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Northeast:
		return Southwest
	case Southwest:
		return Northeast
	case Northwest:
		return Southeast
	case Southeast:
		return Northwest
	default:
		return ""
	}
}

// Biome describes the terrain shared by one or more regions.
type Biome struct {
	Name    string
	Climate string
	// Resources lists the items foraging can yield.
	Resources []string
	// EncounterRate is the base chance of a wild encounter per event roll.
	EncounterRate float64
}

// Region is a node of the overworld graph.
type Region struct {
	Name        string
	Biome       *Biome
	DangerLevel int
	Description string
	// Neighbors maps a direction to the name of the adjacent region.
	Neighbors        map[Direction]string
	PointsOfInterest []string
	// HazardDamage is a dice expression rolled when a hazard strikes.
	HazardDamage string
	// Monsters optionally restricts wild encounters to these template names.
	Monsters []string
}

// EncounterChance returns the chance of a wild encounter, scaled by danger.
//
// Postcondition: Returns a value <= 1.
func (r *Region) EncounterChance() float64 {
	return min(1.0, r.Biome.EncounterRate*(1+float64(r.DangerLevel)/10))
}

// Connect links r to other in direction dir and mirrors the link back.
//
// Precondition: dir must be a standard direction.
// Postcondition: r.Neighbors[dir] == other.Name and
// other.Neighbors[dir.Opposite()] == r.Name, or an error if either side
// already links elsewhere in that direction.
func (r *Region) Connect(other *Region, dir Direction) error {
	back := dir.Opposite()
	if back == "" {
		return fmt.Errorf("region %q: %q is not a standard direction", r.Name, dir)
	}
	if other.Name == r.Name {
		return fmt.Errorf("region %q: cannot link to itself", r.Name)
	}
	if cur, ok := r.Neighbors[dir]; ok && cur != other.Name {
		return fmt.Errorf("region %q: %s already leads to %q", r.Name, dir, cur)
	}
	if cur, ok := other.Neighbors[back]; ok && cur != r.Name {
		return fmt.Errorf("region %q: %s already leads to %q", other.Name, back, cur)
	}
	if r.Neighbors == nil {
		r.Neighbors = make(map[Direction]string)
	}
	if other.Neighbors == nil {
		other.Neighbors = make(map[Direction]string)
	}
	r.Neighbors[dir] = other.Name
	other.Neighbors[back] = r.Name
	return nil
}

// Exits returns the region's link directions in standard order.
func (r *Region) Exits() []Direction {
	out := make([]Direction, 0, len(r.Neighbors))
	for _, d := range StandardDirections {
		if _, ok := r.Neighbors[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Describe renders the region for display.
func (r *Region) Describe() string {
	poi := "None"
	if len(r.PointsOfInterest) > 0 {
		poi = strings.Join(r.PointsOfInterest, ", ")
	}
	exits := make([]string, 0, len(r.Neighbors))
	for _, d := range r.Exits() {
		exits = append(exits, fmt.Sprintf("%s (%s)", d, r.Neighbors[d]))
	}
	if len(exits) == 0 {
		exits = append(exits, "none")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Region: %s\n", r.Name)
	fmt.Fprintf(&b, "Biome: %s (%s)\n", r.Biome.Name, r.Biome.Climate)
	fmt.Fprintf(&b, "Danger Level: %d\n", r.DangerLevel)
	fmt.Fprintf(&b, "%s\n", r.Description)
	fmt.Fprintf(&b, "Points of Interest: %s\n", poi)
	fmt.Fprintf(&b, "Exits: %s", strings.Join(exits, ", "))
	return b.String()
}

// Validate checks region invariants that do not depend on other regions.
func (r *Region) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("region name must not be empty")
	}
	if r.Biome == nil {
		return fmt.Errorf("region %q: biome must be set", r.Name)
	}
	if r.DangerLevel < 0 {
		return fmt.Errorf("region %q: danger_level must be >= 0, got %d", r.Name, r.DangerLevel)
	}
	if r.Description == "" {
		return fmt.Errorf("region %q: description must not be empty", r.Name)
	}
	return nil
}

// Validate checks biome invariants.
func (b *Biome) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("biome name must not be empty")
	}
	if b.EncounterRate < 0 || b.EncounterRate > 1 {
		return fmt.Errorf("biome %q: encounter_rate must be in [0,1], got %v", b.Name, b.EncounterRate)
	}
	return nil
}

func sortedNames(m map[string]*Region) []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
