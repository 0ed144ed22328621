package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/monsters/internal/game/dice"
)

// DefaultHazardDamage is rolled when a region does not set hazard_damage.
const DefaultHazardDamage = "1d6+2"

// yamlAtlasFile is the top-level YAML structure for the regions file.
type yamlAtlasFile struct {
	StartRegion string       `yaml:"start_region"`
	Biomes      []yamlBiome  `yaml:"biomes"`
	Regions     []yamlRegion `yaml:"regions"`
}

type yamlBiome struct {
	Name          string   `yaml:"name"`
	Climate       string   `yaml:"climate"`
	Resources     []string `yaml:"resources"`
	EncounterRate float64  `yaml:"encounter_rate"`
}

type yamlRegion struct {
	Name             string            `yaml:"name"`
	Biome            string            `yaml:"biome"`
	DangerLevel      int               `yaml:"danger_level"`
	Description      string            `yaml:"description"`
	Neighbors        map[string]string `yaml:"neighbors"`
	PointsOfInterest []string          `yaml:"points_of_interest"`
	HazardDamage     string            `yaml:"hazard_damage"`
	Monsters         []string          `yaml:"monsters"`
}

// LoadAtlasFromFile reads and validates a regions YAML file.
//
// Precondition: path must point to a valid regions file.
// Postcondition: Returns a Manager over the fully linked graph or a non-nil error.
func LoadAtlasFromFile(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading regions file %s: %w", path, err)
	}
	m, err := LoadAtlasFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}

// LoadAtlasFromBytes parses biomes and regions, links neighbors in both
// directions, and validates the result.
//
// Postcondition: Returns a Manager or an error naming the offending record.
func LoadAtlasFromBytes(data []byte) (*Manager, error) {
	var file yamlAtlasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing regions YAML: %w", err)
	}

	biomes := make(map[string]*Biome, len(file.Biomes))
	for _, yb := range file.Biomes {
		b := &Biome{
			Name:          yb.Name,
			Climate:       yb.Climate,
			Resources:     yb.Resources,
			EncounterRate: yb.EncounterRate,
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if _, dup := biomes[b.Name]; dup {
			return nil, fmt.Errorf("duplicate biome %q", b.Name)
		}
		biomes[b.Name] = b
	}

	regions := make([]*Region, 0, len(file.Regions))
	byName := make(map[string]*Region, len(file.Regions))
	for _, yr := range file.Regions {
		r, err := convertYAMLRegion(yr, biomes)
		if err != nil {
			return nil, err
		}
		if _, dup := byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate region %q", r.Name)
		}
		byName[r.Name] = r
		regions = append(regions, r)
	}

	for _, yr := range file.Regions {
		from := byName[yr.Name]
		for rawDir, target := range yr.Neighbors {
			dir, ok := ParseDirection(rawDir)
			if !ok {
				return nil, fmt.Errorf("region %q: unknown direction %q", yr.Name, rawDir)
			}
			to, ok := byName[target]
			if !ok {
				return nil, fmt.Errorf("region %q: %s leads to unknown region %q", yr.Name, dir, target)
			}
			if err := from.Connect(to, dir); err != nil {
				return nil, err
			}
		}
	}

	start := file.StartRegion
	if start == "" && len(regions) > 0 {
		start = regions[0].Name
	}
	return NewManager(regions, start)
}

func convertYAMLRegion(yr yamlRegion, biomes map[string]*Biome) (*Region, error) {
	r := &Region{
		Name:             yr.Name,
		DangerLevel:      yr.DangerLevel,
		Description:      strings.TrimSpace(yr.Description),
		Neighbors:        make(map[Direction]string),
		PointsOfInterest: yr.PointsOfInterest,
		HazardDamage:     yr.HazardDamage,
		Monsters:         yr.Monsters,
	}
	if r.HazardDamage == "" {
		r.HazardDamage = DefaultHazardDamage
	}
	b, ok := biomes[yr.Biome]
	if !ok {
		return nil, fmt.Errorf("region %q: unknown biome %q", yr.Name, yr.Biome)
	}
	r.Biome = b
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if _, err := dice.Parse(r.HazardDamage); err != nil {
		return nil, fmt.Errorf("region %q: hazard_damage: %w", r.Name, err)
	}
	return r, nil
}
