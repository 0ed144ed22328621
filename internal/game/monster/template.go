package monster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable monster species loaded from YAML.
// Fields missing from a record take the package Default* values.
type Template struct {
	Name        string  `yaml:"name"`
	Element     string  `yaml:"element"`
	Level       int     `yaml:"level"`
	MaxHP       int     `yaml:"max_hp"`
	Attack      int     `yaml:"attack"`
	Defense     int     `yaml:"defense"`
	Agility     int     `yaml:"agility"`
	CaptureRate float64 `yaml:"capture_rate"`
	Skills      []Skill `yaml:"skills"`
	Lore        string  `yaml:"lore"`
}

// DefaultTemplate returns a template holding every documented default.
func DefaultTemplate() Template {
	return Template{
		Element:     DefaultElement,
		Level:       DefaultLevel,
		MaxHP:       DefaultMaxHP,
		Attack:      DefaultAttack,
		Defense:     DefaultDefense,
		Agility:     DefaultAgility,
		CaptureRate: DefaultCaptureRate,
	}
}

// UnmarshalYAML decodes a template, keeping defaults for absent fields.
func (t *Template) UnmarshalYAML(value *yaml.Node) error {
	type raw Template
	r := raw(DefaultTemplate())
	if err := value.Decode(&r); err != nil {
		return err
	}
	*t = Template(r)
	return nil
}

// UnmarshalYAML decodes a skill, keeping DefaultStaminaCost when stamina_cost is absent.
func (s *Skill) UnmarshalYAML(value *yaml.Node) error {
	type raw Skill
	r := raw{StaminaCost: DefaultStaminaCost}
	if err := value.Decode(&r); err != nil {
		return err
	}
	*s = Skill(r)
	return nil
}

// Validate checks template invariants.
//
// Postcondition: Returns nil iff Name is non-empty, Level >= 1, all stats are
// non-negative, CaptureRate is in [0, 1), and every skill has a name and
// non-negative power and stamina cost.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("monster template: name must not be empty")
	}
	if t.Level < 1 {
		return fmt.Errorf("monster template %q: level must be >= 1", t.Name)
	}
	if t.MaxHP < 0 || t.Attack < 0 || t.Defense < 0 || t.Agility < 0 {
		return fmt.Errorf("monster template %q: max_hp, attack, defense and agility must be >= 0", t.Name)
	}
	if !(t.CaptureRate >= 0 && t.CaptureRate < 1) {
		return fmt.Errorf("monster template %q: capture_rate must be in [0, 1), got %v", t.Name, t.CaptureRate)
	}
	for i, s := range t.Skills {
		if s.Name == "" {
			return fmt.Errorf("monster template %q: skill[%d] must have a name", t.Name, i)
		}
		if s.Power < 0 || s.StaminaCost < 0 {
			return fmt.Errorf("monster template %q: skill %q must have non-negative power and stamina_cost", t.Name, s.Name)
		}
	}
	return nil
}

// yamlMonsterFile is the top-level YAML structure for monster files.
type yamlMonsterFile struct {
	Monsters []Template `yaml:"monsters"`
}

// LoadTemplatesFromBytes parses and validates the monsters listed in data.
//
// Precondition: data must be YAML with a top-level "monsters" sequence.
// Postcondition: Returns validated templates in file order, or an error.
func LoadTemplatesFromBytes(data []byte) ([]*Template, error) {
	var file yamlMonsterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing monster YAML: %w", err)
	}
	out := make([]*Template, 0, len(file.Monsters))
	for i := range file.Monsters {
		t := &file.Monsters[i]
		if err := t.Validate(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadTemplates reads all *.yaml and *.yml files in dir in lexical order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or the first parse/validate error.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading monster dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		loaded, err := LoadTemplatesFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, loaded...)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no monster templates found in %s", dir)
	}
	return templates, nil
}
