// Package monster provides monster and skill definitions, live monster instances,
// and the template pool wild encounters are spawned from.
package monster

import (
	"math"

	"github.com/google/uuid"
)

// Defaults applied to monster records that omit optional fields.
const (
	DefaultElement     = "mystic"
	DefaultLevel       = 1
	DefaultMaxHP       = 20
	DefaultAttack      = 5
	DefaultDefense     = 5
	DefaultAgility     = 5
	DefaultCaptureRate = 0.2
	DefaultStaminaCost = 5
)

// Capture chance bounds.
const (
	MinCaptureChance = 0.05
	MaxCaptureChance = 0.95
)

// Skill is a named attack a monster can use. Immutable once constructed.
type Skill struct {
	Name        string `yaml:"name"`
	Element     string `yaml:"element"`
	Power       int    `yaml:"power"`
	StaminaCost int    `yaml:"stamina_cost"`
}

// Monster is a live creature with mutable health.
//
// Invariant: 0 <= CurrentHP() <= max(MaxHP, 0).
type Monster struct {
	// ID identifies this individual; copies receive a fresh ID.
	ID          string
	Name        string
	Element     string
	Level       int
	MaxHP       int
	Attack      int
	Defense     int
	Agility     int
	CaptureRate float64
	// Skills is ordered by definition order.
	Skills []Skill
	Lore   string

	currentHP int
}

// New creates a monster instance from t at full health.
//
// Precondition: t must not be nil.
// Postcondition: CurrentHP() == max(t.MaxHP, 0); the skill list is an independent copy.
func New(t *Template) *Monster {
	m := &Monster{
		ID:          uuid.NewString(),
		Name:        t.Name,
		Element:     t.Element,
		Level:       t.Level,
		MaxHP:       t.MaxHP,
		Attack:      t.Attack,
		Defense:     t.Defense,
		Agility:     t.Agility,
		CaptureRate: t.CaptureRate,
		Skills:      append([]Skill(nil), t.Skills...),
		Lore:        t.Lore,
	}
	m.Reset()
	return m
}

// Template returns the static definition this monster was built from.
//
// Postcondition: New(m.Template()) has identical stats and skills at full health.
func (m *Monster) Template() *Template {
	return &Template{
		Name:        m.Name,
		Element:     m.Element,
		Level:       m.Level,
		MaxHP:       m.MaxHP,
		Attack:      m.Attack,
		Defense:     m.Defense,
		Agility:     m.Agility,
		CaptureRate: m.CaptureRate,
		Skills:      append([]Skill(nil), m.Skills...),
		Lore:        m.Lore,
	}
}

// Copy returns a fully independent clone with a fresh ID and the same current health.
func (m *Monster) Copy() *Monster {
	c := *m
	c.ID = uuid.NewString()
	c.Skills = append([]Skill(nil), m.Skills...)
	return &c
}

// CurrentHP returns the monster's current health.
func (m *Monster) CurrentHP() int { return m.currentHP }

// SetCurrentHP sets current health, clamped to [0, MaxHP].
func (m *Monster) SetCurrentHP(hp int) {
	m.currentHP = clampInt(hp, 0, max(m.MaxHP, 0))
}

// Reset restores the monster to full health.
func (m *Monster) Reset() {
	m.SetCurrentHP(m.MaxHP)
}

// IsFainted reports whether current health has reached zero.
func (m *Monster) IsFainted() bool { return m.currentHP == 0 }

// ApplyDamage reduces current health by amount, clamped to [0, MaxHP].
func (m *Monster) ApplyDamage(amount int) {
	m.SetCurrentHP(m.currentHP - amount)
}

// Heal raises current health by amount, clamped to [0, MaxHP].
func (m *Monster) Heal(amount int) {
	m.SetCurrentHP(m.currentHP + amount)
}

// HealthRatio returns current/max health, guarding MaxHP == 0.
//
// Postcondition: Returns a value in [0, 1].
func (m *Monster) HealthRatio() float64 {
	return float64(m.currentHP) / float64(max(m.MaxHP, 1))
}

// ChooseSkill returns the skill with the highest power. Ties go to the
// earliest-defined skill. Returns nil when the monster knows no skills.
func (m *Monster) ChooseSkill() *Skill {
	var best *Skill
	for i := range m.Skills {
		if best == nil || m.Skills[i].Power > best.Power {
			best = &m.Skills[i]
		}
	}
	return best
}

// DamageOutput returns the raw damage of an attack with skill, or a basic
// attack when skill is nil: base + floor(Attack/2), never below 1.
//
// Postcondition: Returns >= 1.
func (m *Monster) DamageOutput(skill *Skill) int {
	base := m.Attack
	if skill != nil {
		base = skill.Power
	}
	return max(1, base+floorDiv(m.Attack, 2))
}

// CaptureProbability returns the chance that a capture attempt succeeds.
// Lower health raises the chance; the result is clamped to
// [MinCaptureChance, MaxCaptureChance] and rounded to three decimals.
//
// A NaN chance counts as MinCaptureChance.
//
// Postcondition: MinCaptureChance <= result <= MaxCaptureChance.
func (m *Monster) CaptureProbability(bonus float64) float64 {
	healthFactor := 1.0 - m.HealthRatio()
	chance := m.CaptureRate + healthFactor*0.5 + bonus
	if math.IsNaN(chance) {
		chance = MinCaptureChance
	}
	chance = math.Min(MaxCaptureChance, math.Max(MinCaptureChance, chance))
	return math.Round(chance*1000) / 1000
}

// HealthDescription returns a visible health state string.
//
// Postcondition: Returns a non-empty string.
func (m *Monster) HealthDescription() string {
	if m.IsFainted() {
		return "fainted"
	}
	pct := m.HealthRatio()
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.35:
		return "wounded"
	default:
		return "badly wounded"
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
