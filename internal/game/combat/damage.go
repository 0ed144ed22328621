package combat

import (
	"math"
	"sort"

	"github.com/cory-johannsen/monsters/internal/game/element"
	"github.com/cory-johannsen/monsters/internal/game/monster"
)

// defenseFactor scales the defender's defense into flat mitigation.
const defenseFactor = 0.3

// CalculateDamage returns the damage attacker deals to defender with skill.
//
// Precondition: attacker and defender must be non-nil; skill may be nil for a basic attack.
// Postcondition: Returns a value >= 1. Neither monster is modified.
func CalculateDamage(attacker, defender *monster.Monster, skill *monster.Skill) int {
	base := attacker.DamageOutput(skill)
	mod := element.Modifier(attackElement(attacker, skill), defender.Element)
	mitigated := int(math.Round(float64(base)*mod - float64(defender.Defense)*defenseFactor))
	return max(1, mitigated)
}

// attackElement is the skill's element, or the attacker's own for a basic attack.
func attackElement(attacker *monster.Monster, skill *monster.Skill) string {
	if skill != nil {
		return skill.Element
	}
	return attacker.Element
}

// SimulateAttack resolves one attack and applies its damage to defender.
// When skill is nil the attacker's preferred skill is used.
//
// Precondition: attacker and defender must be non-nil.
// Postcondition: defender.CurrentHP() is reduced by damage, floored at 0.
func SimulateAttack(attacker, defender *monster.Monster, skill *monster.Skill) (damage int, fainted bool) {
	if skill == nil {
		skill = attacker.ChooseSkill()
	}
	damage = CalculateDamage(attacker, defender, skill)
	defender.ApplyDamage(damage)
	return damage, defender.IsFainted()
}

// DetermineTurnOrder returns combatants ordered by agility then level, both
// descending. Ties keep their input order.
//
// Postcondition: Returns a new slice; the input slice is not reordered.
func DetermineTurnOrder(combatants []*monster.Monster) []*monster.Monster {
	out := append([]*monster.Monster(nil), combatants...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Agility != out[j].Agility {
			return out[i].Agility > out[j].Agility
		}
		return out[i].Level > out[j].Level
	})
	return out
}

// CaptureMonster returns the chance of capturing target given a situational
// bonus and a tool bonus.
//
// Postcondition: Returns a value in [monster.MinCaptureChance, monster.MaxCaptureChance].
func CaptureMonster(target *monster.Monster, bonus, toolBonus float64) float64 {
	return target.CaptureProbability(bonus + toolBonus)
}
