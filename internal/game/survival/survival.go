// Package survival advances the player's needs as time passes in a region.
package survival

import (
	"github.com/cory-johannsen/monsters/internal/game/player"
	"github.com/cory-johannsen/monsters/internal/game/world"
)

// Rates returns the per-hour hunger gain, exposure gain and morale drain for
// a region of the given danger level.
//
// Precondition: danger >= 0.
func Rates(danger int) (hunger, exposure, morale int) {
	return 4 + danger, 2 + danger/2, max(1, danger-1)
}

// ApplyTick applies hours of survival decay for region to p.
//
// Precondition: p and region must be non-nil; hours >= 0.
// Postcondition: every vital of p stays within [0, player.MaxStat].
func ApplyTick(p *player.Player, region *world.Region, hours int) {
	hunger, exposure, morale := Rates(region.DangerLevel)
	for i := 0; i < hours; i++ {
		p.ApplySurvivalTick(hunger, exposure, morale)
	}
}
