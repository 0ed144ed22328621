package session

import (
	"github.com/cory-johannsen/monsters/internal/game/exploration"
	"github.com/cory-johannsen/monsters/internal/game/world"
	"github.com/cory-johannsen/monsters/internal/scripting"
)

// scriptNarrator adapts the Lua on_event hook to exploration.Narrator.
type scriptNarrator struct {
	scripts *scripting.Manager
}

func (n scriptNarrator) Narrate(region *world.Region, ev exploration.Event) (string, error) {
	return n.scripts.EventNote(region.Name, string(ev.Outcome), region.DangerLevel)
}
