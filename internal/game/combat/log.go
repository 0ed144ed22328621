package combat

import (
	"fmt"

	"github.com/cory-johannsen/monsters/internal/game/element"
)

// EntryKind tags the variant of a LogEntry.
type EntryKind string

const (
	KindAttack  EntryKind = "attack"
	KindCapture EntryKind = "capture"
)

// LogEntry is one recorded battle action. The concrete type is either
// AttackEntry or CaptureEntry; no other implementations exist.
type LogEntry interface {
	Kind() EntryKind
	// Narrative renders the entry as a line of player-facing text.
	Narrative() string
	isLogEntry()
}

// AttackEntry records a single attack.
type AttackEntry struct {
	Actor  string
	Target string
	// Skill is the skill used; empty for a basic attack.
	Skill       string
	Damage      int
	RemainingHP int
	Fainted     bool
	Effect      element.Effectiveness
}

// Kind returns KindAttack.
func (AttackEntry) Kind() EntryKind { return KindAttack }

func (AttackEntry) isLogEntry() {}

// Narrative renders the attack.
func (e AttackEntry) Narrative() string {
	move := "attacks"
	if e.Skill != "" {
		move = "uses " + e.Skill + " on"
	}
	s := fmt.Sprintf("%s %s %s for %d damage (%d HP left).", e.Actor, move, e.Target, e.Damage, e.RemainingHP)
	if e.Effect != element.EffectNeutral {
		s += fmt.Sprintf(" It is %s.", e.Effect)
	}
	if e.Fainted {
		s += fmt.Sprintf(" %s faints!", e.Target)
	}
	return s
}

// CaptureEntry records a capture attempt.
type CaptureEntry struct {
	Actor       string
	Target      string
	RemainingHP int
	Success     bool
	Chance      float64
}

// Kind returns KindCapture.
func (CaptureEntry) Kind() EntryKind { return KindCapture }

func (CaptureEntry) isLogEntry() {}

// Narrative renders the capture attempt.
func (e CaptureEntry) Narrative() string {
	verdict := "breaks free"
	if e.Success {
		verdict = "is captured"
	}
	return fmt.Sprintf("%s tries to capture %s (%.0f%% chance): %s %s.",
		e.Actor, e.Target, e.Chance*100, e.Target, verdict)
}
