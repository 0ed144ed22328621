package combat

import (
	"fmt"

	"github.com/cory-johannsen/monsters/internal/game/element"
	"github.com/cory-johannsen/monsters/internal/game/monster"
)

// DefaultCaptureThreshold is the health ratio at or below which the player
// side attempts a capture.
const DefaultCaptureThreshold = 0.35

// Observer receives each log entry as it is recorded.
type Observer func(LogEntry)

// Options tunes a single battle.
type Options struct {
	// CaptureThreshold is the wild monster health ratio that triggers a capture attempt.
	CaptureThreshold float64
	// CaptureBonus is added to the wild monster's capture probability.
	CaptureBonus float64
	// ToolBonus is added on top of CaptureBonus, e.g. for a capture net.
	ToolBonus float64
	// Observer, if set, is called synchronously for every log entry.
	Observer Observer
}

// DefaultOptions returns Options with the standard capture threshold and no bonuses.
func DefaultOptions() Options {
	return Options{CaptureThreshold: DefaultCaptureThreshold}
}

// battle holds the mutable state of one RunAutoBattle call.
type battle struct {
	player, wild     *monster.Monster
	src              Source
	opts             Options
	state            State
	winner           *monster.Monster
	rounds           int
	captureAttempted bool
	log              []LogEntry
}

// RunAutoBattle fights player against wild until one faints or the wild
// monster is captured. Both monsters are mutated in place.
//
// Precondition: player and wild must be distinct, non-nil and not fainted; src must be non-nil.
// Postcondition: On success the Result is in a terminal state and holds at most one capture entry.
func RunAutoBattle(player, wild *monster.Monster, src Source, opts Options) (*Result, error) {
	if err := validate(player, wild, src); err != nil {
		return nil, err
	}
	b := &battle{player: player, wild: wild, src: src, opts: opts, state: StateOngoing}
	for b.state == StateOngoing {
		b.round()
	}
	return b.result(), nil
}

func validate(player, wild *monster.Monster, src Source) error {
	switch {
	case player == nil:
		return fmt.Errorf("player monster is nil: %w", ErrInvalidState)
	case wild == nil:
		return fmt.Errorf("wild monster is nil: %w", ErrInvalidState)
	case player == wild:
		return fmt.Errorf("monster %q cannot fight itself: %w", player.Name, ErrInvalidState)
	case src == nil:
		return fmt.Errorf("random source is nil: %w", ErrInvalidState)
	case player.IsFainted():
		return fmt.Errorf("player monster %q has fainted: %w", player.Name, ErrInvalidState)
	case wild.IsFainted():
		return fmt.Errorf("wild monster %q has fainted: %w", wild.Name, ErrInvalidState)
	}
	return nil
}

// round plays one round and leaves b.state terminal if the battle ended.
func (b *battle) round() {
	b.rounds++
	for _, actor := range DetermineTurnOrder([]*monster.Monster{b.player, b.wild}) {
		defender := b.opponent(actor)
		if defender.IsFainted() {
			break
		}
		if actor == b.player && b.captureEligible() {
			if b.attemptCapture() {
				b.finish(StateCaptured, b.player)
				return
			}
		}
		b.attack(actor, defender)
		if defender.IsFainted() {
			if actor == b.player {
				b.finish(StatePlayerWon, actor)
			} else {
				b.finish(StateWildWon, actor)
			}
			return
		}
	}
	if b.player.IsFainted() || b.wild.IsFainted() {
		b.finish(StateDraw, nil)
	}
}

func (b *battle) opponent(m *monster.Monster) *monster.Monster {
	if m == b.player {
		return b.wild
	}
	return b.player
}

func (b *battle) captureEligible() bool {
	if b.captureAttempted || b.wild.MaxHP <= 0 {
		return false
	}
	return b.wild.HealthRatio() <= b.opts.CaptureThreshold
}

func (b *battle) attemptCapture() bool {
	b.captureAttempted = true
	chance := CaptureMonster(b.wild, b.opts.CaptureBonus, b.opts.ToolBonus)
	success := b.src.Float64() < chance
	b.record(CaptureEntry{
		Actor:       b.player.Name,
		Target:      b.wild.Name,
		RemainingHP: b.wild.CurrentHP(),
		Success:     success,
		Chance:      chance,
	})
	return success
}

func (b *battle) attack(actor, defender *monster.Monster) {
	skill := actor.ChooseSkill()
	damage, fainted := SimulateAttack(actor, defender, skill)
	entry := AttackEntry{
		Actor:       actor.Name,
		Target:      defender.Name,
		Damage:      damage,
		RemainingHP: defender.CurrentHP(),
		Fainted:     fainted,
		Effect:      element.Classify(attackElement(actor, skill), defender.Element),
	}
	if skill != nil {
		entry.Skill = skill.Name
	}
	b.record(entry)
}

func (b *battle) record(e LogEntry) {
	b.log = append(b.log, e)
	if b.opts.Observer != nil {
		b.opts.Observer(e)
	}
}

func (b *battle) finish(state State, winner *monster.Monster) {
	b.state = state
	b.winner = winner
}

func (b *battle) result() *Result {
	r := &Result{
		log:              b.log,
		state:            b.state,
		rounds:           b.rounds,
		captureAttempted: b.captureAttempted,
	}
	if b.winner != nil {
		r.winner = b.winner.Name
		if b.winner == b.wild {
			r.winnerSide = SideWild
		}
	}
	return r
}
