package observability

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/combat"
)

// BattleObserver returns a combat.Observer that logs every entry at debug level.
func BattleObserver(logger *zap.Logger) combat.Observer {
	return func(e combat.LogEntry) {
		logger.Debug("battle entry", EntryFields(e)...)
	}
}

// EntryFields converts a battle log entry into structured fields.
func EntryFields(e combat.LogEntry) []zap.Field {
	switch v := e.(type) {
	case combat.AttackEntry:
		return []zap.Field{
			zap.String("kind", string(v.Kind())),
			zap.String("actor", v.Actor),
			zap.String("target", v.Target),
			zap.String("skill", v.Skill),
			zap.Int("damage", v.Damage),
			zap.Int("remaining_hp", v.RemainingHP),
			zap.Bool("fainted", v.Fainted),
			zap.Stringer("effect", v.Effect),
		}
	case combat.CaptureEntry:
		return []zap.Field{
			zap.String("kind", string(v.Kind())),
			zap.String("actor", v.Actor),
			zap.String("target", v.Target),
			zap.Int("remaining_hp", v.RemainingHP),
			zap.Bool("success", v.Success),
			zap.Float64("chance", v.Chance),
		}
	default:
		return nil
	}
}

// ResultFields summarises a finished battle.
func ResultFields(r *combat.Result) []zap.Field {
	winner, _ := r.Winner()
	return []zap.Field{
		zap.String("state", r.State().String()),
		zap.String("winner", winner),
		zap.Int("rounds", r.Rounds()),
		zap.Bool("capture_attempted", r.CaptureAttempted()),
		zap.Bool("captured", r.Captured()),
	}
}
