package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/combat"
	"github.com/cory-johannsen/monsters/internal/game/world"
	"github.com/cory-johannsen/monsters/internal/observability"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

// encounter spawns a wild monster in region and fights it with the player's
// first healthy party member.
//
// Postcondition: a captured monster joins the party; a capture net is used
// up only when a capture was attempted with one in the bag.
func (g *Game) encounter(ctx context.Context, region *world.Region) ([]string, error) {
	wild, err := g.explorer.Encounter(g.deps.Monsters, region)
	if err != nil {
		return nil, err
	}
	out := []string{fmt.Sprintf("A wild %s (%s, Lv %d) appears!", wild.Name, wild.Element, wild.Level)}

	fighter := g.player.FirstHealthy()
	if fighter == nil {
		return append(out, fmt.Sprintf("You have no monster fit to fight. You flee from the %s.", wild.Name)), nil
	}

	opts := combat.DefaultOptions()
	opts.CaptureThreshold = g.opts.CaptureThreshold
	opts.CaptureBonus = g.opts.CaptureBonus
	if g.deps.Scripts != nil {
		opts.CaptureBonus += g.deps.Scripts.CaptureBonus(region.Name, wild.Name)
	}
	usingNet := g.player.HasItem(CaptureNet)
	if usingNet {
		opts.ToolBonus = g.opts.ToolBonus
	}
	if g.player.AvailablePartySlots() == 0 {
		opts.CaptureThreshold = 0
		out = append(out, "Your party is full, so you fight to drive it off.")
	}
	logger := g.logger.With(zap.String("region", region.Name), zap.String("wild", wild.Name))
	opts.Observer = observability.BattleObserver(logger)

	out = append(out, fmt.Sprintf("%s steps forward!", fighter.Name))
	result, err := combat.RunAutoBattle(fighter, wild, g.deps.Source, opts)
	if err != nil {
		return nil, fmt.Errorf("battle in %s: %w", region.Name, err)
	}
	logger.Info("battle finished", observability.ResultFields(result)...)

	for _, e := range result.Log() {
		out = append(out, e.Narrative())
	}
	if usingNet && result.CaptureAttempted() {
		g.player.ConsumeItem(CaptureNet)
		out = append(out, "Your capture net is spent.")
	}

	switch result.State() {
	case combat.StateCaptured:
		if err := g.player.AddToParty(wild); err != nil {
			out = append(out, fmt.Sprintf("The %s slips away; your party has no room.", wild.Name))
		} else {
			out = append(out, fmt.Sprintf("%s joins your party!", wild.Name))
		}
	case combat.StatePlayerWon:
		out = append(out, fmt.Sprintf("The wild %s is defeated.", wild.Name))
	case combat.StateWildWon:
		out = append(out, fmt.Sprintf("%s faints. You retreat from the %s.", fighter.Name, wild.Name))
	default:
		out = append(out, "Both monsters collapse. The fight is a draw.")
	}

	g.record(ctx, region, fighter.Name, wild.Name, result)
	return out, nil
}

func (g *Game) record(ctx context.Context, region *world.Region, fighter, wild string, result *combat.Result) {
	if g.deps.Recorder == nil {
		return
	}
	rec := postgres.NewBattleRecord(g.player.ID, region.Name, fighter, wild, result)
	if _, err := g.deps.Recorder.Record(ctx, rec); err != nil {
		g.logger.Warn("recording battle failed", zap.Error(err))
	}
}
