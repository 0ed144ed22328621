package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/command"
	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/exploration"
	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/survival"
	"github.com/cory-johannsen/monsters/internal/game/world"
)

func (g *Game) move(ctx context.Context, cmd *command.Command, pr command.ParseResult) (string, error) {
	arg := cmd.Name
	if !command.IsDirectionCommand(cmd.Name) {
		if len(pr.Args) != 1 {
			return "Usage: move <direction>", nil
		}
		arg = pr.Args[0]
	}
	dir, ok := world.ParseDirection(arg)
	if !ok {
		return fmt.Sprintf("%q is not a direction.", arg), nil
	}
	if g.player.IsIncapacitated() {
		return "You are too exhausted to travel. Rest first.", nil
	}
	dest, err := g.deps.Atlas.Navigate(g.player.Location, dir)
	if err != nil {
		return "You cannot travel that way.", nil
	}

	ev := g.explorer.Travel(g.player, dest)
	survival.ApplyTick(g.player, dest, g.opts.HoursPerMove)
	out := []string{fmt.Sprintf("You travel %s to %s.", dir, dest.Name)}

	notes, err := g.explorer.ResolveEvent(g.player, dest, ev)
	if err != nil {
		return "", fmt.Errorf("resolving event in %s: %w", dest.Name, err)
	}
	out = append(out, notes...)

	if ev.Outcome == exploration.OutcomeEncounter {
		battle, err := g.encounter(ctx, dest)
		if err != nil {
			return "", err
		}
		out = append(out, battle...)
	}
	if g.player.IsIncapacitated() {
		out = append(out, "You are exhausted and can travel no further until you rest.")
	}
	return lines(out...), nil
}

func (g *Game) look() string {
	return g.region().Describe()
}

func (g *Game) forage() (string, error) {
	if g.player.Stamina < exploration.ForageStamina {
		return "You are too tired to forage.", nil
	}
	item, err := g.explorer.Forage(g.player, g.region())
	if errors.Is(err, dice.ErrEmptyChoice) {
		return "There is nothing here to gather.", nil
	}
	if err != nil {
		return "", fmt.Errorf("foraging: %w", err)
	}
	return fmt.Sprintf("You forage and find some %s.", item), nil
}

func (g *Game) rest() string {
	g.player.Rest()
	return lines("You make camp and rest. Your party recovers.", g.status())
}

func (g *Game) party() string {
	members := g.player.Party()
	if len(members) == 0 {
		return "Your party is empty."
	}
	out := []string{"Party:"}
	for i, m := range members {
		line := fmt.Sprintf("%d. %s (%s, Lv %d) HP %d/%d, %s",
			i+1, m.Name, m.Element, m.Level, m.CurrentHP(), m.MaxHP, m.HealthDescription())
		if i == 0 {
			line += " [active]"
		}
		out = append(out, line)
	}
	out = append(out, fmt.Sprintf("Free slots: %d", g.player.AvailablePartySlots()))
	return lines(out...)
}

func (g *Game) swap(pr command.ParseResult) string {
	if len(pr.Args) != 1 {
		return "Usage: swap <slot>"
	}
	slot, err := strconv.Atoi(pr.Args[0])
	if err != nil {
		return fmt.Sprintf("%q is not a party slot.", pr.Args[0])
	}
	m, err := g.player.CycleActiveMonster(slot - 1)
	if err != nil {
		return fmt.Sprintf("There is no monster in slot %d.", slot)
	}
	return fmt.Sprintf("%s takes the lead.", m.Name)
}

func (g *Game) inventory() string {
	return lines(append([]string{"Inventory:"}, g.player.InventorySummary()...)...)
}

func (g *Game) craft(pr command.ParseResult) (string, error) {
	if pr.RawArgs == "" {
		return "Usage: craft <recipe>", nil
	}
	recipe, ok := g.deps.Recipes.Recipe(pr.RawArgs)
	if !ok {
		return fmt.Sprintf("You don't know how to make %q.", pr.RawArgs), nil
	}
	err := recipe.Craft(g.player.Inventory)
	if errors.Is(err, inventory.ErrInsufficient) {
		return "Missing ingredients: " + formatQuantities(recipe.Missing(g.player.Inventory)), nil
	}
	if err != nil {
		return "", fmt.Errorf("crafting %s: %w", recipe.Name, err)
	}
	return fmt.Sprintf("You craft a %s.", recipe.Name), nil
}

func (g *Game) recipes() string {
	all := g.deps.Recipes.All()
	if len(all) == 0 {
		return "You know no recipes."
	}
	out := []string{"Recipes:"}
	for _, r := range all {
		out = append(out, fmt.Sprintf("%s: %s", r.Name, formatQuantities(r.Ingredients)))
	}
	return lines(out...)
}

func (g *Game) status() string {
	return fmt.Sprintf("%s at %s\n%s", g.player.Name, g.player.Location, g.player.Status())
}

func (g *Game) save(ctx context.Context) (string, error) {
	if g.deps.Saver == nil {
		return "Saving is not enabled.", nil
	}
	if err := g.deps.Saver.Save(ctx, g.player.Snapshot()); err != nil {
		g.logger.Error("save failed", zap.Error(err))
		return "Your progress could not be saved.", nil
	}
	g.logger.Info("game saved", zap.String("location", g.player.Location))
	return "Game saved.", nil
}

func (g *Game) help() string {
	byCat := g.deps.Commands.CommandsByCategory()
	var out []string
	for _, cat := range g.deps.Commands.Categories() {
		out = append(out, strings.ToUpper(cat[:1])+cat[1:]+":")
		for _, cmd := range byCat[cat] {
			usage := cmd.Name
			if cmd.Usage != "" {
				usage = cmd.Usage
			}
			if len(cmd.Aliases) > 0 {
				usage += " (" + strings.Join(cmd.Aliases, ", ") + ")"
			}
			out = append(out, fmt.Sprintf("  %-28s %s", usage, cmd.Help))
		}
	}
	return lines(out...)
}

// formatQuantities renders "a x2, b x1" sorted by name.
func formatQuantities(q map[string]int) string {
	names := make([]string, 0, len(q))
	for name := range q {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s x%d", name, q[name]))
	}
	return strings.Join(parts, ", ")
}
