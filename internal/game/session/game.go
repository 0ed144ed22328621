// Package session runs one single-player game: it reads text commands,
// dispatches them through the command registry and writes the results.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/command"
	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/exploration"
	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/game/player"
	"github.com/cory-johannsen/monsters/internal/game/world"
	"github.com/cory-johannsen/monsters/internal/scripting"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

// errQuit is returned by the quit handler to stop the command loop cleanly.
var errQuit = errors.New("quit")

// Saver persists player snapshots.
type Saver interface {
	Save(ctx context.Context, s player.Snapshot) error
}

// BattleRecorder persists finished battles.
type BattleRecorder interface {
	Record(ctx context.Context, rec postgres.BattleRecord) (postgres.BattleRecord, error)
}

// Deps are the collaborators of a Game.
type Deps struct {
	Atlas    *world.Manager
	Monsters *monster.Pool
	Recipes  *inventory.RecipeBook
	Commands *command.Registry
	Source   dice.Source
	Logger   *zap.Logger
	// Optional. Nil disables the feature.
	Scripts  *scripting.Manager
	Saver    Saver
	Recorder BattleRecorder
}

// Options tune encounters and travel.
type Options struct {
	CaptureThreshold float64
	CaptureBonus     float64
	// ToolBonus is added to the capture chance while the player carries a capture net.
	ToolBonus    float64
	HoursPerMove int
}

// CaptureNet is the item that grants the tool bonus; one is used per capture attempt.
const CaptureNet = "capture net"

// Game is one running single-player session. It is not safe for concurrent use.
type Game struct {
	deps     Deps
	opts     Options
	player   *player.Player
	explorer *exploration.Explorer
	logger   *zap.Logger
}

// New creates a Game for p.
//
// Precondition: every non-optional field of deps must be non-nil.
// Postcondition: p.Location names a region of the atlas; players with an
// unknown or empty location are moved to the atlas start.
func New(p *player.Player, deps Deps, opts Options) (*Game, error) {
	switch {
	case p == nil:
		return nil, fmt.Errorf("session: player is required")
	case deps.Atlas == nil, deps.Monsters == nil, deps.Recipes == nil, deps.Commands == nil:
		return nil, fmt.Errorf("session: atlas, monsters, recipes and commands are required")
	case deps.Source == nil, deps.Logger == nil:
		return nil, fmt.Errorf("session: source and logger are required")
	}
	if _, ok := deps.Atlas.Region(p.Location); !ok {
		p.MoveTo(deps.Atlas.Start().Name)
	}
	var narrator exploration.Narrator
	if deps.Scripts != nil {
		narrator = scriptNarrator{scripts: deps.Scripts}
	}
	logger := deps.Logger.With(zap.String("player", p.Name), zap.String("player_id", p.ID))
	return &Game{
		deps:     deps,
		opts:     opts,
		player:   p,
		explorer: exploration.NewExplorer(deps.Source, narrator, logger),
		logger:   logger,
	}, nil
}

// Player returns the player of this session.
func (g *Game) Player() *player.Player { return g.player }

// Run reads commands from in until quit, end of input or ctx cancellation,
// writing a prompt and each command's output to out.
//
// Postcondition: Returns nil on quit or end of input, ctx.Err() on cancellation,
// and any read, write or handler error otherwise.
func (g *Game) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	fmt.Fprintln(w, "Welcome to Medieval Monsters! Type 'help' for available commands.")
	fmt.Fprintln(w, g.look())

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "[%s] > ", g.player.Location)
		if err := w.Flush(); err != nil {
			return fmt.Errorf("writing prompt: %w", err)
		}
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return scanner.Err()
		}
		text, err := g.Execute(ctx, scanner.Text())
		if text != "" {
			fmt.Fprintln(w, text)
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Execute runs one input line and returns the text to show the player.
//
// Postcondition: Player mistakes (unknown commands, bad arguments) are
// reported in the text with a nil error. A non-nil error means the session
// cannot continue.
func (g *Game) Execute(ctx context.Context, line string) (string, error) {
	pr := command.Parse(line)
	if pr.Empty() {
		return "", nil
	}
	cmd, ok := g.deps.Commands.Resolve(pr.Command)
	if !ok {
		return fmt.Sprintf("Unknown command %q. Type 'help' for options.", pr.Command), nil
	}
	g.logger.Debug("command", zap.String("command", cmd.Name), zap.Strings("args", pr.Args))

	switch cmd.Handler {
	case command.HandlerMove:
		return g.move(ctx, cmd, pr)
	case command.HandlerLook:
		return g.look(), nil
	case command.HandlerForage:
		return g.forage()
	case command.HandlerRest:
		return g.rest(), nil
	case command.HandlerParty:
		return g.party(), nil
	case command.HandlerSwap:
		return g.swap(pr), nil
	case command.HandlerInventory:
		return g.inventory(), nil
	case command.HandlerCraft:
		return g.craft(pr)
	case command.HandlerRecipes:
		return g.recipes(), nil
	case command.HandlerStatus:
		return g.status(), nil
	case command.HandlerSave:
		return g.save(ctx)
	case command.HandlerHelp:
		return g.help(), nil
	case command.HandlerQuit:
		return fmt.Sprintf("Farewell, %s.", g.player.Name), errQuit
	default:
		return "", fmt.Errorf("command %q has no handler %q", cmd.Name, cmd.Handler)
	}
}

func (g *Game) region() *world.Region {
	r, _ := g.deps.Atlas.Region(g.player.Location)
	return r
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}
