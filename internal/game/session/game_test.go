package session_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/monsters/internal/game/command"
	"github.com/cory-johannsen/monsters/internal/game/dice"
	"github.com/cory-johannsen/monsters/internal/game/exploration"
	"github.com/cory-johannsen/monsters/internal/game/inventory"
	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/game/player"
	"github.com/cory-johannsen/monsters/internal/game/session"
	"github.com/cory-johannsen/monsters/internal/game/world"
	"github.com/cory-johannsen/monsters/internal/scripting"
	"github.com/cory-johannsen/monsters/internal/storage/postgres"
)

// fixedSrc returns f for every Float64 call and min(i, n-1) for every Intn call.
type fixedSrc struct {
	f float64
	i int
}

func (s fixedSrc) Float64() float64 { return s.f }
func (s fixedSrc) Intn(n int) int   { return min(s.i, n-1) }

const testAtlas = `
start_region: Camp
biomes:
  - name: Meadow
    climate: mild
    resources: [timber]
    encounter_rate: 1.0
  - name: Barren
    climate: arid
    encounter_rate: 0
regions:
  - name: Camp
    biome: Barren
    danger_level: 0
    description: A quiet camp.
    neighbors:
      north: Den
      east: Field
  - name: Den
    biome: Meadow
    danger_level: 0
    description: A den under the roots.
    monsters: [Runt]
  - name: Field
    biome: Barren
    danger_level: 0
    description: An empty field.
`

const testMonsters = `
monsters:
  - name: Champion
    element: mystic
    level: 3
    max_hp: 40
    attack: 20
    defense: 0
    agility: 9
    skills:
      - name: Oath Strike
        element: mystic
        power: 22
  - name: Runt
    element: mystic
    level: 1
    max_hp: 45
    attack: 2
    defense: 0
    agility: 1
    capture_rate: 0.5
`

type fakeSaver struct {
	saved []player.Snapshot
	err   error
}

func (f *fakeSaver) Save(_ context.Context, s player.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	return nil
}

type fakeRecorder struct{ records []postgres.BattleRecord }

func (f *fakeRecorder) Record(_ context.Context, rec postgres.BattleRecord) (postgres.BattleRecord, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

type fixture struct {
	game     *session.Game
	player   *player.Player
	saver    *fakeSaver
	recorder *fakeRecorder
}

func newFixture(t *testing.T, src dice.Source) *fixture {
	t.Helper()
	atlas, err := world.LoadAtlasFromBytes([]byte(testAtlas))
	require.NoError(t, err)
	templates, err := monster.LoadTemplatesFromBytes([]byte(testMonsters))
	require.NoError(t, err)
	pool, err := monster.NewPool(templates)
	require.NoError(t, err)
	recipes, err := inventory.NewRecipeBook(&inventory.Recipe{Name: "Capture Net", Ingredients: map[string]int{"timber": 2}})
	require.NoError(t, err)

	p, err := session.NewPlayer("Aldric", "Champion", pool, atlas.Start())
	require.NoError(t, err)

	f := &fixture{player: p, saver: &fakeSaver{}, recorder: &fakeRecorder{}}
	f.game, err = session.New(p, session.Deps{
		Atlas:    atlas,
		Monsters: pool,
		Recipes:  recipes,
		Commands: command.DefaultRegistry(),
		Source:   src,
		Logger:   zaptest.NewLogger(t),
		Saver:    f.saver,
		Recorder: f.recorder,
	}, session.Options{CaptureThreshold: 0.35, ToolBonus: 0.15, HoursPerMove: 1})
	require.NoError(t, err)
	return f
}

func (f *fixture) exec(t *testing.T, line string) string {
	t.Helper()
	out, err := f.game.Execute(context.Background(), line)
	require.NoError(t, err, line)
	return out
}

func TestNewPlayer_StarterKit(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	assert.Equal(t, "Camp", f.player.Location)
	require.Len(t, f.player.Party(), 1)
	assert.Equal(t, "Champion", f.player.ActiveMonster().Name)
	assert.Equal(t, session.StarterNets, f.player.ItemQuantity(session.CaptureNet))
}

func TestNew_RelocatesUnknownLocation(t *testing.T) {
	atlas, err := world.LoadAtlasFromBytes([]byte(testAtlas))
	require.NoError(t, err)
	pool, err := monster.NewPool(nil)
	require.NoError(t, err)
	recipes, err := inventory.NewRecipeBook()
	require.NoError(t, err)

	p := player.New("Lost")
	p.MoveTo("Atlantis")
	_, err = session.New(p, session.Deps{
		Atlas: atlas, Monsters: pool, Recipes: recipes, Commands: command.DefaultRegistry(),
		Source: fixedSrc{}, Logger: zap.NewNop(),
	}, session.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Camp", p.Location)

	_, err = session.New(p, session.Deps{Atlas: atlas}, session.Options{})
	assert.Error(t, err)
	_, err = session.New(nil, session.Deps{}, session.Options{})
	assert.Error(t, err)
}

func TestExecute_EmptyAndUnknown(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	assert.Empty(t, f.exec(t, "   "))
	assert.Equal(t, `Unknown command "dance". Type 'help' for options.`, f.exec(t, "dance"))
}

func TestLook(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	out := f.exec(t, "l")
	assert.Contains(t, out, "Region: Camp")
	assert.Contains(t, out, "north (Den)")
}

func TestMove_Errors(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	assert.Equal(t, "Usage: move <direction>", f.exec(t, "move"))
	assert.Equal(t, `"up" is not a direction.`, f.exec(t, "go up"))
	assert.Equal(t, "You cannot travel that way.", f.exec(t, "west"))
	assert.Equal(t, "Camp", f.player.Location)

	f.player.Health = 0
	assert.Equal(t, "You are too exhausted to travel. Rest first.", f.exec(t, "north"))
}

func TestMove_CalmTravelAppliesSurvivalTick(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0.5})
	out := f.exec(t, "go e")
	assert.Contains(t, out, "You travel east to Field.")
	assert.Contains(t, out, "The way through Field is quiet.")
	assert.Equal(t, "Field", f.player.Location)
	assert.Equal(t, 4, f.player.Hunger)
	assert.Equal(t, 2, f.player.Exposure)
	assert.Equal(t, 69, f.player.Morale)
}

func TestMove_HazardTravel(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0.99, i: 0})
	out := f.exec(t, "east")
	// default hazard 1d6+2 with the die showing 1
	assert.Contains(t, out, "Hazards of Field wear you down: -3 health, -3 stamina, -1 morale.")
	assert.Equal(t, 97, f.player.Health)
	assert.Equal(t, 68, f.player.Morale)
}

func TestEncounter_CaptureWithNet(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0})
	out := f.exec(t, "north")

	assert.Contains(t, out, "A wild Runt (mystic, Lv 1) appears!")
	assert.Contains(t, out, "Champion uses Oath Strike on Runt for 32 damage (13 HP left).")
	assert.Contains(t, out, "Champion tries to capture Runt (95% chance): Runt is captured.")
	assert.Contains(t, out, "Your capture net is spent.")
	assert.Contains(t, out, "Runt joins your party!")

	require.Len(t, f.player.Party(), 2)
	assert.Equal(t, "Runt", f.player.Party()[1].Name)
	assert.Equal(t, 0, f.player.ItemQuantity(session.CaptureNet))

	require.Len(t, f.recorder.records, 1)
	rec := f.recorder.records[0]
	assert.Equal(t, "captured", rec.State)
	assert.Equal(t, f.player.ID, rec.PlayerID)
	assert.Equal(t, "Den", rec.Region)
}

func TestEncounter_FailedCaptureThenVictory(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0.99})
	require.NoError(t, f.player.RemoveItem(session.CaptureNet, 1))

	out := f.exec(t, "north")
	assert.Contains(t, out, "Runt breaks free")
	assert.Contains(t, out, "The wild Runt is defeated.")
	assert.NotContains(t, out, "capture net")
	assert.Len(t, f.player.Party(), 1)
	assert.Equal(t, 37, f.player.ActiveMonster().CurrentHP())
}

func TestEncounter_FullPartyNeverCaptures(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0})
	for f.player.AvailablePartySlots() > 0 {
		tmpl := monster.DefaultTemplate()
		tmpl.Name = "Reserve"
		require.NoError(t, f.player.AddToParty(monster.New(&tmpl)))
	}

	out := f.exec(t, "north")
	assert.Contains(t, out, "Your party is full, so you fight to drive it off.")
	assert.NotContains(t, out, "tries to capture")
	assert.Contains(t, out, "The wild Runt is defeated.")
	assert.Equal(t, 1, f.player.ItemQuantity(session.CaptureNet))
}

func TestEncounter_NoHealthyMonster(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0})
	f.player.ActiveMonster().SetCurrentHP(0)
	out := f.exec(t, "north")
	assert.Contains(t, out, "You have no monster fit to fight. You flee from the Runt.")
	assert.Empty(t, f.recorder.records)
}

func TestForage(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0.5})
	assert.Equal(t, "There is nothing here to gather.", f.exec(t, "forage"))

	f.exec(t, "north") // encounter roll 0.5 < 1.0
	assert.Equal(t, "You forage and find some timber.", f.exec(t, "f"))
	assert.Equal(t, 1, f.player.ItemQuantity("timber"))

	f.player.Stamina = exploration.ForageStamina - 1
	assert.Equal(t, "You are too tired to forage.", f.exec(t, "forage"))

	f.player.Stamina = exploration.ForageStamina
	assert.Equal(t, "You forage and find some timber.", f.exec(t, "forage"))
	assert.Equal(t, 0, f.player.Stamina)
}

func TestRestPartySwapStatus(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	f.player.Hunger = 50
	champ := f.player.ActiveMonster()
	champ.SetCurrentHP(10)

	out := f.exec(t, "rest")
	assert.Contains(t, out, "You make camp and rest.")
	assert.Equal(t, 30, f.player.Hunger)
	assert.Equal(t, 20, champ.CurrentHP())

	tmpl := monster.DefaultTemplate()
	tmpl.Name = "Storm Hare"
	require.NoError(t, f.player.AddToParty(monster.New(&tmpl)))

	party := f.exec(t, "party")
	assert.Contains(t, party, "1. Champion (mystic, Lv 3) HP 20/40, wounded [active]")
	assert.Contains(t, party, "Free slots: 4")

	assert.Equal(t, "Usage: swap <slot>", f.exec(t, "swap"))
	assert.Equal(t, `"two" is not a party slot.`, f.exec(t, "swap two"))
	assert.Equal(t, "There is no monster in slot 9.", f.exec(t, "swap 9"))
	assert.Equal(t, "Storm Hare takes the lead.", f.exec(t, "swap 2"))
	assert.Equal(t, "Storm Hare", f.player.ActiveMonster().Name)

	status := f.exec(t, "status")
	assert.Contains(t, status, "Aldric at Camp")
	assert.Contains(t, status, "Hunger 30")
}

func TestInventoryCraftRecipes(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	assert.Equal(t, "Usage: craft <recipe>", f.exec(t, "craft"))
	assert.Equal(t, `You don't know how to make "Flying Carpet".`, f.exec(t, "craft Flying Carpet"))
	assert.Equal(t, "Missing ingredients: timber x2", f.exec(t, "craft capture net"))

	require.NoError(t, f.player.AddItem("timber", 2))
	assert.Equal(t, "You craft a Capture Net.", f.exec(t, "craft Capture Net"))
	assert.Equal(t, 2, f.player.ItemQuantity(session.CaptureNet))
	assert.Equal(t, "Inventory:\ncapture net x2", f.exec(t, "inv"))
	assert.Equal(t, "Recipes:\nCapture Net: timber x2", f.exec(t, "recipes"))
}

func TestSave(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	assert.Equal(t, "Game saved.", f.exec(t, "save"))
	require.Len(t, f.saver.saved, 1)
	assert.Equal(t, f.player.ID, f.saver.saved[0].ID)

	f.saver.err = errors.New("disk full")
	assert.Equal(t, "Your progress could not be saved.", f.exec(t, "save"))
}

func TestHelpListsEveryCommand(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	out := f.exec(t, "help")
	for _, cmd := range command.BuiltinCommands() {
		assert.Contains(t, out, cmd.Help)
	}
	assert.True(t, strings.HasPrefix(out, "Movement:"))
}

func TestRun_QuitAndEOF(t *testing.T) {
	f := newFixture(t, fixedSrc{f: 0.5})
	var out bytes.Buffer
	err := f.game.Run(context.Background(), strings.NewReader("look\neast\nquit\nnorth\n"), &out)
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Welcome to Medieval Monsters!")
	assert.Contains(t, text, "[Camp] > ")
	assert.Contains(t, text, "[Field] > ")
	assert.Contains(t, text, "Farewell, Aldric.")
	assert.Equal(t, "Field", f.player.Location)

	out.Reset()
	require.NoError(t, f.game.Run(context.Background(), strings.NewReader("status\n"), &out))
	assert.Contains(t, out.String(), "Health 100")
}

func TestRun_ContextCancelled(t *testing.T) {
	f := newFixture(t, fixedSrc{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.game.Run(ctx, strings.NewReader("look\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScriptsNarrateAndAdjustCapture(t *testing.T) {
	atlas, err := world.LoadAtlasFromFile(filepath.Join("..", "..", "..", "content", "regions.yaml"))
	require.NoError(t, err)
	templates, err := monster.LoadTemplates(filepath.Join("..", "..", "..", "content", "monsters"))
	require.NoError(t, err)
	pool, err := monster.NewPool(templates)
	require.NoError(t, err)
	recipes, err := inventory.LoadRecipesFromFile(filepath.Join("..", "..", "..", "content", "recipes.yaml"))
	require.NoError(t, err)

	src := fixedSrc{f: 0.5}
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	scripts := scripting.NewManager(src, logger, 100000)
	t.Cleanup(scripts.Close)
	require.NoError(t, scripts.LoadRoot(filepath.Join("..", "..", "..", "content", "scripts")))

	p, err := session.NewPlayer("Aldric", "Squire Hound", pool, atlas.Start())
	require.NoError(t, err)
	g, err := session.New(p, session.Deps{
		Atlas: atlas, Monsters: pool, Recipes: recipes, Commands: command.DefaultRegistry(),
		Source: src, Logger: logger, Scripts: scripts,
	}, session.Options{CaptureThreshold: 0.35, ToolBonus: 0.15, HoursPerMove: 1})
	require.NoError(t, err)

	// Stormwatch Keep: chance 0.35*1.3 = 0.455, so 0.5 lands in the resource band.
	out, err := g.Execute(context.Background(), "north")
	require.NoError(t, err)
	assert.Contains(t, out, "Rusted fittings from the old armory litter the ground.")
	assert.Equal(t, 0, logs.FilterMessage("narration failed").Len())
}
