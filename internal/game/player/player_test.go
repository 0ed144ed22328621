package player_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/monsters/internal/game/monster"
	"github.com/cory-johannsen/monsters/internal/game/player"
)

func makeMonster(name string, level int) *monster.Monster {
	t := monster.DefaultTemplate()
	t.Name = name
	t.Element = "fire"
	t.Level = level
	t.MaxHP = 20 + level
	t.Attack = 5 + level
	t.Defense = 3 + level
	t.Agility = 4 + level
	return monster.New(&t)
}

func TestNew_Defaults(t *testing.T) {
	p := player.New("Aldric")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, player.DefaultVitals(), p.Vitals)
	assert.Nil(t, p.ActiveMonster())
	assert.Equal(t, player.MaxPartySize, p.AvailablePartySlots())
	assert.Equal(t, []string{"(empty)"}, p.InventorySummary())
}

func TestParty_CapacityAndCycle(t *testing.T) {
	p := player.New("Handler")
	for i := 1; i <= player.MaxPartySize; i++ {
		require.NoError(t, p.AddToParty(makeMonster(fmt.Sprintf("Beast %d", i), 1)))
	}
	assert.Equal(t, 0, p.AvailablePartySlots())
	assert.ErrorIs(t, p.AddToParty(makeMonster("Extra Beast", 1)), player.ErrPartyFull)

	chosen, err := p.CycleActiveMonster(2)
	require.NoError(t, err)
	assert.Same(t, chosen, p.ActiveMonster())
	assert.Equal(t, "Beast 3", chosen.Name)

	var order []string
	for _, m := range p.Party() {
		order = append(order, m.Name)
	}
	assert.Equal(t, []string{"Beast 3", "Beast 1", "Beast 2", "Beast 4", "Beast 5", "Beast 6"}, order)

	_, err = p.CycleActiveMonster(6)
	assert.ErrorIs(t, err, player.ErrNotInParty)
	_, err = p.CycleActiveMonster(-1)
	assert.ErrorIs(t, err, player.ErrNotInParty)
}

func TestParty_RemoveAndFirstHealthy(t *testing.T) {
	p := player.New("Keeper")
	a, b := makeMonster("A", 1), makeMonster("B", 2)
	require.NoError(t, p.AddToParty(a))
	require.NoError(t, p.AddToParty(b))

	a.SetCurrentHP(0)
	assert.Same(t, b, p.FirstHealthy())

	require.NoError(t, p.RemoveFromParty(a))
	assert.ErrorIs(t, p.RemoveFromParty(a), player.ErrNotInParty)
	assert.Same(t, b, p.ActiveMonster())

	b.SetCurrentHP(0)
	assert.Nil(t, p.FirstHealthy())
}

func TestParty_ReturnsCopy(t *testing.T) {
	p := player.New("Keeper")
	require.NoError(t, p.AddToParty(makeMonster("A", 1)))
	party := p.Party()
	party[0] = nil
	assert.NotNil(t, p.ActiveMonster())
}

func TestInventoryHelpers(t *testing.T) {
	p := player.New("Trader")
	require.NoError(t, p.AddItem("herbs", 2))
	assert.True(t, p.HasItem("herbs"))
	assert.Equal(t, 2, p.ItemQuantity("herbs"))

	assert.True(t, p.ConsumeItem("herbs"))
	assert.Equal(t, 1, p.ItemQuantity("herbs"))

	summary := p.InventorySummary()
	require.Len(t, summary, 1)
	assert.True(t, strings.HasPrefix(summary[0], "herbs"))

	assert.False(t, p.ConsumeItem("timber"))
	require.NoError(t, p.RemoveItem("herbs", 1))
	assert.False(t, p.HasItem("herbs"))
}

func TestApplySurvivalTick(t *testing.T) {
	p := player.New("Test")
	p.Vitals = player.Vitals{Health: 80, Stamina: 70, Hunger: 90, Morale: 50, Exposure: 90}

	p.ApplySurvivalTick(5, 3, 2)
	assert.Equal(t, 95, p.Hunger)
	assert.Equal(t, 93, p.Exposure)
	assert.Equal(t, 48, p.Morale)
	assert.Equal(t, 80, p.Health)

	p.ApplySurvivalTick(10, 10, 100)
	assert.Equal(t, player.MaxStat, p.Hunger)
	assert.Equal(t, player.MaxStat, p.Exposure)
	assert.Equal(t, 0, p.Morale)
	assert.Equal(t, 70, p.Health, "maxed hunger costs health")
	assert.Equal(t, 60, p.Stamina, "maxed exposure costs stamina")
}

func TestProperty_SurvivalTick_VitalsBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := player.New("P")
		ticks := rapid.IntRange(1, 50).Draw(rt, "ticks")
		for i := 0; i < ticks; i++ {
			if rapid.Bool().Draw(rt, "rest") {
				p.Rest()
			} else {
				p.ApplySurvivalTick(
					rapid.IntRange(0, 30).Draw(rt, "hunger"),
					rapid.IntRange(0, 30).Draw(rt, "exposure"),
					rapid.IntRange(0, 30).Draw(rt, "morale"),
				)
			}
			for _, v := range []int{p.Health, p.Stamina, p.Hunger, p.Morale, p.Exposure} {
				if v < 0 || v > player.MaxStat {
					rt.Fatalf("vital %d out of range: %+v", v, p.Vitals)
				}
			}
		}
	})
}

func TestRest_RecoversVitalsAndParty(t *testing.T) {
	p := player.New("Test")
	p.Vitals = player.Vitals{Health: 50, Stamina: 30, Hunger: 60, Morale: 20, Exposure: 60}
	m := makeMonster("Wounded", 4)
	m.SetCurrentHP(1)
	require.NoError(t, p.AddToParty(m))

	p.Rest()
	assert.Less(t, p.Hunger, 60)
	assert.Less(t, p.Exposure, 60)
	assert.Greater(t, p.Health, 50)
	assert.Greater(t, p.Stamina, 30)
	assert.Greater(t, p.Morale, 20)
	assert.Equal(t, 1+24/4, m.CurrentHP())
}

func TestMoveToAndStatus(t *testing.T) {
	p := player.New("Scout")
	p.MoveTo("Elder Glade")
	assert.Equal(t, "Elder Glade", p.Location)
	assert.Equal(t, "Health 100  Stamina 100  Hunger 0  Morale 70  Exposure 0", p.Status())
	assert.False(t, p.IsIncapacitated())
	p.Health = 0
	assert.True(t, p.IsIncapacitated())
}

func TestSnapshot_RestoreRoundTrip(t *testing.T) {
	wrenTmpl := monster.DefaultTemplate()
	wrenTmpl.Name = "Storm Hare"
	wrenTmpl.Element = "air"
	wrenTmpl.MaxHP = 24
	houndTmpl := monster.DefaultTemplate()
	houndTmpl.Name = "Squire Hound"
	houndTmpl.MaxHP = 30
	pool, err := monster.NewPool([]*monster.Template{&wrenTmpl, &houndTmpl})
	require.NoError(t, err)

	p := player.New("Wren")
	p.MoveTo("Bogmire Fen")
	p.Hunger = 35
	hare, _ := pool.Spawn("Storm Hare")
	hare.ApplyDamage(10)
	hound, _ := pool.Spawn("Squire Hound")
	require.NoError(t, p.AddToParty(hound))
	require.NoError(t, p.AddToParty(hare))
	require.NoError(t, p.AddItem("Capture Net", 2))

	snap := p.Snapshot()
	assert.Equal(t, []player.PartyMember{
		{ID: hound.ID, Template: "Squire Hound", CurrentHP: 30},
		{ID: hare.ID, Template: "Storm Hare", CurrentHP: 14},
	}, snap.Party)

	restored, err := player.Restore(snap, pool)
	require.NoError(t, err)
	assert.Equal(t, snap, restored.Snapshot())
	assert.Equal(t, p.ID, restored.ID)
	assert.Equal(t, "Bogmire Fen", restored.Location)
	assert.Equal(t, 2, restored.ItemQuantity("capture net"))
	assert.NotSame(t, hare, restored.Party()[1])
}

func TestRestore_UnknownTemplate(t *testing.T) {
	pool, err := monster.NewPool(nil)
	require.NoError(t, err)
	snap := player.New("Wren").Snapshot()
	snap.Party = []player.PartyMember{{Template: "Ghost"}}
	_, err = player.Restore(snap, pool)
	assert.ErrorContains(t, err, "Ghost")
}
