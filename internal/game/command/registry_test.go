package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Len(t, r.Commands(), len(BuiltinCommands()))
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("north")
	assert.True(t, ok)
	assert.Equal(t, "north", cmd.Name)
	assert.Equal(t, HandlerMove, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("n")
	assert.True(t, ok)
	assert.Equal(t, "north", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("teleport")
	assert.False(t, ok)
	_, ok = r.Resolve("up")
	assert.False(t, ok)
}

func TestResolve_AllMovementDirections(t *testing.T) {
	r := DefaultRegistry()
	directions := []struct {
		name  string
		alias string
	}{
		{"north", "n"},
		{"south", "s"},
		{"east", "e"},
		{"west", "w"},
		{"northeast", "ne"},
		{"northwest", "nw"},
		{"southeast", "se"},
		{"southwest", "sw"},
	}

	for _, d := range directions {
		cmd, ok := r.Resolve(d.name)
		require.True(t, ok, "canonical name %q not found", d.name)
		assert.Equal(t, d.name, cmd.Name)
		assert.Equal(t, HandlerMove, cmd.Handler)
		assert.True(t, IsDirectionCommand(cmd.Name))

		aliasCmd, ok := r.Resolve(d.alias)
		require.True(t, ok, "alias %q not found", d.alias)
		assert.Equal(t, d.name, aliasCmd.Name)
	}
}

func TestResolve_GameCommands(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"go", HandlerMove},
		{"look", HandlerLook},
		{"l", HandlerLook},
		{"forage", HandlerForage},
		{"camp", HandlerRest},
		{"p", HandlerParty},
		{"switch", HandlerSwap},
		{"i", HandlerInventory},
		{"craft", HandlerCraft},
		{"recipes", HandlerRecipes},
		{"vitals", HandlerStatus},
		{"save", HandlerSave},
		{"?", HandlerHelp},
		{"exit", HandlerQuit},
		{"q", HandlerQuit},
	}

	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	cmds := []Command{
		{Name: "test", Handler: "a"},
		{Name: "test", Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.ErrorContains(t, err, "duplicate command name")
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	cmds := []Command{
		{Name: "test1", Aliases: []string{"t"}, Handler: "a"},
		{Name: "test2", Aliases: []string{"t"}, Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.ErrorContains(t, err, "duplicate alias")
}

func TestNewRegistry_AliasShadowsName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "look", Handler: "a"},
		{Name: "peer", Aliases: []string{"look"}, Handler: "b"},
	})
	assert.ErrorContains(t, err, "conflicts with command name")
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()

	assert.Len(t, cats[CategoryMovement], 9)
	assert.Len(t, cats[CategoryParty], 2)
	assert.Equal(t, "craft", cats[CategoryItems][0].Name)
	assert.Equal(t, []string{CategoryMovement, CategoryWorld, CategoryParty, CategoryItems, CategorySystem}, r.Categories())
}

func TestCategories_CustomSortLast(t *testing.T) {
	r, err := NewRegistry([]Command{
		{Name: "zap", Category: "zeta"},
		{Name: "alpha", Category: "alpha"},
		{Name: "look", Category: CategoryWorld},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{CategoryWorld, "alpha", "zeta"}, r.Categories())
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRegistry()
		cmds := r.Commands()
		idx := rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")
		cmd := cmds[idx]

		resolved, ok := r.Resolve(cmd.Name)
		if !ok {
			t.Fatalf("canonical name %q did not resolve", cmd.Name)
		}
		if resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q resolved to %q", cmd.Name, resolved.Name)
		}

		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok {
				t.Fatalf("alias %q did not resolve", alias)
			}
			if aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q resolved to %q, expected %q", alias, aliasResolved.Name, cmd.Name)
			}
		}
	})
}

func TestIsDirectionCommand(t *testing.T) {
	assert.True(t, IsDirectionCommand("north"))
	assert.True(t, IsDirectionCommand("southwest"))
	assert.False(t, IsDirectionCommand("move"))
	assert.False(t, IsDirectionCommand("look"))
}
