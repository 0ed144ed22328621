package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegions(t *testing.T) []*Region {
	t.Helper()
	a, b, c := newRegion("A", 0.2, 0), newRegion("B", 0.2, 1), newRegion("C", 0.2, 2)
	require.NoError(t, a.Connect(b, North))
	require.NoError(t, b.Connect(c, East))
	return []*Region{a, b, c}
}

func TestNewManager(t *testing.T) {
	m, err := NewManager(testRegions(t), "A")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "A", m.Start().Name)
	assert.Equal(t, []string{"A", "B", "C"}, m.Names())
	assert.Len(t, m.Regions(), 3)
}

func TestNewManager_Errors(t *testing.T) {
	_, err := NewManager(nil, "A")
	assert.Error(t, err)

	_, err = NewManager(testRegions(t), "Z")
	assert.Error(t, err)

	regions := testRegions(t)
	_, err = NewManager(append(regions, newRegion("A", 0.1, 0)), "A")
	assert.Contains(t, err.Error(), "duplicate region")

	regions = testRegions(t)
	_, err = NewManager(regions[:2], "A")
	assert.Error(t, err, "C is linked from B but not registered")

	regions = testRegions(t)
	delete(regions[1].Neighbors, South)
	_, err = NewManager(regions, "A")
	assert.ErrorContains(t, err, "not mirrored")
}

func TestManager_ValidateMonsters(t *testing.T) {
	regions := testRegions(t)
	regions[1].Monsters = []string{"Bog Wisp", "Fen Stalker"}
	m, err := NewManager(regions, "A")
	require.NoError(t, err)

	assert.NoError(t, m.ValidateMonsters([]string{"Bog Wisp", "Fen Stalker", "Moss Troll"}))
	assert.ErrorContains(t, m.ValidateMonsters([]string{"Bog Wisp"}), `region "B": unknown monster "Fen Stalker"`)
}

func TestManager_Navigate(t *testing.T) {
	m, err := NewManager(testRegions(t), "A")
	require.NoError(t, err)

	to, err := m.Navigate("A", North)
	require.NoError(t, err)
	assert.Equal(t, "B", to.Name)

	to, err = m.Navigate("C", West)
	require.NoError(t, err)
	assert.Equal(t, "B", to.Name)

	_, err = m.Navigate("A", South)
	assert.Error(t, err)

	_, err = m.Navigate("Nowhere", North)
	assert.Error(t, err)
}
