package inventory_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

func TestPouch_AddAndCount(t *testing.T) {
	p := inventory.NewPouch()
	require.NoError(t, p.Add("Poción", 3))
	require.NoError(t, p.Add("Poción", 2))
	assert.Equal(t, 5, p.Count("Poción"))
	assert.True(t, p.Has("Poción"))
	assert.False(t, p.Has("Elixir"))
	assert.Equal(t, 1, p.Len())
}

func TestPouch_Add_CapsAtMaxStack(t *testing.T) {
	p := inventory.NewPouch()
	require.NoError(t, p.Add("Poción", 98))
	require.NoError(t, p.Add("Poción", 5))
	assert.Equal(t, inventory.MaxStack, p.Count("Poción"))
}

func TestPouch_Add_SixthDistinctRejected(t *testing.T) {
	p := inventory.NewPouch()
	for i := 0; i < inventory.MaxDistinct; i++ {
		require.NoError(t, p.Add(fmt.Sprintf("item-%d", i), 1))
	}
	err := p.Add("Bomba", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrPouchFull))
	assert.Equal(t, inventory.MaxDistinct, p.Len())
	assert.False(t, p.Has("Bomba"))

	require.NoError(t, p.Add("item-0", 4), "existing names still stack when full")
	assert.Equal(t, 5, p.Count("item-0"))
}

func TestPouch_Add_RejectsBadInput(t *testing.T) {
	p := inventory.NewPouch()
	assert.Error(t, p.Add("", 1))
	assert.Error(t, p.Add("Poción", 0))
	assert.Equal(t, 0, p.Len())
}

func TestPouch_Remove_ZeroDropsEntry(t *testing.T) {
	p := inventory.NewPouch()
	require.NoError(t, p.Add("Poción", 1))
	require.NoError(t, p.Add("Elixir", 1))
	require.NoError(t, p.Remove("Poción", 1))
	assert.False(t, p.Has("Poción"))
	assert.Equal(t, []inventory.Stack{{Name: "Elixir", Count: 1}}, p.Stacks())
}

func TestPouch_Remove_Absent(t *testing.T) {
	p := inventory.NewPouch()
	require.NoError(t, p.Add("Poción", 1))
	err := p.Remove("Poción", 2)
	assert.True(t, errors.Is(err, inventory.ErrItemAbsent))
	assert.Equal(t, 1, p.Count("Poción"))
	assert.True(t, errors.Is(p.Remove("Elixir", 1), inventory.ErrItemAbsent))
}

func TestPouch_SetCount(t *testing.T) {
	p := inventory.NewPouch()
	require.NoError(t, p.SetCount("Éter", 2))
	assert.Equal(t, 2, p.Count("Éter"))
	require.NoError(t, p.SetCount("Éter", 0))
	assert.Equal(t, 0, p.Len())
	require.NoError(t, p.SetCount("Éter", 500))
	assert.Equal(t, inventory.MaxStack, p.Count("Éter"))
}

func TestPouch_Stacks_InsertionOrder(t *testing.T) {
	p := inventory.NewPouch()
	require.NoError(t, p.Add("Elixir", 1))
	require.NoError(t, p.Add("Bomba", 2))
	require.NoError(t, p.Add("Antídoto", 3))
	names := []string{}
	for _, s := range p.Stacks() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Elixir", "Bomba", "Antídoto"}, names)
}

func TestProperty_PouchBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := inventory.NewPouch()
		names := []string{"a", "b", "c", "d", "e", "f", "g"}
		ops := rapid.IntRange(1, 60).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			name := rapid.SampledFrom(names).Draw(t, "name")
			qty := rapid.IntRange(1, 120).Draw(t, "qty")
			if rapid.Bool().Draw(t, "add") {
				_ = p.Add(name, qty)
			} else {
				_ = p.Remove(name, qty)
			}
			if p.Len() > inventory.MaxDistinct {
				t.Fatalf("pouch holds %d distinct names", p.Len())
			}
			for _, s := range p.Stacks() {
				if s.Count < 1 || s.Count > inventory.MaxStack {
					t.Fatalf("stack %q has count %d", s.Name, s.Count)
				}
			}
		}
	})
}
