package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/character"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

func TestDefaultEncounter(t *testing.T) {
	heroes, enemies, err := battle.DefaultEncounter(inventory.DefaultCatalog())
	require.NoError(t, err)
	require.Len(t, heroes, 4)
	require.Len(t, enemies, 4)

	angelo := heroes[0]
	assert.Equal(t, 50, angelo.MaxHP)
	assert.Equal(t, 55, angelo.Speed)
	assert.Equal(t, 5, angelo.Pouch.Count("Poción de Vida"))
	assert.Equal(t, 5, angelo.Pouch.Len())
	assert.Equal(t, 3, heroes[2].Pouch.Count("Éter"))

	var names []string
	for _, e := range enemies {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Golem", "Esqueleto", "Esqueleto 2", "Gengar"}, names)
	assert.Equal(t, combat.EnemyUndead, enemies[3].EnemyType)
}

func TestContent_MusterDefaultLineup(t *testing.T) {
	c := battle.DefaultContent()
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop())
	heroes, enemies, err := c.Muster(battle.DefaultLineup(), roller)
	require.NoError(t, err)
	require.Len(t, heroes, 4)
	require.Len(t, enemies, 3)

	assert.Equal(t, combat.ClassMage, heroes[1].Class)
	assert.Equal(t, 1, heroes[1].Pouch.Count("Elixir"))
	assert.True(t, enemies[2].IsBoss())
	assert.Equal(t, "REY_DRAGON", enemies[2].Boss.Title)
}

func TestContent_MusterRejectsUnknownEnemy(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(3), zap.NewNop())
	_, _, err := battle.DefaultContent().Muster(battle.Lineup{Enemies: []string{"SLIME"}}, roller)
	assert.ErrorContains(t, err, "SLIME")
}

// Property: mustered heroes always roll inside their class ranges.
func TestProperty_MusteredHeroesInRange(t *testing.T) {
	classes := character.DefaultClasses()
	rapid.Check(t, func(t *rapid.T) {
		class := rapid.SampledFrom([]combat.Class{combat.ClassWarrior, combat.ClassMage, combat.ClassDruid, combat.ClassPaladin}).Draw(t, "class")
		seed := rapid.Int64().Draw(t, "seed")
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
		heroes, _, err := battle.DefaultContent().Muster(battle.Lineup{Heroes: []battle.HeroSlot{{Name: "X", Class: class}}}, roller)
		if err != nil {
			t.Fatal(err)
		}
		h := heroes[0]
		st := character.Stats{HP: h.MaxHP, MP: h.MaxMP, Attack: h.Attack, Defense: h.Defense, Speed: h.Speed}
		if !classes[class].Stats.Contains(st) {
			t.Fatalf("%s rolled out of range: %+v", class, st)
		}
	})
}
