package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/character"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

func roller(seed int64) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
}

func TestBestiary_SpawnDeduplicatesNames(t *testing.T) {
	b := npc.DefaultBestiary()
	r := roller(7)

	first, err := b.Spawn("NOMUERTO", r)
	require.NoError(t, err)
	second, err := b.Spawn("NOMUERTO", r)
	require.NoError(t, err)
	third, err := b.Spawn("NOMUERTO", r)
	require.NoError(t, err)

	assert.Equal(t, "No muerto", first.Name)
	assert.Equal(t, "No muerto 2", second.Name)
	assert.Equal(t, "No muerto 3", third.Name)
	assert.Equal(t, combat.EnemyUndead, first.EnemyType)
}

func TestBestiary_SpawnUnknown(t *testing.T) {
	_, err := npc.DefaultBestiary().Spawn("SLIME", roller(1))
	assert.Error(t, err)
}

func TestNewBestiary_RejectsDuplicateID(t *testing.T) {
	tmpl := npc.DefaultTemplates()[0]
	_, err := npc.NewBestiary([]*npc.Template{tmpl, tmpl})
	assert.Error(t, err)
}

func TestBestiary_IDs(t *testing.T) {
	b := npc.DefaultBestiary()
	assert.Equal(t, []string{"DRAGON", "GOLEM", "NOMUERTO", "ORCO", "TROLL"}, b.IDs(false))
	assert.Equal(t, []string{"DEMONIO", "GIGANTE", "JEFE_ORCO", "NIGROMANTE", "REY_DRAGON"}, b.IDs(true))
}

func TestSpawn_EnemyStatsInsideRanges(t *testing.T) {
	templates := npc.DefaultTemplates()
	rapid.Check(t, func(rt *rapid.T) {
		tmpl := rapid.SampledFrom(templates).Draw(rt, "template")
		seed := rapid.Int64().Draw(rt, "seed")

		c, err := npc.Spawn("X", tmpl, roller(seed))
		if err != nil {
			rt.Fatalf("spawn: %v", err)
		}
		st := character.Stats{HP: c.HP, MP: c.MP, Attack: c.Attack, Defense: c.Defense, Speed: c.Speed}
		if !tmpl.Stats.Contains(st) {
			rt.Fatalf("%s stats %+v outside %+v", tmpl.ID, st, tmpl.Stats)
		}
		if c.IsHero() || c.HP != c.MaxHP {
			rt.Fatalf("unexpected enemy %+v", c)
		}
		if tmpl.Boss != c.IsBoss() {
			rt.Fatalf("boss flag mismatch for %s", tmpl.ID)
		}
	})
}

func TestSpawnBoss_CountdownStartsAtCooldown(t *testing.T) {
	b := npc.DefaultBestiary()
	tmpl, ok := b.Get("DEMONIO")
	require.True(t, ok)

	c, err := npc.SpawnBoss("Demonio", tmpl, roller(3))
	require.NoError(t, err)
	require.NotNil(t, c.Boss)
	assert.Equal(t, "DEMONIO", c.Boss.Title)
	assert.Equal(t, 2, c.Boss.Cooldown)
	assert.Equal(t, 2, c.Boss.TurnsUntilSpecial)
	assert.False(t, c.Boss.SpecialReady())

	back, ok := b.TemplateFor(c)
	require.True(t, ok)
	assert.Same(t, tmpl, back)
}

func TestSpawnBoss_RejectsRegularTemplate(t *testing.T) {
	tmpl, _ := npc.DefaultBestiary().Get("GOLEM")
	_, err := npc.SpawnBoss("Golem", tmpl, roller(1))
	assert.Error(t, err)
}

func TestBestiary_Taunt(t *testing.T) {
	always := &npc.Template{
		ID: "ORCO", Name: "Orco",
		Stats:       character.StatBlock{HP: "10", MP: "0", Attack: "1", Defense: "1", Speed: "1"},
		Taunts:      []string{"¡Grah!"},
		TauntChance: 100,
	}
	never := &npc.Template{
		ID: "TROLL", Name: "Troll",
		Stats:  character.StatBlock{HP: "10", MP: "0", Attack: "1", Defense: "1", Speed: "1"},
		Taunts: []string{"..."},
	}
	b, err := npc.NewBestiary([]*npc.Template{always, never})
	require.NoError(t, err)
	r := roller(11)

	orc, err := b.Spawn("ORCO", r)
	require.NoError(t, err)
	line, ok := b.Taunt(orc, r)
	assert.True(t, ok)
	assert.Equal(t, "¡Grah!", line)

	troll, err := b.Spawn("TROLL", r)
	require.NoError(t, err)
	_, ok = b.Taunt(troll, r)
	assert.False(t, ok)
}

func TestHealthDescription(t *testing.T) {
	c := combat.NewEnemy("Golem", combat.EnemyGolem, 100, 0, 10, 10, 10)
	assert.Equal(t, "unharmed", npc.HealthDescription(c))
	c.HP = 50
	assert.Equal(t, "moderately wounded", npc.HealthDescription(c))
	c.HP = 5
	assert.Equal(t, "critically wounded", npc.HealthDescription(c))
	c.HP = 0
	assert.Equal(t, "defeated", npc.HealthDescription(c))
}
