package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

func TestLoadTemplateFromBytes_ValidYAML(t *testing.T) {
	data := []byte(`
id: ORCO
name: Orco
description: Guerrero salvaje y agresivo
stats:
  hp: 150-300
  mp: "0"
  attack: 30-50
  defense: 20-40
  speed: 1d20+9
ai_domain: brute
taunts:
  - "¡Grah!"
taunt_chance: 40
`)
	tmpl, err := npc.LoadTemplateFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "ORCO", tmpl.ID)
	assert.Equal(t, "Orco", tmpl.Name)
	assert.Equal(t, "150-300", tmpl.Stats.HP)
	assert.Equal(t, "brute", tmpl.AIDomain)
	assert.Equal(t, 40, tmpl.TauntChance)
	et, ok := tmpl.EnemyType()
	require.True(t, ok)
	assert.Equal(t, combat.EnemyOrc, et)
}

func TestLoadTemplateFromBytes_Boss(t *testing.T) {
	data := []byte(`
id: NIGROMANTE
name: Nigromante
boss: true
cooldown: 3
stats: {hp: 300-450, mp: 150-250, attack: 70-350, defense: 250-500, speed: 100-200}
`)
	tmpl, err := npc.LoadTemplateFromBytes(data)
	require.NoError(t, err)
	et, ok := tmpl.EnemyType()
	require.True(t, ok)
	assert.Equal(t, combat.EnemyDragon, et, "bosses default to DRAGON")
	assert.Equal(t, 3, tmpl.EffectiveCooldown())
}

func TestTemplate_Validate_CollectsErrors(t *testing.T) {
	tmpl := &npc.Template{ID: "SLIME", TauntChance: 150, Cooldown: 2}
	err := tmpl.Validate()
	require.Error(t, err)
	for _, want := range []string{"name", "type", "hp", "taunt_chance", "cooldown"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadTemplateFromBytes_InvalidYAML(t *testing.T) {
	_, err := npc.LoadTemplateFromBytes([]byte("id: [unclosed"))
	assert.Error(t, err)
}

func TestEffectiveCooldown_DefaultAndFloor(t *testing.T) {
	assert.Equal(t, npc.DefaultCooldown, (&npc.Template{Boss: true}).EffectiveCooldown())
	assert.Equal(t, 1, (&npc.Template{Boss: true, Cooldown: 1}).EffectiveCooldown())
}

func TestLoadTemplates_Directory(t *testing.T) {
	dir := t.TempDir()
	golem := `
id: GOLEM
name: Golem
stats: {hp: 200-400, mp: "0", attack: 40-60, defense: 30-50, speed: 1d20+9}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golem.yaml"), []byte(golem), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644))

	got, err := npc.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GOLEM", got[0].ID)
}

func TestLoadTemplates_BadFileFailsWhole(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: X\nname: X\n"), 0o644))
	_, err := npc.LoadTemplates(dir)
	assert.Error(t, err)
}

func TestDefaultTemplates_AllValid(t *testing.T) {
	templates := npc.DefaultTemplates()
	require.Len(t, templates, 10)
	bosses := 0
	for _, tmpl := range templates {
		assert.NoError(t, tmpl.Validate(), tmpl.ID)
		if tmpl.Boss {
			bosses++
		}
	}
	assert.Equal(t, 5, bosses)
}
