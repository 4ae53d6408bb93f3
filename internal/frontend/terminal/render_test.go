package terminal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/turnbattle/internal/frontend/terminal"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
)

func paladinBattle(t *testing.T) (*combat.Combatant, *combat.Roster) {
	t.Helper()
	pal := combat.NewHero("Jessica", combat.ClassPaladin, 80, 40, 10, 20, 15)
	enemies := []*combat.Combatant{
		combat.NewEnemy("Golem", combat.EnemyGolem, 100, 0, 20, 5, 10),
		combat.NewEnemy("Troll", combat.EnemyTroll, 100, 0, 20, 5, 10),
		combat.NewEnemy("Esqueleto", combat.EnemyUndead, 100, 0, 20, 5, 10),
	}
	r, err := combat.NewRoster([]*combat.Combatant{pal}, enemies, condition.DefaultRegistry())
	require.NoError(t, err)
	return pal, r
}

func TestRenderSkills_ProvokeAllCostFollowsLivingEnemies(t *testing.T) {
	pal, r := paladinBattle(t)
	skills := []combat.Skill{combat.SkillProvokeAll}

	text := terminal.StripANSI(terminal.RenderSkills(pal, skills, r))
	assert.Contains(t, text, "Provoke all (9 MP)")

	r.Enemies()[1].LoseHP(1000)
	text = terminal.StripANSI(terminal.RenderSkills(pal, skills, r))
	assert.Contains(t, text, "Provoke all (6 MP)")

	text = terminal.StripANSI(terminal.RenderSkills(pal, skills, nil))
	assert.Contains(t, text, "3 MP per enemy")
}

func TestRenderRoster_DescribesEnemyHealth(t *testing.T) {
	_, r := paladinBattle(t)
	r.Enemies()[0].LoseHP(50)
	r.Enemies()[2].LoseHP(1000)

	lines := strings.Split(terminal.StripANSI(terminal.RenderRoster(r)), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.NotContains(t, lines[1], "unharmed", "hero lines carry no description")
	assert.True(t, strings.HasSuffix(lines[3], "(moderately wounded)"), lines[3])
	assert.True(t, strings.HasSuffix(lines[4], "(unharmed)"), lines[4])
	assert.True(t, strings.HasSuffix(lines[5], "(defeated)"), lines[5])
}

func TestRenderHelp_FlagsTurnActions(t *testing.T) {
	text := terminal.StripANSI(terminal.RenderHelp(command.DefaultRegistry()))
	flagged := map[string]bool{}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasSuffix(fields[0], ":") {
			continue
		}
		flagged[fields[0]] = strings.HasSuffix(line, "(uses turn)")
	}
	assert.True(t, flagged["attack"])
	assert.True(t, flagged["skill"])
	assert.True(t, flagged["item"])
	assert.False(t, flagged["undo"])
	assert.False(t, flagged["save"])
	assert.False(t, flagged["help"])
}
