package terminal_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/turnbattle/internal/frontend/terminal"
	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/history"
)

func console(input string, opts ...terminal.Option) (*terminal.Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return terminal.NewConsole(strings.NewReader(input), out, opts...), out
}

func hero() *combat.Combatant {
	return combat.NewHero("Angelo", combat.ClassWarrior, 100, 20, 50, 10, 20)
}

func TestChooseAction_NamesAndNumbers(t *testing.T) {
	tests := []struct {
		input string
		code  int
	}{
		{"attack\n", battle.MenuAttack},
		{"1\n", battle.MenuAttack},
		{"Skill\n", battle.MenuSkill},
		{"i\n", battle.MenuItem},
		{"save\n", battle.MenuSave},
		{"5\n", battle.MenuLoad},
		{"undo\n", battle.MenuUndo},
		{"0\n", battle.MenuUndo},
		{"r\n", battle.MenuRedo},
		{"9", battle.MenuRedo},
	}
	for _, tt := range tests {
		c, _ := console(tt.input)
		code, err := c.ChooseAction(hero())
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.code, code, "input %q", tt.input)
	}
}

func TestChooseAction_UnknownCommandPromptsAgain(t *testing.T) {
	c, out := console("dance\n\n2\n")
	code, err := c.ChooseAction(hero())
	require.NoError(t, err)
	assert.Equal(t, battle.MenuSkill, code)
	assert.Contains(t, out.String(), `Unknown command "dance"`)
	assert.Equal(t, 3, strings.Count(terminal.StripANSI(out.String()), "What will Angelo do?"))
}

func TestChooseAction_UnmappedNumberPassesThrough(t *testing.T) {
	c, _ := console("7\n")
	code, err := c.ChooseAction(hero())
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestChooseAction_HelpAndStatus(t *testing.T) {
	h := hero()
	roster, err := combat.NewRoster(
		[]*combat.Combatant{h},
		[]*combat.Combatant{combat.NewEnemy("Golem", combat.EnemyGolem, 50, 0, 20, 5, 10)},
		condition.DefaultRegistry(),
	)
	require.NoError(t, err)

	c, out := console("help\nstatus\nback\nattack\n", terminal.WithColor(false))
	c.Watch(roster)
	code, err := c.ChooseAction(h)
	require.NoError(t, err)
	assert.Equal(t, battle.MenuAttack, code)

	text := out.String()
	assert.Contains(t, text, "timeline:")
	assert.Contains(t, text, "Return to the action menu")
	assert.Contains(t, text, "=== Heroes ===")
	assert.Contains(t, text, "Golem HP 50/50")
}

func TestChooseAction_EOF(t *testing.T) {
	c, _ := console("")
	_, err := c.ChooseAction(hero())
	assert.ErrorIs(t, err, io.EOF)
}

func TestPendingArgumentsAnswerFollowingPrompts(t *testing.T) {
	c, out := console("skill 2 1\n")
	h := hero()
	code, err := c.ChooseAction(h)
	require.NoError(t, err)
	require.Equal(t, battle.MenuSkill, code)
	out.Reset()

	i, err := c.ChooseSkill(h, combat.SkillsFor(h.Class))
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	j, err := c.ChooseTarget("Provoke whom?", []*combat.Combatant{combat.NewEnemy("Golem", combat.EnemyGolem, 50, 0, 20, 5, 10)})
	require.NoError(t, err)
	assert.Equal(t, 0, j)
	assert.Empty(t, out.String(), "pending answers print no listing")
}

func TestSaveWithInlinePath(t *testing.T) {
	c, _ := console("save runs/my battle.csv\n")
	code, err := c.ChooseAction(hero())
	require.NoError(t, err)
	require.Equal(t, battle.MenuSave, code)

	path, err := c.ChoosePath("Save to")
	require.NoError(t, err)
	assert.Equal(t, "runs/my battle.csv", path)
}

func TestLoadWithQuotedPath(t *testing.T) {
	c, _ := console("load \"mis partidas/uno.csv\"\n")
	code, err := c.ChooseAction(hero())
	require.NoError(t, err)
	require.Equal(t, battle.MenuLoad, code)

	path, err := c.ChoosePath("Load from")
	require.NoError(t, err)
	assert.Equal(t, "mis partidas/uno.csv", path)
}

func TestChoosePath(t *testing.T) {
	c, out := console("\nback\n")
	path, err := c.ChoosePath("Load from")
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Contains(t, out.String(), "Load from (blank for default)")

	_, err = c.ChoosePath("Load from")
	assert.ErrorIs(t, err, battle.ErrBack)
}

func TestChooseIndex(t *testing.T) {
	c, out := console("2\nnope\nback\n", terminal.WithColor(false))
	h := hero()
	h.Pouch.Add("Poción", 3)
	h.Pouch.Add("Elixir", 1)

	i, err := c.ChooseItem(h, h.Pouch.Stacks())
	require.NoError(t, err)
	assert.Equal(t, 1, i)
	assert.Contains(t, out.String(), "1) Poción x3")
	assert.Contains(t, out.String(), "2) Elixir x1")

	i, err = c.ChooseItem(h, h.Pouch.Stacks())
	require.NoError(t, err)
	assert.Equal(t, -1, i)

	_, err = c.ChooseItem(h, h.Pouch.Stacks())
	assert.ErrorIs(t, err, battle.ErrBack)
}

func TestReadLine(t *testing.T) {
	c, _ := console("first\r\nsec\x07ond\rthird")
	for _, want := range []string{"first", "second", "third"} {
		line, err := c.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := c.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWithColorFalseStripsEscapes(t *testing.T) {
	c, out := console("", terminal.WithColor(false))
	c.Notify(battle.Event{Kind: battle.EventVictory, Narrative: "Combat is over. You stand victorious."})
	assert.Equal(t, "Combat is over. You stand victorious.\n", out.String())
}

func TestConsoleDrivesBattle(t *testing.T) {
	c, out := console("status\nattack 1\n", terminal.WithColor(false))
	heroes := []*combat.Combatant{hero()}
	enemies := []*combat.Combatant{combat.NewEnemy("Golem", combat.EnemyGolem, 30, 0, 5, 0, 5)}
	store := history.NewMemoryStore()

	s, err := battle.New(heroes, enemies, battle.Deps{
		Input:      c,
		Notify:     c.Notify,
		Catalog:    inventory.DefaultCatalog(),
		Conditions: condition.DefaultRegistry(),
		Roller:     dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop()),
		Logger:     zaptest.NewLogger(t),
		History:    store,
	})
	require.NoError(t, err)
	c.Watch(s.Roster())

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, battle.OutcomeVictory, s.Outcome())

	text := out.String()
	assert.Contains(t, text, "Round 1 begins!")
	assert.Contains(t, text, "Golem HP 30/30")
	assert.Contains(t, text, "Combat is over. You stand victorious.")

	records, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Contains(t, terminal.RenderHistory(records), "1 battles, 1 victories")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, terminal.StripANSI(terminal.RenderHistory(nil)), "No battles recorded.")
}
