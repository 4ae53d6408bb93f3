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

	cmd, ok := r.Resolve("attack")
	assert.True(t, ok)
	assert.Equal(t, "attack", cmd.Name)
	assert.Equal(t, HandlerAttack, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("u")
	assert.True(t, ok)
	assert.Equal(t, "undo", cmd.Name)
}

func TestResolve_IgnoresCaseAndSpace(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("  REDO ")
	require.True(t, ok)
	assert.Equal(t, HandlerRedo, cmd.Handler)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("flee")
	assert.False(t, ok)
	_, ok = r.Resolve("7")
	assert.False(t, ok)
}

func TestResolve_MenuNumbers(t *testing.T) {
	r := DefaultRegistry()
	numbers := []struct {
		input   string
		handler string
	}{
		{"1", HandlerAttack},
		{"2", HandlerSkill},
		{"3", HandlerItem},
		{"4", HandlerSave},
		{"5", HandlerLoad},
		{"0", HandlerUndo},
		{"9", HandlerRedo},
	}

	for _, n := range numbers {
		cmd, ok := r.Resolve(n.input)
		require.True(t, ok, "menu number %q not found", n.input)
		assert.Equal(t, n.handler, cmd.Handler, "menu number %q wrong handler", n.input)
	}
}

func TestResolve_AllSystemCommands(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"status", HandlerStatus},
		{"st", HandlerStatus},
		{"help", HandlerHelp},
		{"?", HandlerHelp},
		{"back", HandlerBack},
		{"cancel", HandlerBack},
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
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate command name")
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	cmds := []Command{
		{Name: "test1", Aliases: []string{"t"}, Handler: "a"},
		{Name: "test2", Aliases: []string{"t"}, Handler: "b"},
	}
	_, err := NewRegistry(cmds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate alias")
}

func TestNewRegistry_RejectsUnresolvableWords(t *testing.T) {
	for _, cmd := range []Command{
		{Name: "Attack", Handler: HandlerAttack},
		{Name: "attack", Aliases: []string{"hit hard"}, Handler: HandlerAttack},
		{Name: "attack", Aliases: []string{""}, Handler: HandlerAttack},
	} {
		_, err := NewRegistry([]Command{cmd})
		assert.ErrorContains(t, err, "single lowercase word")
	}
}

func TestNewRegistry_RequiresHandler(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "dance"}})
	assert.ErrorContains(t, err, "has no handler")
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()

	assert.Len(t, cats[CategoryAction], 3)
	assert.Len(t, cats[CategoryTimeline], 4)
	assert.Len(t, cats[CategorySystem], 3)
	assert.Equal(t, "attack", cats[CategoryAction][0].Name)
}

func TestIsTurnAction(t *testing.T) {
	assert.True(t, IsTurnAction("attack"))
	assert.True(t, IsTurnAction("3"))
	assert.False(t, IsTurnAction("undo"))
	assert.False(t, IsTurnAction("save"))
	assert.False(t, IsTurnAction("dance"))
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
