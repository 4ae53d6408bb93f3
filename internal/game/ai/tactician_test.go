package ai_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/ai"
	"github.com/cory-johannsen/turnbattle/internal/game/character"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

func tactician(t testing.TB, r *combat.Roster, b *npc.Bestiary, caller ai.ScriptCaller, seed int64) *ai.Tactician {
	t.Helper()
	rl := roller(seed)
	return ai.NewTactician(r, b, ai.DefaultRegistry(caller, rl), rl, zap.NewNop())
}

func TestTactician_AttacksLivingHero(t *testing.T) {
	r := arena(t)
	tac := tactician(t, r, nil, nil, 3)
	d, err := tac.Decide(r.At(golem))
	require.NoError(t, err)
	assert.Equal(t, combat.ActionAttack, d.Kind)
	assert.Equal(t, ai.DefaultDomainID, d.Domain)
	assert.True(t, r.At(d.Target).IsHero())
}

func TestTactician_NoLivingHero(t *testing.T) {
	r := arena(t)
	for _, h := range r.Heroes() {
		h.HP = 0
	}
	_, err := tactician(t, r, nil, nil, 1).Decide(r.At(golem))
	assert.True(t, errors.Is(err, ai.ErrNoTarget))
}

func TestProperty_ProvokeExclusivity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := arena(t)
		seed := rapid.Int64().Draw(rt, "seed")
		provoker := rapid.IntRange(0, 2).Draw(rt, "provoker")
		ref := combat.Ref{Side: combat.SideHeroes, Index: provoker}
		r.At(golem).ProvokedBy = &ref
		if rapid.Bool().Draw(rt, "boss") {
			r.At(golem).Boss = &combat.BossState{Title: "GIGANTE", Cooldown: 1}
		}

		d, err := tactician(t, r, nil, nil, seed).Decide(r.At(golem))
		if err != nil {
			rt.Fatalf("decide: %v", err)
		}
		if d.Target != ref {
			rt.Fatalf("provoked by %s but targeted %s", ref, d.Target)
		}
	})
}

func TestTactician_BossSpecialWhenReady(t *testing.T) {
	r := arena(t)
	boss := r.At(golem)
	boss.Boss = &combat.BossState{Title: "REY_DRAGON", Cooldown: 2, TurnsUntilSpecial: 1}
	tac := tactician(t, r, nil, nil, 9)

	d, err := tac.Decide(boss)
	require.NoError(t, err)
	assert.Equal(t, combat.ActionAttack, d.Kind)

	boss.Boss.EndTurn()
	d, err = tac.Decide(boss)
	require.NoError(t, err)
	assert.Equal(t, combat.ActionSpecial, d.Kind)
}

func TestTactician_TemplateDomainAndScope(t *testing.T) {
	tmpl := &npc.Template{
		ID: "GOLEM", Name: "Golem", AIDomain: "scripted",
		Stats: character.StatBlock{HP: "30", MP: "0", Attack: "23", Defense: "0", Speed: "30"},
	}
	b, err := npc.NewBestiary([]*npc.Template{tmpl})
	require.NoError(t, err)
	r := arena(t)
	caller := &fakeCaller{results: map[string]lua.LValue{ai.ChooseTargetHook: lua.LString("heroes[2]")}}

	d, err := tactician(t, r, b, caller, 1).Decide(r.At(golem))
	require.NoError(t, err)
	assert.Equal(t, "scripted", d.Domain)
	assert.Equal(t, combat.Ref{Side: combat.SideHeroes, Index: 2}, d.Target)
	assert.Contains(t, caller.calls, "GOLEM:"+ai.ChooseTargetHook)
}

func TestTactician_UnknownDomainFallsBack(t *testing.T) {
	tmpl := &npc.Template{
		ID: "GOLEM", Name: "Golem", AIDomain: "berserker",
		Stats: character.StatBlock{HP: "30", MP: "0", Attack: "23", Defense: "0", Speed: "30"},
	}
	b, err := npc.NewBestiary([]*npc.Template{tmpl})
	require.NoError(t, err)
	r := arena(t)
	core, logs := observer.New(zap.WarnLevel)
	rl := roller(1)
	tac := ai.NewTactician(r, b, ai.DefaultRegistry(nil, rl), rl, zap.New(core))

	d, err := tac.Decide(r.At(golem))
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultDomainID, d.Domain)
	assert.Equal(t, 1, logs.FilterMessage("unknown ai domain, using default").Len())
}

func TestTactician_PanicsOnHero(t *testing.T) {
	r := arena(t)
	tac := tactician(t, r, nil, nil, 1)
	assert.Panics(t, func() { _, _ = tac.Decide(r.Heroes()[0]) })
}
