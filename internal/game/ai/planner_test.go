package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/ai"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// fakeCaller returns canned hook results and records calls.
type fakeCaller struct {
	results map[string]lua.LValue
	calls   []string
}

func (f *fakeCaller) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	f.calls = append(f.calls, scope+":"+hook)
	if v, ok := f.results[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

func roller(seed int64) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
}

// arena builds Angelo (def 30), Jessica (40/40 hp, def 10), Yangus (def 35)
// against a Golem and an Esqueleto.
func arena(t testing.TB) *combat.Roster {
	t.Helper()
	heroes := []*combat.Combatant{
		combat.NewHero("Angelo", combat.ClassWarrior, 50, 25, 18, 30, 55),
		combat.NewHero("Jessica", combat.ClassMage, 40, 50, 20, 10, 25),
		combat.NewHero("Yangus", combat.ClassWarrior, 40, 5, 20, 35, 25),
	}
	enemies := []*combat.Combatant{
		combat.NewEnemy("Golem", combat.EnemyGolem, 30, 0, 23, 0, 30),
		combat.NewEnemy("Esqueleto", combat.EnemyUndead, 25, 0, 12, 0, 21),
	}
	r, err := combat.NewRoster(heroes, enemies, condition.DefaultRegistry())
	require.NoError(t, err)
	return r
}

var golem = combat.Ref{Side: combat.SideEnemies, Index: 0}

func TestWorldState_Selectors(t *testing.T) {
	r := arena(t)
	r.Heroes()[1].HP = 8
	ws := ai.BuildWorldState(r, golem, "GOLEM")

	assert.Len(t, ws.Foes(), 3)
	assert.Len(t, ws.Allies(), 1)
	assert.Equal(t, "Angelo", ws.Nearest().Name)
	assert.Equal(t, "Jessica", ws.Weakest().Name)
	assert.Equal(t, "Yangus", ws.Sturdiest().Name)

	r.Heroes()[0].HP = 0
	ws = ai.BuildWorldState(r, golem, "GOLEM")
	assert.Equal(t, "Jessica", ws.Nearest().Name, "fallen heroes are skipped")
}

func TestWorldState_ProvokerOnlyWhenAlive(t *testing.T) {
	r := arena(t)
	angelo := combat.Ref{Side: combat.SideHeroes, Index: 0}
	r.At(golem).ProvokedBy = &angelo

	ws := ai.BuildWorldState(r, golem, "")
	require.NotNil(t, ws.Self.Provoker)
	assert.Equal(t, angelo, *ws.Self.Provoker)

	r.At(angelo).HP = 0
	ws = ai.BuildWorldState(r, golem, "")
	assert.Nil(t, ws.Self.Provoker)
}

func TestPlanner_BuiltinPredicate(t *testing.T) {
	r := arena(t)
	r.Enemies()[0].Boss = &combat.BossState{Title: "REY_DRAGON", Cooldown: 2}
	p := ai.NewPlanner(ai.DefaultDomains()[0], nil, roller(1))

	plan, err := p.Plan(ai.BuildWorldState(r, golem, ""))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, ai.ActionSpecial, plan[0].Action)
	assert.Equal(t, combat.SideHeroes, plan[0].Target.Side)
}

func TestPlanner_LuaPrecondition(t *testing.T) {
	d := validDomain()
	d.Operators = append(d.Operators, &ai.Operator{ID: "hit_weak", Action: ai.ActionAttack, Target: ai.TargetWeakest})
	d.Methods = append([]*ai.Method{{TaskID: ai.RootTask, ID: "cruel", Precondition: "feeling_cruel", Subtasks: []string{"hit_weak"}}}, d.Methods...)
	r := arena(t)
	r.Heroes()[2].HP = 1

	caller := &fakeCaller{results: map[string]lua.LValue{"feeling_cruel": lua.LTrue}}
	plan, err := ai.NewPlanner(d, caller, roller(1)).Plan(ai.BuildWorldState(r, golem, "GOLEM"))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, combat.Ref{Side: combat.SideHeroes, Index: 2}, plan[0].Target)
	assert.Equal(t, []string{"GOLEM:feeling_cruel"}, caller.calls)

	caller.results["feeling_cruel"] = lua.LFalse
	plan, err = ai.NewPlanner(d, caller, roller(1)).Plan(ai.BuildWorldState(r, golem, "GOLEM"))
	require.NoError(t, err)
	assert.Equal(t, combat.Ref{Side: combat.SideHeroes, Index: 0}, plan[0].Target, "falls through to nearest")
}

func TestPlanner_ScriptTarget(t *testing.T) {
	scripted := ai.DefaultDomains()[2]
	r := arena(t)
	caller := &fakeCaller{results: map[string]lua.LValue{ai.ChooseTargetHook: lua.LString("heroes[1]")}}

	plan, err := ai.NewPlanner(scripted, caller, roller(1)).Plan(ai.BuildWorldState(r, golem, "GOLEM"))
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, combat.Ref{Side: combat.SideHeroes, Index: 1}, plan[0].Target)
}

func TestPlanner_ScriptTarget_InvalidAnswerFallsBackToRandomHero(t *testing.T) {
	scripted := ai.DefaultDomains()[2]
	r := arena(t)
	r.Heroes()[1].HP = 0
	for _, answer := range []lua.LValue{lua.LString("heroes[1]"), lua.LString("enemies[0]"), lua.LNumber(2), lua.LNil} {
		caller := &fakeCaller{results: map[string]lua.LValue{ai.ChooseTargetHook: answer}}
		plan, err := ai.NewPlanner(scripted, caller, roller(5)).Plan(ai.BuildWorldState(r, golem, "GOLEM"))
		require.NoError(t, err)
		require.Len(t, plan, 1)
		got := r.At(plan[0].Target)
		assert.True(t, got.IsHero() && got.IsAlive(), "answer %v picked %s", answer, got.Name)
	}
}

func TestPlanner_NoFoes_EmptyPlan(t *testing.T) {
	r := arena(t)
	for _, h := range r.Heroes() {
		h.HP = 0
	}
	plan, err := ai.NewPlanner(ai.DefaultDomains()[0], nil, roller(1)).Plan(ai.BuildWorldState(r, golem, ""))
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	reg := ai.NewRegistry()
	require.NoError(t, reg.Register(validDomain(), nil, roller(1)))
	assert.Error(t, reg.Register(validDomain(), nil, roller(1)))
	_, ok := reg.PlannerFor("test")
	assert.True(t, ok)
}

func TestRegistry_ResolveFallsBackToDefault(t *testing.T) {
	reg := ai.DefaultRegistry(nil, roller(1))
	id, p, fellBack, ok := reg.Resolve("no-such-domain")
	require.True(t, ok)
	assert.True(t, fellBack)
	assert.Equal(t, ai.DefaultDomainID, id)
	assert.NotNil(t, p)

	id, _, fellBack, ok = reg.Resolve(ai.DefaultDomainID)
	assert.True(t, ok)
	assert.False(t, fellBack)
	assert.Equal(t, ai.DefaultDomainID, id)
	assert.Contains(t, reg.Domains(), ai.DefaultDomainID)
}

func TestRegistry_RegisterAllStopsAtCollision(t *testing.T) {
	reg := ai.NewRegistry()
	err := reg.RegisterAll([]*ai.Domain{validDomain(), validDomain()}, nil, roller(1))
	assert.Error(t, err)
	assert.Equal(t, []string{"test"}, reg.Domains())
}
