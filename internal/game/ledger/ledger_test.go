package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/ledger"
)

func rec(desc string) ledger.Record {
	return ledger.Record{Description: desc, Kind: combat.ActionAttack}
}

func TestLedger_EmptyUndoRedo(t *testing.T) {
	l := ledger.New()
	_, ok := l.Undo()
	assert.False(t, ok)
	_, ok = l.Redo()
	assert.False(t, ok)
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
	assert.Equal(t, 0, l.Len())
}

func TestLedger_UndoRedoOrder(t *testing.T) {
	l := ledger.New()
	l.Record(rec("a"))
	l.Record(rec("b"))

	r, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", r.Description)
	assert.True(t, l.CanRedo())

	r, ok = l.Redo()
	require.True(t, ok)
	assert.Equal(t, "b", r.Description)
	assert.Equal(t, 2, l.Len())
}

func TestLedger_RecordClearsRedo(t *testing.T) {
	l := ledger.New()
	l.Record(rec("a"))
	_, _ = l.Undo()
	require.True(t, l.CanRedo())
	l.Record(rec("b"))
	assert.False(t, l.CanRedo())
	assert.Equal(t, 1, l.Len())
}

func TestLedger_Clear(t *testing.T) {
	l := ledger.New()
	l.Record(rec("a"))
	l.Record(rec("b"))
	_, _ = l.Undo()
	l.Clear()
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
}

// battle builds a 2v2 roster where every hero carries a few items.
func battle(t testing.TB) (*combat.Roster, *combat.Resolver) {
	t.Helper()
	heroes := []*combat.Combatant{
		combat.NewHero("Angelo", combat.ClassPaladin, 50, 60, 18, 30, 55),
		combat.NewHero("Jessica", combat.ClassDruid, 40, 80, 20, 10, 25),
	}
	for _, h := range heroes {
		require.NoError(t, h.Pouch.Add("Bomba", 1))
		require.NoError(t, h.Pouch.Add("Poción", 2))
		require.NoError(t, h.Pouch.Add("Escudo Magnífico", 1))
	}
	enemies := []*combat.Combatant{
		combat.NewEnemy("Golem", combat.EnemyGolem, 60, 0, 23, 0, 30),
		combat.NewEnemy("Rey Dragón", combat.EnemyDragon, 80, 0, 15, 5, 30),
	}
	enemies[1].Boss = &combat.BossState{Title: "REY_DRAGON", Cooldown: 1}
	r, err := combat.NewRoster(heroes, enemies, condition.DefaultRegistry())
	require.NoError(t, err)
	return r, combat.NewResolver(r, inventory.DefaultCatalog(), zap.NewNop())
}

func pouches(r *combat.Roster) []map[string]int {
	var out []map[string]int
	for _, h := range r.Heroes() {
		m := map[string]int{}
		for _, s := range h.Pouch.Stacks() {
			m[s.Name] = s.Count
		}
		out = append(out, m)
	}
	return out
}

// act performs one random action and records it; failed actions record nothing.
func act(rt *rapid.T, r *combat.Roster, res *combat.Resolver, l *ledger.Ledger) {
	var living []*combat.Combatant
	for _, side := range []combat.Side{combat.SideHeroes, combat.SideEnemies} {
		living = append(living, r.Living(side)...)
	}
	if len(living) == 0 {
		return
	}
	actor := rapid.SampledFrom(living).Draw(rt, "actor")
	all := append(append([]*combat.Combatant{}, r.Heroes()...), r.Enemies()...)
	target := rapid.SampledFrom(all).Draw(rt, "target")

	before := r.CaptureAll()
	var pouchBefore int
	var item string
	var out combat.Outcome
	var err error
	switch {
	case actor.IsHero() && rapid.Bool().Draw(rt, "use item"):
		item = rapid.SampledFrom([]string{"Bomba", "Poción", "Escudo Magnífico"}).Draw(rt, "item")
		pouchBefore = actor.Pouch.Count(item)
		out, err = res.UseItem(actor, item, target)
	case actor.IsHero():
		skill := rapid.SampledFrom(combat.SkillsFor(actor.Class)).Draw(rt, "skill")
		out, err = res.UseSkill(actor, skill, target)
	case actor.IsBoss() && actor.Boss.SpecialReady():
		out, err = res.Special(actor, target)
		actor.Boss.EndTurn()
	default:
		out, err = res.Attack(actor, target)
		if actor.IsBoss() {
			actor.Boss.EndTurn()
		}
	}
	if err != nil && !actor.IsBoss() {
		return
	}
	actorRef := r.RefOf(actor)
	record := ledger.Diff(out.Narrative, out.Kind, actorRef, r, before, r.CaptureAll())
	if err == nil && item != "" {
		record.Item = &ledger.ItemChange{Owner: actorRef, Item: item, Before: pouchBefore, After: actor.Pouch.Count(item)}
	}
	l.Record(record)
}

func TestProperty_UndoIsInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r, res := battle(t)
		l := ledger.New()
		initial := r.CaptureAll()
		initialPouches := pouches(r)

		n := rapid.IntRange(1, 12).Draw(rt, "actions")
		for i := 0; i < n; i++ {
			act(rt, r, res, l)
		}
		final := r.CaptureAll()
		finalPouches := pouches(r)

		for l.CanUndo() {
			record, _ := l.Undo()
			if err := ledger.Revert(r, record); err != nil {
				rt.Fatalf("revert: %v", err)
			}
		}
		for ref, st := range r.CaptureAll() {
			if !st.Equal(initial[ref]) {
				rt.Fatalf("%s after undo %+v, want %+v", ref, st, initial[ref])
			}
		}
		assert.Equal(rt, initialPouches, pouches(r))

		for l.CanRedo() {
			record, _ := l.Redo()
			if err := ledger.Replay(r, record); err != nil {
				rt.Fatalf("replay: %v", err)
			}
		}
		for ref, st := range r.CaptureAll() {
			if !st.Equal(final[ref]) {
				rt.Fatalf("%s after redo %+v, want %+v", ref, st, final[ref])
			}
		}
		assert.Equal(rt, finalPouches, pouches(r))
	})
}

func TestDiff_OnlyChangedSlots(t *testing.T) {
	r, res := battle(t)
	angelo, golem := r.Heroes()[0], r.Enemies()[0]
	before := r.CaptureAll()
	out, err := res.Attack(angelo, golem)
	require.NoError(t, err)

	record := ledger.Diff(out.Narrative, out.Kind, r.RefOf(angelo), r, before, r.CaptureAll())
	assert.Equal(t, "Angelo", record.Actor.Name)
	require.Len(t, record.Targets, 1)
	assert.Equal(t, "Golem", record.Targets[0].Name)
	assert.Equal(t, 60, record.Targets[0].Before.HP)
	assert.Equal(t, 42, record.Targets[0].After.HP)
	assert.Len(t, record.Changes(), 2)
}

func TestRevert_DeathReleasesAreRestored(t *testing.T) {
	r, res := battle(t)
	angelo, golem := r.Heroes()[0], r.Enemies()[0]
	_, err := res.Provoke(angelo, golem)
	require.NoError(t, err)
	angelo.HP = 1

	before := r.CaptureAll()
	out, err := res.Attack(golem, angelo)
	require.NoError(t, err)
	require.False(t, angelo.IsAlive())
	record := ledger.Diff(out.Narrative, out.Kind, r.RefOf(golem), r, before, r.CaptureAll())

	require.NoError(t, ledger.Revert(r, record))
	assert.Equal(t, 1, angelo.HP)
	require.NotNil(t, golem.ProvokedBy)
	assert.Equal(t, r.RefOf(angelo), *golem.ProvokedBy)
}

func TestRevert_ItemReturned(t *testing.T) {
	r, res := battle(t)
	jessica, golem := r.Heroes()[1], r.Enemies()[0]
	before := r.CaptureAll()
	out, err := res.UseItem(jessica, "Bomba", golem)
	require.NoError(t, err)
	ref := r.RefOf(jessica)
	record := ledger.Diff(out.Narrative, out.Kind, ref, r, before, r.CaptureAll())
	record.Item = &ledger.ItemChange{Owner: ref, Item: "Bomba", Before: 1, After: 0}
	require.False(t, jessica.Pouch.Has("Bomba"))

	require.NoError(t, ledger.Revert(r, record))
	assert.Equal(t, 1, jessica.Pouch.Count("Bomba"))
	assert.Equal(t, 60, golem.HP)

	require.NoError(t, ledger.Replay(r, record))
	assert.Equal(t, 0, jessica.Pouch.Count("Bomba"))
	assert.Equal(t, 20, golem.HP)
}
