package ai

import "github.com/cory-johannsen/turnbattle/internal/game/combat"

// BuildWorldState constructs a WorldState snapshot from roster for the enemy at self.
//
// Precondition: roster must be non-nil and self must address an existing slot.
// Postcondition: ws.Self.Ref == self; every roster slot is represented.
func BuildWorldState(roster *combat.Roster, self combat.Ref, scope string) *WorldState {
	me := roster.At(self)
	if me == nil {
		panic("ai.BuildWorldState: precondition violated: no combatant at " + self.String())
	}
	ws := &WorldState{Self: &SelfState{
		CombatantState: snapshot(self, me),
		Scope:          scope,
		Boss:           me.IsBoss(),
	}}
	if me.Boss != nil {
		ws.Self.SpecialReady = me.Boss.SpecialReady()
	}
	if p := roster.Resolve(me.ProvokedBy); p != nil {
		ref := roster.RefOf(p)
		ws.Self.Provoker = &ref
	}
	for _, side := range []combat.Side{combat.SideHeroes, combat.SideEnemies} {
		for i, c := range roster.Side(side) {
			st := snapshot(combat.Ref{Side: side, Index: i}, c)
			ws.Combatants = append(ws.Combatants, &st)
		}
	}
	return ws
}

func snapshot(ref combat.Ref, c *combat.Combatant) CombatantState {
	return CombatantState{
		Ref:     ref,
		Name:    c.Name,
		Hero:    c.IsHero(),
		HP:      c.HP,
		MaxHP:   c.MaxHP,
		Defense: c.Defense,
		Dead:    !c.IsAlive(),
	}
}
