package battle

import (
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/scripting"
)

// bindScripts points the engine.* callbacks of mgr at this battle's roster.
// Combatants are addressed by their ref string ("heroes[0]").
func (s *Session) bindScripts(mgr *scripting.Manager) {
	mgr.GetCombatant = func(uid string) *scripting.CombatantInfo {
		ref, ok := combat.ParseRef(uid)
		if !ok {
			return nil
		}
		c := s.roster.At(ref)
		if c == nil {
			return nil
		}
		return combatantInfo(ref, c)
	}
	mgr.GetCombatants = func() []*scripting.CombatantInfo {
		var out []*scripting.CombatantInfo
		for _, side := range []combat.Side{combat.SideHeroes, combat.SideEnemies} {
			for i, c := range s.roster.Side(side) {
				out = append(out, combatantInfo(combat.Ref{Side: side, Index: i}, c))
			}
		}
		return out
	}
	mgr.ApplyCondition = func(uid, condID string, turns int) error {
		ref, ok := combat.ParseRef(uid)
		if !ok {
			return fmt.Errorf("unknown combatant %q", uid)
		}
		c := s.roster.At(ref)
		if c == nil || !c.IsAlive() {
			return fmt.Errorf("combatant %q is not in play", uid)
		}
		def, ok := s.deps.Conditions.Get(condID)
		if !ok {
			return fmt.Errorf("unknown condition %q", condID)
		}
		return c.Conditions.Apply(def, turns)
	}
	mgr.Broadcast = func(msg string) {
		s.emit(Event{Kind: EventScript, Narrative: msg})
	}
}

func combatantInfo(ref combat.Ref, c *combat.Combatant) *scripting.CombatantInfo {
	kind := "enemy"
	if c.IsHero() {
		kind = "hero"
	}
	info := &scripting.CombatantInfo{
		UID:     ref.String(),
		Name:    c.Name,
		Kind:    kind,
		HP:      c.HP,
		MaxHP:   c.MaxHP,
		MP:      c.MP,
		MaxMP:   c.MaxMP,
		Attack:  c.Attack,
		Defense: c.Defense,
		Speed:   c.Speed,
		Blocked: c.Conditions.Blocked(),
	}
	for _, ac := range c.Conditions.All() {
		info.Conditions = append(info.Conditions, ac.Def.ID)
	}
	return info
}
