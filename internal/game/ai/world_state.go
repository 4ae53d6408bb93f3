package ai

import "github.com/cory-johannsen/turnbattle/internal/game/combat"

// CombatantState captures a combatant's combat-relevant state at planning time.
type CombatantState struct {
	Ref     combat.Ref
	Name    string
	Hero    bool
	HP      int
	MaxHP   int
	Defense int
	Dead    bool
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *CombatantState) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// SelfState captures the planning enemy's own state.
type SelfState struct {
	CombatantState
	// Scope is the script scope of the enemy's template.
	Scope string
	// Provoker is the living provoker, if any.
	Provoker     *combat.Ref
	Boss         bool
	SpecialReady bool
}

// WorldState is the snapshot passed to the HTN planner for one enemy.
//
// Invariant: Self must not be nil.
type WorldState struct {
	Self       *SelfState
	Combatants []*CombatantState // every slot of both sides
}

// Foes returns all living combatants of the opposite side from Self.
//
// Postcondition: returned slice contains no dead combatants and no same-side combatants.
func (ws *WorldState) Foes() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.Hero != ws.Self.Hero {
			out = append(out, c)
		}
	}
	return out
}

// Allies returns all living combatants on Self's side, excluding Self.
func (ws *WorldState) Allies() []*CombatantState {
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.Hero == ws.Self.Hero && c.Ref != ws.Self.Ref {
			out = append(out, c)
		}
	}
	return out
}

// Foe returns the living foe at ref, or nil.
func (ws *WorldState) Foe(ref combat.Ref) *CombatantState {
	for _, c := range ws.Foes() {
		if c.Ref == ref {
			return c
		}
	}
	return nil
}

// Nearest returns the first living foe in slot order, or nil.
func (ws *WorldState) Nearest() *CombatantState {
	foes := ws.Foes()
	if len(foes) == 0 {
		return nil
	}
	return foes[0]
}

// Weakest returns the living foe with the lowest HP percentage, or nil.
//
// Postcondition: ties broken by slot order.
func (ws *WorldState) Weakest() *CombatantState {
	foes := ws.Foes()
	if len(foes) == 0 {
		return nil
	}
	weakest := foes[0]
	for _, e := range foes[1:] {
		if e.HPPercent() < weakest.HPPercent() {
			weakest = e
		}
	}
	return weakest
}

// Sturdiest returns the living foe with the highest defense, or nil.
//
// Postcondition: ties broken by slot order.
func (ws *WorldState) Sturdiest() *CombatantState {
	foes := ws.Foes()
	if len(foes) == 0 {
		return nil
	}
	best := foes[0]
	for _, e := range foes[1:] {
		if e.Defense > best.Defense {
			best = e
		}
	}
	return best
}

// Picker chooses a uniform index in [0, n).
type Picker interface {
	Pick(reason string, n int) int
}

// ResolveTarget maps a deterministic or random target token to a foe.
// TargetScript is not handled here; the Planner resolves it.
//
// Postcondition: ok is false when no living foe matches the token.
func (ws *WorldState) ResolveTarget(token string, picker Picker) (combat.Ref, bool) {
	var c *CombatantState
	switch token {
	case TargetNearest:
		c = ws.Nearest()
	case TargetWeakest:
		c = ws.Weakest()
	case TargetSturdiest:
		c = ws.Sturdiest()
	case TargetProvoker:
		if ws.Self.Provoker != nil {
			c = ws.Foe(*ws.Self.Provoker)
		}
	case TargetRandom:
		if foes := ws.Foes(); len(foes) > 0 {
			c = foes[picker.Pick("enemy target", len(foes))]
		}
	}
	if c == nil {
		return combat.Ref{}, false
	}
	return c.Ref, true
}
