package condition

import (
	"fmt"
	"sort"
)

// ActiveCondition tracks one applied condition on a combatant.
type ActiveCondition struct {
	Def            *ConditionDef
	TurnsRemaining int
}

// ActiveSet tracks the timed conditions on one combatant.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds a condition for turns turns. Re-applying keeps the longer timer.
//
// Precondition: def must not be nil; turns > 0.
// Postcondition: Has(def.ID) is true and Remaining(def.ID) == max(previous, turns).
func (s *ActiveSet) Apply(def *ConditionDef, turns int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if turns <= 0 {
		return fmt.Errorf("Apply: turns must be > 0, got %d", turns)
	}
	if existing, ok := s.conditions[def.ID]; ok {
		if turns > existing.TurnsRemaining {
			existing.TurnsRemaining = turns
		}
		return nil
	}
	s.conditions[def.ID] = &ActiveCondition{Def: def, TurnsRemaining: turns}
	return nil
}

// Set forces the timer of def to turns; turns <= 0 removes the condition.
// Used when restoring a recorded state.
//
// Precondition: def must not be nil.
func (s *ActiveSet) Set(def *ConditionDef, turns int) {
	if turns <= 0 {
		delete(s.conditions, def.ID)
		return
	}
	s.conditions[def.ID] = &ActiveCondition{Def: def, TurnsRemaining: turns}
}

// Remove deletes the condition with the given ID. Removing an absent condition is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Cleanse removes every Cleansable condition and returns the removed IDs sorted.
func (s *ActiveSet) Cleanse() []string {
	var removed []string
	for id, ac := range s.conditions {
		if ac.Def.Cleansable {
			removed = append(removed, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// Clear removes every condition.
func (s *ActiveSet) Clear() {
	s.conditions = make(map[string]*ActiveCondition)
}

// ConsumeBlockedTurn is the start-of-turn check. If any turn-blocking
// condition is active, the one with the lowest Priority loses one turn (and
// is removed at zero) and the holder's turn is consumed.
//
// Postcondition: at most one timer is decremented; blocked is true iff one was.
func (s *ActiveSet) ConsumeBlockedTurn() (id string, blocked bool) {
	var pick *ActiveCondition
	for _, ac := range s.conditions {
		if !ac.Def.BlocksTurn || ac.TurnsRemaining <= 0 {
			continue
		}
		if pick == nil || ac.Def.Priority < pick.Def.Priority ||
			(ac.Def.Priority == pick.Def.Priority && ac.Def.ID < pick.Def.ID) {
			pick = ac
		}
	}
	if pick == nil {
		return "", false
	}
	pick.TurnsRemaining--
	if pick.TurnsRemaining <= 0 {
		delete(s.conditions, pick.Def.ID)
	}
	return pick.Def.ID, true
}

// Blocked reports whether any turn-blocking condition is active, without
// consuming anything.
func (s *ActiveSet) Blocked() bool {
	for _, ac := range s.conditions {
		if ac.Def.BlocksTurn && ac.TurnsRemaining > 0 {
			return true
		}
	}
	return false
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Remaining returns the turns left on condition id, or 0 if not present.
func (s *ActiveSet) Remaining(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.TurnsRemaining
	}
	return 0
}

// All returns the active conditions ordered by priority. The pointed-to
// values are shared; callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.Priority < out[j].Def.Priority })
	return out
}
