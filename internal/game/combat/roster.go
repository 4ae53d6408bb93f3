package combat

import (
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/condition"
)

// Roster is the arena holding both sides of a battle. Relations between
// combatants are Refs into it, so a slot can be replaced without leaving a
// dangling pointer behind.
//
// Slots are fixed for the life of the battle; only Replace swaps an occupant.
type Roster struct {
	heroes     []*Combatant
	enemies    []*Combatant
	conditions *condition.Registry
}

// NewRoster builds a roster. Names must be unique within a side.
//
// Precondition: conds must be non-nil; every combatant must be non-nil.
// Postcondition: Returns a Roster or an error naming the duplicate or misplaced combatant.
func NewRoster(heroes, enemies []*Combatant, conds *condition.Registry) (*Roster, error) {
	if conds == nil {
		panic("combat: NewRoster precondition violated: nil condition registry")
	}
	if err := checkSide(heroes, KindHero); err != nil {
		return nil, fmt.Errorf("heroes: %w", err)
	}
	if err := checkSide(enemies, KindEnemy); err != nil {
		return nil, fmt.Errorf("enemies: %w", err)
	}
	return &Roster{heroes: heroes, enemies: enemies, conditions: conds}, nil
}

func checkSide(cs []*Combatant, kind Kind) error {
	if len(cs) == 0 {
		return fmt.Errorf("roster must not be empty")
	}
	seen := make(map[string]bool, len(cs))
	for i, c := range cs {
		if c == nil {
			return fmt.Errorf("slot %d is nil", i)
		}
		if c.Kind != kind {
			return fmt.Errorf("%q is on the wrong side", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate name %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Conditions returns the registry used for status definitions.
func (r *Roster) Conditions() *condition.Registry { return r.conditions }

// Heroes returns the hero slots. The slice is shared; do not append to it.
func (r *Roster) Heroes() []*Combatant { return r.heroes }

// Enemies returns the enemy slots. The slice is shared; do not append to it.
func (r *Roster) Enemies() []*Combatant { return r.enemies }

// Side returns the slots of s.
func (r *Roster) Side(s Side) []*Combatant {
	if s == SideHeroes {
		return r.heroes
	}
	return r.enemies
}

// Living returns the living combatants of s in slot order.
func (r *Roster) Living(s Side) []*Combatant {
	var out []*Combatant
	for _, c := range r.Side(s) {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// Fallen returns the dead combatants of s in slot order.
func (r *Roster) Fallen(s Side) []*Combatant {
	var out []*Combatant
	for _, c := range r.Side(s) {
		if !c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// AnyAlive reports whether s has at least one living combatant.
func (r *Roster) AnyAlive(s Side) bool {
	for _, c := range r.Side(s) {
		if c.IsAlive() {
			return true
		}
	}
	return false
}

// ProvokeAllCost returns the MP a hero pays for SkillProvokeAll against the
// enemies alive right now.
func (r *Roster) ProvokeAllCost() int {
	return ProvokeAllCostPerEnemy * len(r.Living(SideEnemies))
}

// At returns the combatant at ref, or nil when the slot does not exist.
func (r *Roster) At(ref Ref) *Combatant {
	cs := r.Side(ref.Side)
	if ref.Index < 0 || ref.Index >= len(cs) {
		return nil
	}
	return cs[ref.Index]
}

// Resolve follows a relation. It returns nil for a nil ref, a missing slot,
// or a dead subject.
func (r *Roster) Resolve(ref *Ref) *Combatant {
	if ref == nil {
		return nil
	}
	c := r.At(*ref)
	if c == nil || !c.IsAlive() {
		return nil
	}
	return c
}

// RefOf returns the slot address of c.
//
// Precondition: c must belong to this roster; panics otherwise.
func (r *Roster) RefOf(c *Combatant) Ref {
	for _, s := range []Side{SideHeroes, SideEnemies} {
		for i, x := range r.Side(s) {
			if x == c {
				return Ref{Side: s, Index: i}
			}
		}
	}
	name := "<nil>"
	if c != nil {
		name = c.Name
	}
	panic(fmt.Sprintf("combat: RefOf precondition violated: %s is not in the roster", name))
}

// ByName finds a combatant on side s by name.
func (r *Roster) ByName(s Side, name string) (*Combatant, bool) {
	for _, c := range r.Side(s) {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ReleaseRelations clears every DefendedBy and ProvokedBy that points at
// ref, plus the relations held by the combatant at ref itself.
func (r *Roster) ReleaseRelations(ref Ref) {
	if c := r.At(ref); c != nil {
		c.ClearRelations()
	}
	for _, s := range []Side{SideHeroes, SideEnemies} {
		for _, c := range r.Side(s) {
			if c.DefendedBy != nil && *c.DefendedBy == ref {
				c.DefendedBy = nil
			}
			if c.ProvokedBy != nil && *c.ProvokedBy == ref {
				c.ProvokedBy = nil
			}
		}
	}
}

// Replace puts c into the slot at ref, used by snapshot loading.
//
// Precondition: the slot must exist and c.Kind must match the side.
func (r *Roster) Replace(ref Ref, c *Combatant) {
	cs := r.Side(ref.Side)
	if ref.Index < 0 || ref.Index >= len(cs) || c == nil {
		panic(fmt.Sprintf("combat: Replace precondition violated: bad slot %s", ref))
	}
	cs[ref.Index] = c
}

// Restore writes a captured State back into the combatant at ref.
//
// Precondition: the slot must exist.
// Postcondition: At(ref).Capture().Equal(s).
func (r *Roster) Restore(ref Ref, s State) {
	c := r.At(ref)
	if c == nil {
		panic(fmt.Sprintf("combat: Restore precondition violated: bad slot %s", ref))
	}
	c.HP = s.HP
	c.MP = s.MP
	c.Attack = s.Attack
	c.Defense = s.Defense
	c.Conditions.Set(r.conditions.MustGet(condition.Paralyzed), s.Paralysis)
	c.Conditions.Set(r.conditions.MustGet(condition.Asleep), s.Sleep)
	c.DefendedBy = copyRef(s.DefendedBy)
	c.ProvokedBy = copyRef(s.ProvokedBy)
	if c.Boss != nil {
		c.Boss.TurnsUntilSpecial = s.SpecialIn
	}
}

// CaptureAll snapshots every slot, keyed by ref.
func (r *Roster) CaptureAll() map[Ref]State {
	out := make(map[Ref]State, len(r.heroes)+len(r.enemies))
	for _, s := range []Side{SideHeroes, SideEnemies} {
		for i, c := range r.Side(s) {
			out[Ref{Side: s, Index: i}] = c.Capture()
		}
	}
	return out
}
