package combat

import "fmt"

// Dispatch selects how the actors of a round take their turns.
type Dispatch string

const (
	// DispatchPhased lets every hero act in slot order, then every enemy.
	// The speed order is only announced.
	DispatchPhased Dispatch = "phased"
	// DispatchSpeed lets actors act in the computed speed order.
	DispatchSpeed Dispatch = "speed"
)

// ParseDispatch validates a configured dispatch mode.
func ParseDispatch(s string) (Dispatch, error) {
	switch Dispatch(s) {
	case DispatchPhased, DispatchSpeed:
		return Dispatch(s), nil
	default:
		return "", fmt.Errorf("unknown dispatch mode %q", s)
	}
}

// RoundPlan is the schedule of one round.
type RoundPlan struct {
	// Announced is the speed order shown to the player.
	Announced []*Combatant
	// Turns is the order in which slots are dispatched. Liveness is checked
	// when a slot comes up, not here.
	Turns []Ref
}

// PlanRound computes the schedule of the next round for roster r.
//
// Precondition: r must be non-nil.
// Postcondition: in phased mode Turns lists every slot, heroes first, so a
// hero revived earlier in the round still acts; in speed mode Turns follows
// the announced order of combatants alive at planning time.
func PlanRound(r *Roster, mode Dispatch) RoundPlan {
	plan := RoundPlan{Announced: ComputeOrder(r.Heroes(), r.Enemies())}
	switch mode {
	case DispatchSpeed:
		for _, c := range plan.Announced {
			plan.Turns = append(plan.Turns, r.RefOf(c))
		}
	default:
		for _, s := range []Side{SideHeroes, SideEnemies} {
			for i := range r.Side(s) {
				plan.Turns = append(plan.Turns, Ref{Side: s, Index: i})
			}
		}
	}
	return plan
}
