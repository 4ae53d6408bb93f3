package combat

// ComputeOrder returns the living combatants ordered by speed, fastest
// first. Ties keep insertion order: heroes before enemies, earlier slots
// before later ones.
//
// Precondition: no element of heroes or enemies is nil.
// Postcondition: every living combatant appears exactly once; dead ones never.
func ComputeOrder(heroes, enemies []*Combatant) []*Combatant {
	pending := make([]*Combatant, 0, len(heroes)+len(enemies))
	for _, c := range heroes {
		if c.IsAlive() {
			pending = append(pending, c)
		}
	}
	for _, c := range enemies {
		if c.IsAlive() {
			pending = append(pending, c)
		}
	}
	order := make([]*Combatant, 0, len(pending))
	for len(pending) > 0 {
		best := 0
		for i := 1; i < len(pending); i++ {
			if pending[i].Speed > pending[best].Speed {
				best = i
			}
		}
		order = append(order, pending[best])
		pending = append(pending[:best], pending[best+1:]...)
	}
	return order
}
