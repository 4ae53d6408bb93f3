package combat

// State is the mutable part of a combatant captured before and after an action.
type State struct {
	HP         int
	MP         int
	Attack     int
	Defense    int
	Paralysis  int
	Sleep      int
	DefendedBy *Ref
	ProvokedBy *Ref
	// SpecialIn is the boss countdown; zero for non-bosses.
	SpecialIn int
}

// Capture snapshots the mutable state of c.
//
// Postcondition: the returned State shares no pointers with c.
func (c *Combatant) Capture() State {
	s := State{
		HP:         c.HP,
		MP:         c.MP,
		Attack:     c.Attack,
		Defense:    c.Defense,
		Paralysis:  c.ParalysisTurns(),
		Sleep:      c.SleepTurns(),
		DefendedBy: copyRef(c.DefendedBy),
		ProvokedBy: copyRef(c.ProvokedBy),
	}
	if c.Boss != nil {
		s.SpecialIn = c.Boss.TurnsUntilSpecial
	}
	return s
}

// Equal reports whether two states are identical, comparing relations by value.
func (s State) Equal(o State) bool {
	return s.HP == o.HP && s.MP == o.MP && s.Attack == o.Attack && s.Defense == o.Defense &&
		s.Paralysis == o.Paralysis && s.Sleep == o.Sleep && s.SpecialIn == o.SpecialIn &&
		refEqual(s.DefendedBy, o.DefendedBy) && refEqual(s.ProvokedBy, o.ProvokedBy)
}

func copyRef(r *Ref) *Ref {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func refEqual(a, b *Ref) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
