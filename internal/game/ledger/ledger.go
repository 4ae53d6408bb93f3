// Package ledger records applied battle actions as before/after state pairs
// so they can be undone and redone.
package ledger

import "github.com/cory-johannsen/turnbattle/internal/game/combat"

// Change is the before and after state of one roster slot.
type Change struct {
	Ref    combat.Ref
	Name   string
	Before combat.State
	After  combat.State
}

// ItemChange is the before and after count of one pouch entry.
type ItemChange struct {
	Owner  combat.Ref
	Item   string
	Before int
	After  int
}

// Record is one applied action. A Record is immutable once created.
type Record struct {
	Description string
	Kind        combat.ActionKind
	Actor       Change
	// Targets holds every other slot the action changed, in slot order.
	Targets []Change
	Item    *ItemChange
}

// Changes returns the actor change followed by the target changes.
func (r Record) Changes() []Change {
	out := make([]Change, 0, 1+len(r.Targets))
	out = append(out, r.Actor)
	return append(out, r.Targets...)
}

// Diff builds a Record from full-roster captures taken around an action.
// Every slot whose state changed, other than the actor, becomes a target.
//
// Precondition: before and after were captured from the same roster.
func Diff(desc string, kind combat.ActionKind, actor combat.Ref, roster *combat.Roster, before, after map[combat.Ref]combat.State) Record {
	rec := Record{Description: desc, Kind: kind}
	name := func(ref combat.Ref) string {
		if c := roster.At(ref); c != nil {
			return c.Name
		}
		return ""
	}
	rec.Actor = Change{Ref: actor, Name: name(actor), Before: before[actor], After: after[actor]}
	for _, side := range []combat.Side{combat.SideHeroes, combat.SideEnemies} {
		for i := range roster.Side(side) {
			ref := combat.Ref{Side: side, Index: i}
			if ref == actor || before[ref].Equal(after[ref]) {
				continue
			}
			rec.Targets = append(rec.Targets, Change{Ref: ref, Name: name(ref), Before: before[ref], After: after[ref]})
		}
	}
	return rec
}

// Ledger is a pair of stacks of Records. It is not safe for concurrent use.
//
// Invariant: recording a new action empties the redo stack.
type Ledger struct {
	undo []Record
	redo []Record
}

// New returns an empty Ledger.
func New() *Ledger { return &Ledger{} }

// Record pushes r onto the undo stack and clears the redo stack.
func (l *Ledger) Record(r Record) {
	l.undo = append(l.undo, r)
	l.redo = l.redo[:0]
}

// Undo pops the most recent record and moves it to the redo stack. The
// caller restores every Before state.
//
// Postcondition: ok is false and nothing changes when the undo stack is empty.
func (l *Ledger) Undo() (Record, bool) {
	if len(l.undo) == 0 {
		return Record{}, false
	}
	r := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, r)
	return r, true
}

// Redo pops the most recently undone record back onto the undo stack. The
// caller restores every After state.
//
// Postcondition: ok is false and nothing changes when the redo stack is empty.
func (l *Ledger) Redo() (Record, bool) {
	if len(l.redo) == 0 {
		return Record{}, false
	}
	r := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, r)
	return r, true
}

// CanUndo reports whether Undo would succeed.
func (l *Ledger) CanUndo() bool { return len(l.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (l *Ledger) CanRedo() bool { return len(l.redo) > 0 }

// Clear empties both stacks.
func (l *Ledger) Clear() {
	l.undo = nil
	l.redo = nil
}

// Len returns the number of undoable records.
func (l *Ledger) Len() int { return len(l.undo) }
