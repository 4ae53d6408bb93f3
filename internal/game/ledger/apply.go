package ledger

import (
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// Revert writes every Before state of r back into roster and returns the
// consumed item unit, if any.
//
// Precondition: r was recorded against this roster.
func Revert(roster *combat.Roster, r Record) error {
	for _, ch := range r.Changes() {
		roster.Restore(ch.Ref, ch.Before)
	}
	return setItem(roster, r.Item, func(ic *ItemChange) int { return ic.Before })
}

// Replay writes every After state of r into roster, consuming the item unit
// again. Nothing is re-rolled.
//
// Precondition: r was recorded against this roster.
func Replay(roster *combat.Roster, r Record) error {
	for _, ch := range r.Changes() {
		roster.Restore(ch.Ref, ch.After)
	}
	return setItem(roster, r.Item, func(ic *ItemChange) int { return ic.After })
}

func setItem(roster *combat.Roster, ic *ItemChange, count func(*ItemChange) int) error {
	if ic == nil {
		return nil
	}
	owner := roster.At(ic.Owner)
	if owner == nil || owner.Pouch == nil {
		return fmt.Errorf("ledger: item owner %s has no pouch", ic.Owner)
	}
	if err := owner.Pouch.SetCount(ic.Item, count(ic)); err != nil {
		return fmt.Errorf("ledger: restoring %q for %s: %w", ic.Item, owner.Name, err)
	}
	return nil
}
