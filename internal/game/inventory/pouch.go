package inventory

import (
	"errors"
	"fmt"
)

const (
	// MaxDistinct is the number of different item names a pouch can hold.
	MaxDistinct = 5
	// MaxStack is the largest count kept for a single item name.
	MaxStack = 99
)

var (
	// ErrPouchFull is returned when adding a new name to a pouch that already holds MaxDistinct names.
	ErrPouchFull = errors.New("inventory: pouch already holds the maximum number of distinct items")
	// ErrItemAbsent is returned when removing more units than the pouch holds.
	ErrItemAbsent = errors.New("inventory: item not in pouch")
)

// Stack is one pouch entry.
type Stack struct {
	Name  string
	Count int
}

// Pouch is a hero's bounded item bag.
//
// Invariant: at most MaxDistinct names; every count is in [1, MaxStack].
type Pouch struct {
	order  []string
	counts map[string]int
}

// NewPouch creates an empty Pouch.
func NewPouch() *Pouch {
	return &Pouch{counts: make(map[string]int)}
}

// Add puts quantity units of name into the pouch. Adding to an existing
// name caps the count at MaxStack.
//
// Precondition: quantity > 0; name non-empty.
// Postcondition: on success Count(name) == min(previous+quantity, MaxStack);
// on error the pouch is unchanged.
func (p *Pouch) Add(name string, quantity int) error {
	if name == "" {
		return fmt.Errorf("inventory: item name must not be empty")
	}
	if quantity <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", quantity)
	}
	cur, ok := p.counts[name]
	if !ok {
		if len(p.order) >= MaxDistinct {
			return fmt.Errorf("adding %q: %w", name, ErrPouchFull)
		}
		p.order = append(p.order, name)
	}
	p.counts[name] = min(cur+quantity, MaxStack)
	return nil
}

// Remove takes quantity units of name out of the pouch. A count of zero
// removes the entry.
//
// Precondition: quantity > 0.
// Postcondition: on error the pouch is unchanged.
func (p *Pouch) Remove(name string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("inventory: quantity must be > 0, got %d", quantity)
	}
	cur, ok := p.counts[name]
	if !ok || cur < quantity {
		return fmt.Errorf("removing %d of %q: %w", quantity, name, ErrItemAbsent)
	}
	if cur == quantity {
		p.drop(name)
		return nil
	}
	p.counts[name] = cur - quantity
	return nil
}

// SetCount forces the count of name, used when restoring a recorded state.
// A count <= 0 removes the entry.
//
// Postcondition: Count(name) == clamp(count, 0, MaxStack), or an error if a
// new name would exceed MaxDistinct.
func (p *Pouch) SetCount(name string, count int) error {
	if count <= 0 {
		if _, ok := p.counts[name]; ok {
			p.drop(name)
		}
		return nil
	}
	if _, ok := p.counts[name]; !ok {
		if len(p.order) >= MaxDistinct {
			return fmt.Errorf("restoring %q: %w", name, ErrPouchFull)
		}
		p.order = append(p.order, name)
	}
	p.counts[name] = min(count, MaxStack)
	return nil
}

func (p *Pouch) drop(name string) {
	delete(p.counts, name)
	for i, n := range p.order {
		if n == name {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// Count returns the units of name held, or 0.
func (p *Pouch) Count(name string) int { return p.counts[name] }

// Has reports whether at least one unit of name is held.
func (p *Pouch) Has(name string) bool { return p.counts[name] > 0 }

// Len returns the number of distinct names held.
func (p *Pouch) Len() int { return len(p.order) }

// Stacks returns the entries in the order they were first added.
func (p *Pouch) Stacks() []Stack {
	out := make([]Stack, len(p.order))
	for i, n := range p.order {
		out[i] = Stack{Name: n, Count: p.counts[n]}
	}
	return out
}
