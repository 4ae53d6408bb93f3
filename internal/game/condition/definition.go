// Package condition models timed status effects (paralysis, sleep) that can
// cost a combatant its turn.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Built-in condition IDs.
const (
	Paralyzed = "paralyzed"
	Asleep    = "asleep"
)

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// BlocksTurn marks conditions that consume the holder's turn while active.
	BlocksTurn bool `yaml:"blocks_turn"`
	// Priority orders blocking conditions; the lowest value ticks first.
	Priority int `yaml:"priority"`
	// Cleansable conditions are removed by cleanse effects.
	Cleansable bool `yaml:"cleansable"`
}

// Validate checks that the ConditionDef satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (d *ConditionDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if d.Priority < 0 {
		errs = append(errs, errors.New("Priority must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("condition validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// DefaultRegistry returns a Registry holding the paralyzed and asleep
// conditions. Paralysis ticks before sleep.
//
// Postcondition: Get(Paralyzed) and Get(Asleep) both succeed.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(&ConditionDef{
		ID:          Paralyzed,
		Name:        "Paralyzed",
		Description: "Cannot act until the paralysis wears off.",
		BlocksTurn:  true,
		Priority:    0,
		Cleansable:  true,
	})
	reg.Register(&ConditionDef{
		ID:          Asleep,
		Name:        "Asleep",
		Description: "Sleeping through the fight.",
		BlocksTurn:  true,
		Priority:    1,
		Cleansable:  true,
	})
	return reg
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// MustGet returns the ConditionDef for id and panics when it is missing.
func (r *Registry) MustGet(id string) *ConditionDef {
	d, ok := r.defs[id]
	if !ok {
		panic(fmt.Sprintf("condition: %q is not registered", id))
	}
	return d
}

// All returns the registered ConditionDefs ordered by priority, then ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LoadDirectory reads every *.yaml file in dir on top of DefaultRegistry, so
// content files can reword or re-prioritise the built-in conditions.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid condition in %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
