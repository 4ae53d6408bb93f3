package npc

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// Bestiary holds the enemy and boss templates of a battle and hands out
// unique display names as it spawns. It is not safe for concurrent use.
type Bestiary struct {
	templates map[string]*Template
	spawned   map[string]int
}

// NewBestiary indexes templates by ID.
//
// Precondition: every template must be non-nil.
// Postcondition: Returns a Bestiary, or an error on a duplicate ID or invalid template.
func NewBestiary(templates []*Template) (*Bestiary, error) {
	b := &Bestiary{templates: make(map[string]*Template, len(templates)), spawned: make(map[string]int)}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.templates[t.ID]; dup {
			return nil, fmt.Errorf("npc template ID %q already registered", t.ID)
		}
		b.templates[t.ID] = t
	}
	return b, nil
}

// DefaultBestiary returns a Bestiary over DefaultTemplates.
func DefaultBestiary() *Bestiary {
	b, err := NewBestiary(DefaultTemplates())
	if err != nil {
		panic(fmt.Sprintf("npc: built-in templates are invalid: %v", err))
	}
	return b
}

// Get returns the template with id.
func (b *Bestiary) Get(id string) (*Template, bool) {
	t, ok := b.templates[id]
	return t, ok
}

// IDs returns the template IDs of regular enemies (bosses false) or bosses (bosses true), sorted.
func (b *Bestiary) IDs(bosses bool) []string {
	var out []string
	for id, t := range b.templates {
		if t.Boss == bosses {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// TemplateFor finds the template a combatant was spawned from: the boss
// title for bosses, the enemy type otherwise.
func (b *Bestiary) TemplateFor(c *combat.Combatant) (*Template, bool) {
	if c.Boss != nil {
		return b.Get(c.Boss.Title)
	}
	return b.Get(string(c.EnemyType))
}

// Spawn creates an enemy from template id. The first spawn of a template
// takes its Name; later ones get " 2", " 3", ... appended.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns a new enemy or an error for an unknown id.
func (b *Bestiary) Spawn(id string, roller *dice.Roller) (*combat.Combatant, error) {
	t, ok := b.templates[id]
	if !ok {
		return nil, fmt.Errorf("npc.Bestiary.Spawn: unknown template %q", id)
	}
	b.spawned[id]++
	name := t.Name
	if n := b.spawned[id]; n > 1 {
		name = fmt.Sprintf("%s %d", t.Name, n)
	}
	return Spawn(name, t, roller)
}

// Taunt returns a taunt line for c when its template's chance fires.
//
// Postcondition: ok is false when c has no template, no taunts, or the roll misses.
func (b *Bestiary) Taunt(c *combat.Combatant, roller *dice.Roller) (string, bool) {
	t, ok := b.TemplateFor(c)
	if !ok || len(t.Taunts) == 0 || t.TauntChance <= 0 {
		return "", false
	}
	if roller.Pick("taunt chance", 100) >= t.TauntChance {
		return "", false
	}
	return t.Taunts[roller.Pick("taunt line", len(t.Taunts))], true
}
