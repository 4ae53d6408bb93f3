package inventory

import (
	"fmt"
	"sort"
)

// Catalog is the read-only table of item definitions consumed by the combat
// resolver. Build it once at startup and share it; nothing mutates it after
// construction.
type Catalog struct {
	items map[string]*ItemDef
}

// NewCatalog builds a Catalog from defs.
//
// Precondition: every def must be non-nil.
// Postcondition: Returns a Catalog, or an error on a duplicate ID or an invalid def.
func NewCatalog(defs []*ItemDef) (*Catalog, error) {
	c := &Catalog{items: make(map[string]*ItemDef, len(defs))}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("inventory: item %q: %w", d.ID, err)
		}
		if _, exists := c.items[d.ID]; exists {
			return nil, fmt.Errorf("inventory: item ID %q already registered", d.ID)
		}
		c.items[d.ID] = d
	}
	return c, nil
}

// DefaultCatalog returns the built-in item table.
//
// Postcondition: Returns a Catalog holding every DefaultItems entry.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultItems())
	if err != nil {
		panic(fmt.Sprintf("inventory: built-in catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog loads item YAML from dir into a Catalog.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns a Catalog or the first load/validation error.
func LoadCatalog(dir string) (*Catalog, error) {
	defs, err := LoadItems(dir)
	if err != nil {
		return nil, err
	}
	return NewCatalog(defs)
}

// DefaultItems returns fresh copies of the built-in item definitions.
func DefaultItems() []*ItemDef {
	return []*ItemDef{
		{ID: "Poción", Category: CategoryPotion, Effect: EffectHealHP, Description: "Restaura 30 HP", Magnitude: 30, Target: TargetSelf},
		{ID: "Poción Fuerte", Category: CategoryPotion, Effect: EffectHealHP, Description: "Restaura 60 HP", Magnitude: 60, Target: TargetSelf},
		{ID: "Poción de Vida", Category: CategoryPotion, Effect: EffectHealHP, Description: "Restaura 50 HP", Magnitude: 50, Target: TargetSelf},
		{ID: "Poción de Maná", Category: CategoryPotion, Effect: EffectRestoreMP, Description: "Restaura 30 MP", Magnitude: 30, Target: TargetSelf},
		{ID: "Éter", Category: CategoryPotion, Effect: EffectRestoreMP, Description: "Restaura 50 MP", Magnitude: 50, Target: TargetSelf},
		{ID: "Elixir", Category: CategoryElixir, Effect: EffectRestoreAll, Description: "Restaura todo HP y MP", Magnitude: 999, Target: TargetSelf},
		{ID: "Antídoto", Category: CategoryAntidote, Effect: EffectCleanse, Description: "Cura efectos negativos", Magnitude: 1, Target: TargetSelf},
		{ID: "Bomba", Category: CategoryBomb, Effect: EffectDamage, Description: "Causa 40 daño a enemigos", Magnitude: 40, Target: TargetEnemy},
		{ID: "Bola de Hielo", Category: CategorySpellScroll, Effect: EffectDamage, Description: "Hechizo hielo 25 daño", Magnitude: 25, Target: TargetEnemy},
		{ID: "Espada Sagrada", Category: CategoryEquipment, Effect: EffectRaiseAttack, Description: "Aumenta ataque en 30", Magnitude: 30, Target: TargetSelf},
		{ID: "Escudo Magnífico", Category: CategoryEquipment, Effect: EffectRaiseDefense, Description: "Aumenta defensa en 20", Magnitude: 20, Target: TargetSelf},
		{ID: "Armadura Plateada", Category: CategoryEquipment, Effect: EffectRaiseDefense, Description: "Aumenta defensa en 15", Magnitude: 15, Target: TargetSelf},
	}
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (c *Catalog) Item(id string) (*ItemDef, bool) {
	d, ok := c.items[id]
	return d, ok
}

// All returns every definition sorted by ID.
func (c *Catalog) All() []*ItemDef {
	out := make([]*ItemDef, 0, len(c.items))
	for _, d := range c.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.items) }
