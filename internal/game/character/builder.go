package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

// Build rolls a new hero of tmpl's class.
//
// Precondition: name must be non-empty; tmpl must be valid; roller non-nil.
// Postcondition: Returns a hero whose stats lie inside tmpl.Stats, at full
// HP and MP with an empty pouch, or a non-nil error.
func Build(name string, tmpl *ClassTemplate, roller *dice.Roller) (*combat.Combatant, error) {
	if name == "" {
		return nil, errors.New("hero name must not be empty")
	}
	if tmpl == nil {
		return nil, errors.New("class template must not be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	class, _ := tmpl.Class()
	st := tmpl.Stats.Roll(roller)
	return combat.NewHero(name, class, st.HP, st.MP, st.Attack, st.Defense, st.Speed), nil
}

// Equip hands the class starting kit to hero.
//
// Precondition: hero must be a hero; kits and catalog non-nil.
// Postcondition: on error the pouch is unchanged.
func Equip(hero *combat.Combatant, kits inventory.Kits, catalog *inventory.Catalog) error {
	kit, ok := kits[hero.Class.Key()]
	if !ok {
		return nil
	}
	if err := kit.Apply(hero.Pouch, catalog); err != nil {
		return fmt.Errorf("equipping %s: %w", hero.Name, err)
	}
	return nil
}

// Recruit builds and equips one hero per (name, class) pair.
//
// Precondition: every class must have a template in classes.
// Postcondition: Returns the heroes in the order given or the first error.
func Recruit(names []string, classList []combat.Class, classes Classes, kits inventory.Kits, catalog *inventory.Catalog, roller *dice.Roller) ([]*combat.Combatant, error) {
	if len(names) != len(classList) {
		return nil, fmt.Errorf("recruit: %d names for %d classes", len(names), len(classList))
	}
	heroes := make([]*combat.Combatant, 0, len(names))
	for i, name := range names {
		tmpl, ok := classes[classList[i]]
		if !ok {
			return nil, fmt.Errorf("recruit: no template for class %s", classList[i])
		}
		h, err := Build(name, tmpl, roller)
		if err != nil {
			return nil, fmt.Errorf("recruit %s: %w", name, err)
		}
		if err := Equip(h, kits, catalog); err != nil {
			return nil, err
		}
		heroes = append(heroes, h)
	}
	return heroes, nil
}
