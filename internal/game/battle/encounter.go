package battle

import (
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/character"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

// DefaultEncounter returns the demo battle: four warriors against a golem
// and three undead.
//
// Precondition: catalog holds every item handed out.
func DefaultEncounter(catalog *inventory.Catalog) (heroes, enemies []*combat.Combatant, err error) {
	heroes = []*combat.Combatant{
		combat.NewHero("Angelo", combat.ClassWarrior, 50, 25, 18, 30, 55),
		combat.NewHero("Yangus", combat.ClassWarrior, 40, 5, 20, 35, 25),
		combat.NewHero("Hero", combat.ClassWarrior, 40, 5, 20, 35, 25),
		combat.NewHero("Jessica", combat.ClassWarrior, 40, 5, 20, 35, 25),
	}
	kits := [][]inventory.Grant{
		{{Item: "Poción de Vida", Quantity: 5}, {Item: "Poción de Maná", Quantity: 3}, {Item: "Antídoto", Quantity: 2}, {Item: "Elixir", Quantity: 1}, {Item: "Éter", Quantity: 2}},
		{{Item: "Poción de Vida", Quantity: 3}, {Item: "Elixir", Quantity: 1}, {Item: "Poción de Maná", Quantity: 2}, {Item: "Antídoto", Quantity: 1}, {Item: "Éter", Quantity: 1}},
		{{Item: "Poción de Vida", Quantity: 4}, {Item: "Poción de Maná", Quantity: 2}, {Item: "Antídoto", Quantity: 2}, {Item: "Elixir", Quantity: 1}, {Item: "Éter", Quantity: 3}},
		{{Item: "Poción de Vida", Quantity: 3}, {Item: "Antídoto", Quantity: 3}, {Item: "Poción de Maná", Quantity: 2}, {Item: "Elixir", Quantity: 1}, {Item: "Éter", Quantity: 2}},
	}
	for i, h := range heroes {
		kit := inventory.StartingKit{Class: h.Class.Key(), Grants: kits[i]}
		if err := kit.Apply(h.Pouch, catalog); err != nil {
			return nil, nil, fmt.Errorf("equipping %s: %w", h.Name, err)
		}
	}
	enemies = []*combat.Combatant{
		combat.NewEnemy("Golem", combat.EnemyGolem, 30, 0, 23, 0, 30),
		combat.NewEnemy("Esqueleto", combat.EnemyUndead, 25, 0, 12, 0, 21),
		combat.NewEnemy("Esqueleto 2", combat.EnemyUndead, 25, 0, 12, 0, 21),
		combat.NewEnemy("Gengar", combat.EnemyUndead, 25, 0, 12, 0, 21),
	}
	return heroes, enemies, nil
}

// HeroSlot names one recruited hero.
type HeroSlot struct {
	Name  string
	Class combat.Class
}

// Lineup describes a rolled encounter: heroes by class and enemies by
// template ID (regular or boss).
type Lineup struct {
	Heroes  []HeroSlot
	Enemies []string
}

// Content bundles the definition tables a rolled encounter draws from.
type Content struct {
	Classes  character.Classes
	Kits     inventory.Kits
	Catalog  *inventory.Catalog
	Bestiary *npc.Bestiary
}

// DefaultContent returns the built-in tables.
func DefaultContent() Content {
	return Content{
		Classes:  character.DefaultClasses(),
		Kits:     inventory.DefaultKits(),
		Catalog:  inventory.DefaultCatalog(),
		Bestiary: npc.DefaultBestiary(),
	}
}

// Muster rolls every hero and enemy of l.
//
// Precondition: roller must be non-nil.
// Postcondition: heroes carry their class starting kits; enemy names are unique.
func (c Content) Muster(l Lineup, roller *dice.Roller) (heroes, enemies []*combat.Combatant, err error) {
	names := make([]string, len(l.Heroes))
	classes := make([]combat.Class, len(l.Heroes))
	for i, h := range l.Heroes {
		names[i], classes[i] = h.Name, h.Class
	}
	heroes, err = character.Recruit(names, classes, c.Classes, c.Kits, c.Catalog, roller)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range l.Enemies {
		e, err := c.Bestiary.Spawn(id, roller)
		if err != nil {
			return nil, nil, err
		}
		enemies = append(enemies, e)
	}
	return heroes, enemies, nil
}

// DefaultLineup is a mixed party against two regular enemies and a boss.
func DefaultLineup() Lineup {
	return Lineup{
		Heroes: []HeroSlot{
			{Name: "Angelo", Class: combat.ClassWarrior},
			{Name: "Jessica", Class: combat.ClassMage},
			{Name: "Yangus", Class: combat.ClassPaladin},
			{Name: "Hero", Class: combat.ClassDruid},
		},
		Enemies: []string{"ORCO", "NOMUERTO", "REY_DRAGON"},
	}
}
