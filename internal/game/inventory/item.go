// Package inventory provides the item catalog, the per-hero pouch and the
// starting kits handed out at battle setup.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Category constants for ItemDef.Category.
const (
	CategoryPotion      = "potion"
	CategoryElixir      = "elixir"
	CategoryAntidote    = "antidote"
	CategoryBomb        = "bomb"
	CategoryEquipment   = "equipment"
	CategorySpellScroll = "spell_scroll"
)

// Effect constants for ItemDef.Effect.
const (
	EffectHealHP       = "heal_hp"
	EffectRestoreMP    = "restore_mp"
	EffectRestoreAll   = "restore_all"
	EffectCleanse      = "cleanse"
	EffectDamage       = "damage"
	EffectRaiseAttack  = "raise_attack"
	EffectRaiseDefense = "raise_defense"
)

// Target constants for ItemDef.Target.
const (
	TargetSelf  = "self"
	TargetEnemy = "enemy"
)

var validCategories = map[string]bool{
	CategoryPotion:      true,
	CategoryElixir:      true,
	CategoryAntidote:    true,
	CategoryBomb:        true,
	CategoryEquipment:   true,
	CategorySpellScroll: true,
}

var validEffects = map[string]bool{
	EffectHealHP:       true,
	EffectRestoreMP:    true,
	EffectRestoreAll:   true,
	EffectCleanse:      true,
	EffectDamage:       true,
	EffectRaiseAttack:  true,
	EffectRaiseDefense: true,
}

// ItemDef defines the static properties of a catalog item loaded from YAML.
// ID doubles as the display name and the pouch key.
type ItemDef struct {
	ID          string `yaml:"id"`
	Category    string `yaml:"category"`
	Effect      string `yaml:"effect"`
	Description string `yaml:"description"`
	Magnitude   int    `yaml:"magnitude"`
	Target      string `yaml:"target"`
}

// NeedsEnemyTarget reports whether using the item requires picking a living enemy.
func (d *ItemDef) NeedsEnemyTarget() bool { return d.Target == TargetEnemy }

// String renders the item the way the catalog listing shows it.
func (d *ItemDef) String() string {
	return fmt.Sprintf("%s (%s) - %s", d.ID, d.Category, d.Description)
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if !validCategories[d.Category] {
		errs = append(errs, fmt.Errorf("Category must be one of potion, elixir, antidote, bomb, equipment, spell_scroll; got %q", d.Category))
	}
	if !validEffects[d.Effect] {
		errs = append(errs, fmt.Errorf("unknown Effect %q", d.Effect))
	}
	if d.Magnitude < 0 {
		errs = append(errs, errors.New("Magnitude must be >= 0"))
	}
	if d.Target != TargetSelf && d.Target != TargetEnemy {
		errs = append(errs, fmt.Errorf("Target must be self or enemy; got %q", d.Target))
	}
	if d.Effect == EffectDamage && d.Target != TargetEnemy {
		errs = append(errs, errors.New("damage items must target an enemy"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// ItemDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}
