// Package npc provides enemy and boss templates and the bestiary that
// spawns them into a battle roster.
package npc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/turnbattle/internal/game/character"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// DefaultCooldown is the boss special cooldown used when a template leaves it unset.
const DefaultCooldown = 2

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	// ID is the enemy type tag (GOLEM, ORCO, ...) or, for bosses, the boss title.
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Type is the enemy type tag written to snapshots. Defaults to ID for
	// regular enemies and to DRAGON for bosses.
	Type  string              `yaml:"type"`
	Stats character.StatBlock `yaml:"stats"`
	Boss  bool                `yaml:"boss"`
	// Cooldown is the number of boss turns between specials; 0 means DefaultCooldown.
	Cooldown int `yaml:"cooldown"`
	// AIDomain names the HTN domain that drives this enemy; empty uses "brute".
	AIDomain string `yaml:"ai_domain"`
	// AIScript is a Lua file, relative to the script dir, loaded into this
	// template's scope. It may define precondition hooks and choose_target.
	AIScript string   `yaml:"ai_script"`
	Taunts   []string `yaml:"taunts"`
	// TauntChance is the percent chance (0-100) to taunt before acting.
	TauntChance int `yaml:"taunt_chance"`
}

// EnemyType resolves the snapshot tag of the template.
func (t *Template) EnemyType() (combat.EnemyType, bool) {
	tag := t.Type
	if tag == "" {
		if t.Boss {
			return combat.EnemyDragon, true
		}
		tag = t.ID
	}
	return combat.ParseEnemyType(tag)
}

// EffectiveCooldown returns the boss cooldown, never below 1.
func (t *Template) EffectiveCooldown() int {
	if t.Cooldown == 0 {
		return DefaultCooldown
	}
	return max(1, t.Cooldown)
}

// Validate checks that the template satisfies its invariants, collecting every violation.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every field is usable by Spawn.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if _, ok := t.EnemyType(); !ok {
		errs = append(errs, fmt.Errorf("type %q is not an enemy type", t.Type))
	}
	if err := t.Stats.Validate(); err != nil {
		errs = append(errs, err)
	}
	if t.Cooldown < 0 {
		errs = append(errs, errors.New("cooldown must be >= 0"))
	}
	if t.Cooldown != 0 && !t.Boss {
		errs = append(errs, errors.New("cooldown is only valid for bosses"))
	}
	if t.TauntChance < 0 || t.TauntChance > 100 {
		errs = append(errs, fmt.Errorf("taunt_chance must be 0-100, got %d", t.TauntChance))
	}
	if len(errs) > 0 {
		return fmt.Errorf("npc template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// LoadTemplateFromBytes parses a single enemy template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// DefaultTemplates returns the built-in enemy and boss tables.
func DefaultTemplates() []*Template {
	enemy := func(id, name, desc, hp, atk, def string, taunts ...string) *Template {
		return &Template{
			ID: id, Name: name, Description: desc,
			Stats:       character.StatBlock{HP: hp, MP: "0", Attack: atk, Defense: def, Speed: "1d20+9"},
			Taunts:      taunts,
			TauntChance: 25,
		}
	}
	boss := func(id, name, desc, hp, mp, atk, def, spd string) *Template {
		return &Template{
			ID: id, Name: name, Description: desc, Boss: true, Cooldown: DefaultCooldown,
			Stats: character.StatBlock{HP: hp, MP: mp, Attack: atk, Defense: def, Speed: spd},
		}
	}
	return []*Template{
		enemy("GOLEM", "Golem", "Criatura de piedra con gran fuerza y defensa", "200-400", "40-60", "30-50",
			"El suelo tiembla bajo sus pasos."),
		enemy("ORCO", "Orco", "Guerrero salvaje y agresivo", "150-300", "30-50", "20-40",
			"¡Grah! ¡Carne fresca!", "¡Los aplastaré!"),
		enemy("TROLL", "Troll", "Gigante con gran resistencia y fuerza", "180-350", "35-55", "25-45",
			"Troll tener hambre."),
		enemy("NOMUERTO", "No muerto", "Espíritu vengativo que ataca sin piedad", "100-250", "25-45", "15-35",
			"Un lamento helado recorre el campo."),
		enemy("DRAGON", "Dragón", "Bestia legendaria con aliento de fuego", "300-600", "50-80", "40-60",
			"Un rugido ensordecedor llena el aire."),
		boss("REY_DRAGON", "Rey Dragón", "Un dragón feroz que escupe fuego.", "300-500", "100-200", "100-500", "300-600", "200-400"),
		boss("NIGROMANTE", "Nigromante", "Maestro de las artes oscuras y la necromancia.", "300-450", "150-250", "70-350", "250-500", "100-200"),
		boss("JEFE_ORCO", "Jefe Orco", "Líder de los orcos con gran poder mágico.", "250-400", "50-100", "80-400", "200-400", "150-300"),
		boss("GIGANTE", "Gigante", "Una criatura enorme con fuerza descomunal.", "200-350", "30-80", "90-450", "250-500", "100-250"),
		boss("DEMONIO", "Demonio", "Ser infernal con habilidades mágicas devastadoras.", "350-600", "200-300", "120-600", "400-700", "250-450"),
	}
}
