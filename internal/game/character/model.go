// Package character defines hero class templates and the factory that rolls
// a new hero's stats from them.
package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// StatBlock describes each stat as a roll expression: a "lo-hi" range, a
// dice expression such as "1d20+9", or a constant.
type StatBlock struct {
	HP      string `yaml:"hp"`
	MP      string `yaml:"mp"`
	Attack  string `yaml:"attack"`
	Defense string `yaml:"defense"`
	Speed   string `yaml:"speed"`
}

// Stats is a rolled StatBlock.
type Stats struct {
	HP, MP, Attack, Defense, Speed int
}

func (s StatBlock) fields() []struct{ name, expr string } {
	return []struct{ name, expr string }{
		{"hp", s.HP}, {"mp", s.MP}, {"attack", s.Attack}, {"defense", s.Defense}, {"speed", s.Speed},
	}
}

// Validate checks that every expression parses, can never go negative, and
// that HP is always positive.
//
// Postcondition: returns nil iff Roll cannot fail or yield invalid stats.
func (s StatBlock) Validate() error {
	var errs []error
	for _, f := range s.fields() {
		e, err := dice.Parse(f.expr)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
			continue
		}
		lo, _ := e.Bounds()
		if lo < 0 {
			errs = append(errs, fmt.Errorf("%s: %q can roll below zero", f.name, f.expr))
		}
		if f.name == "hp" && lo < 1 {
			errs = append(errs, fmt.Errorf("hp: %q can roll below one", f.expr))
		}
	}
	return errors.Join(errs...)
}

// Roll draws every stat with roller.
//
// Precondition: Validate returned nil.
func (s StatBlock) Roll(roller *dice.Roller) Stats {
	roll := func(expr string) int { return roller.Roll(dice.MustParse(expr)).Total() }
	return Stats{
		HP:      roll(s.HP),
		MP:      roll(s.MP),
		Attack:  roll(s.Attack),
		Defense: roll(s.Defense),
		Speed:   roll(s.Speed),
	}
}

// Contains reports whether st lies inside every bound of the block.
//
// Precondition: Validate returned nil.
func (s StatBlock) Contains(st Stats) bool {
	vals := []int{st.HP, st.MP, st.Attack, st.Defense, st.Speed}
	for i, f := range s.fields() {
		lo, hi := dice.MustParse(f.expr).Bounds()
		if vals[i] < lo || vals[i] > hi {
			return false
		}
	}
	return true
}

// ClassTemplate is a hero class loaded from content/classes/*.yaml.
type ClassTemplate struct {
	// ID is the class key or snapshot tag ("warrior" or "GUERRERO").
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Stats       StatBlock `yaml:"stats"`
}

// Class resolves the template ID to a combat class.
func (t *ClassTemplate) Class() (combat.Class, bool) { return combat.ParseClass(t.ID) }

// Validate checks the template invariants, collecting every violation.
//
// Precondition: t must not be nil.
func (t *ClassTemplate) Validate() error {
	var errs []error
	if _, ok := t.Class(); !ok {
		errs = append(errs, fmt.Errorf("id %q is not a hero class", t.ID))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if err := t.Stats.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("class template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// Classes maps each hero class to its template.
type Classes map[combat.Class]*ClassTemplate

// DefaultClasses returns the built-in class table.
func DefaultClasses() Classes {
	return Classes{
		combat.ClassMage: {ID: "mage", Name: "Mago", Description: "Utiliza hechizos poderosos para atacar a distancia",
			Stats: StatBlock{HP: "50-100", MP: "150-300", Attack: "30-40", Defense: "10-25", Speed: "20-40"}},
		combat.ClassDruid: {ID: "druid", Name: "Druida", Description: "Controla la naturaleza y puede sanar a sus aliados",
			Stats: StatBlock{HP: "80-160", MP: "120-250", Attack: "25-40", Defense: "18-35", Speed: "20-45"}},
		combat.ClassWarrior: {ID: "warrior", Name: "Guerrero", Description: "Especialista en combate cuerpo a cuerpo con gran fuerza y defensa",
			Stats: StatBlock{HP: "180-300", MP: "10-60", Attack: "35-55", Defense: "20-35", Speed: "15-35"}},
		combat.ClassPaladin: {ID: "paladin", Name: "Paladín", Description: "Combina habilidades de combate y magia sagrada para proteger a sus aliados",
			Stats: StatBlock{HP: "100-200", MP: "50-100", Attack: "30-50", Defense: "25-45", Speed: "15-40"}},
	}
}

// LoadClasses reads every *.yaml file in dir as a ClassTemplate, layered
// over DefaultClasses so a directory may override only some classes.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the merged table or an error naming the bad file.
func LoadClasses(dir string) (Classes, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading class dir %q: %w", dir, err)
	}
	classes := DefaultClasses()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var tmpl ClassTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := tmpl.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		class, _ := tmpl.Class()
		classes[class] = &tmpl
	}
	return classes, nil
}
