package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// baseKit is the kit file whose items every class receives first.
const baseKit = "base"

// Grant is an item+quantity pair handed out at battle setup.
type Grant struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
}

// StartingKit is the merged list of grants for one hero class.
type StartingKit struct {
	Class  string
	Grants []Grant
}

// kitFile is the YAML structure for content/loadouts/<class>.yaml.
type kitFile struct {
	Class string  `yaml:"class"`
	Items []Grant `yaml:"items"`
}

// Kits maps a lower-case class key ("warrior", "mage", ...) to its merged kit.
type Kits map[string]StartingKit

// DefaultKits returns the built-in kits: three Poción for everyone plus
// class-specific items.
func DefaultKits() Kits {
	base := []Grant{{Item: "Poción", Quantity: 3}}
	return mergeKits(base, map[string][]Grant{
		"warrior": {{"Espada Sagrada", 1}, {"Escudo Magnífico", 1}, {"Poción Fuerte", 2}},
		"mage":    {{"Bola de Hielo", 2}, {"Elixir", 1}},
		"druid":   {{"Antídoto", 2}, {"Elixir", 1}, {"Poción Fuerte", 1}},
		"paladin": {{"Escudo Magnífico", 1}, {"Armadura Plateada", 1}, {"Elixir", 1}},
	})
}

func mergeKits(base []Grant, byClass map[string][]Grant) Kits {
	kits := make(Kits, len(byClass))
	for class, grants := range byClass {
		merged := make([]Grant, 0, len(base)+len(grants))
		merged = append(merged, base...)
		merged = append(merged, grants...)
		kits[class] = StartingKit{Class: class, Grants: merged}
	}
	return kits
}

// LoadKits reads every *.yaml file in dir. The file declaring class "base"
// is prepended to every other kit.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the merged Kits or an error naming the bad file.
func LoadKits(dir string) (Kits, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadKits: cannot read directory %q: %w", dir, err)
	}
	var base []Grant
	byClass := make(map[string][]Grant)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadKits: cannot read file %q: %w", path, err)
		}
		var kf kitFile
		if err := yaml.Unmarshal(data, &kf); err != nil {
			return nil, fmt.Errorf("LoadKits: cannot parse file %q: %w", path, err)
		}
		class := strings.ToLower(strings.TrimSpace(kf.Class))
		if class == "" {
			return nil, fmt.Errorf("LoadKits: %q has no class", path)
		}
		for _, g := range kf.Items {
			if g.Item == "" || g.Quantity <= 0 {
				return nil, fmt.Errorf("LoadKits: %q has an invalid grant %+v", path, g)
			}
		}
		if class == baseKit {
			base = kf.Items
			continue
		}
		byClass[class] = kf.Items
	}
	return mergeKits(base, byClass), nil
}

// Apply adds every grant of the kit to p.
//
// Precondition: p and catalog must be non-nil.
// Postcondition: on error (unknown item or full pouch) p is unchanged.
func (k StartingKit) Apply(p *Pouch, catalog *Catalog) error {
	for _, g := range k.Grants {
		if _, ok := catalog.Item(g.Item); !ok {
			return fmt.Errorf("starting kit %q: unknown item %q", k.Class, g.Item)
		}
	}
	staged := &Pouch{order: append([]string(nil), p.order...), counts: make(map[string]int, len(p.counts))}
	for n, c := range p.counts {
		staged.counts[n] = c
	}
	for _, g := range k.Grants {
		if err := staged.Add(g.Item, g.Quantity); err != nil {
			return fmt.Errorf("starting kit %q: %w", k.Class, err)
		}
	}
	*p = *staged
	return nil
}
