package battle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cory-johannsen/turnbattle/internal/game/character"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

// Content subdirectories read by LoadContent.
const (
	ItemsDir    = "items"
	ClassesDir  = "classes"
	EnemiesDir  = "enemies"
	BossesDir   = "bosses"
	LoadoutsDir = "loadouts"
)

// LoadContent reads the definition tables under dir. A missing
// subdirectory keeps the matching built-in table; enemies and bosses fall
// back independently.
//
// Postcondition: returns a Content whose tables are all non-nil, or the
// first load error.
func LoadContent(dir string) (Content, error) {
	c := DefaultContent()

	if sub, ok, err := contentDir(dir, ItemsDir); err != nil {
		return Content{}, err
	} else if ok {
		if c.Catalog, err = inventory.LoadCatalog(sub); err != nil {
			return Content{}, fmt.Errorf("loading items: %w", err)
		}
	}
	if sub, ok, err := contentDir(dir, ClassesDir); err != nil {
		return Content{}, err
	} else if ok {
		if c.Classes, err = character.LoadClasses(sub); err != nil {
			return Content{}, fmt.Errorf("loading classes: %w", err)
		}
	}
	if sub, ok, err := contentDir(dir, LoadoutsDir); err != nil {
		return Content{}, err
	} else if ok {
		if c.Kits, err = inventory.LoadKits(sub); err != nil {
			return Content{}, fmt.Errorf("loading loadouts: %w", err)
		}
	}

	var templates []*npc.Template
	for _, part := range []struct {
		sub    string
		bosses bool
	}{{EnemiesDir, false}, {BossesDir, true}} {
		sub, ok, err := contentDir(dir, part.sub)
		if err != nil {
			return Content{}, err
		}
		if !ok {
			templates = append(templates, builtinTemplates(part.bosses)...)
			continue
		}
		loaded, err := npc.LoadTemplates(sub)
		if err != nil {
			return Content{}, fmt.Errorf("loading %s: %w", part.sub, err)
		}
		templates = append(templates, loaded...)
	}
	bestiary, err := npc.NewBestiary(templates)
	if err != nil {
		return Content{}, fmt.Errorf("building bestiary: %w", err)
	}
	c.Bestiary = bestiary
	return c, nil
}

// contentDir reports whether dir/sub is a directory.
func contentDir(dir, sub string) (string, bool, error) {
	path := filepath.Join(dir, sub)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return path, false, nil
	case err != nil:
		return "", false, fmt.Errorf("reading content dir %q: %w", path, err)
	case !info.IsDir():
		return "", false, fmt.Errorf("content path %q is not a directory", path)
	}
	return path, true, nil
}

func builtinTemplates(bosses bool) []*npc.Template {
	var out []*npc.Template
	for _, t := range npc.DefaultTemplates() {
		if t.Boss == bosses {
			out = append(out, t)
		}
	}
	return out
}
