// Package snapshot reads and writes the flat battle save file:
//
//	TURNO,<turn>
//	HEROE,<name>,<hp>,<mp>,<attack>,<defense>,<speed>,<class tag>[,key=value...]
//	ENEMIGO,<name>,<hp>,<mp>,<attack>,<defense>,<speed>,<enemy tag>[,key=value...]
//
// Extension keys are hpmax and mpmax on both record kinds, plus boss,
// cooldown and special on boss enemies. Unknown record tags and unknown keys are ignored.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// Record tags.
const (
	TagTurn  = "TURNO"
	TagHero  = "HEROE"
	TagEnemy = "ENEMIGO"
)

// Extension keys.
const (
	KeyMaxHP    = "hpmax"
	KeyMaxMP    = "mpmax"
	KeyBoss     = "boss"
	KeyCooldown = "cooldown"
	KeySpecial  = "special"
)

const baseFields = 8

// Vitals are the numeric columns shared by both record kinds.
type Vitals struct {
	HP, MP, Attack, Defense, Speed int
	// MaxHP and MaxMP are zero when the record carries no extension;
	// loading then uses HP and MP as the maxima.
	MaxHP, MaxMP int
}

// Hero is one HEROE record.
type Hero struct {
	Line  int
	Name  string
	Class combat.Class
	Vitals
}

// Enemy is one ENEMIGO record.
type Enemy struct {
	Line int
	Name string
	Type combat.EnemyType
	Vitals
	// Boss is the boss title; empty for regular enemies. Cooldown and
	// SpecialIn are only meaningful for bosses.
	Boss      string
	Cooldown  int
	SpecialIn int
}

// Battle is a whole save file.
type Battle struct {
	Turn    int
	Heroes  []Hero
	Enemies []Enemy
}

// ParseError reports a malformed or unusable line.
type ParseError struct {
	Path string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.Path != "" {
		loc = e.Path + ":" + loc
	}
	if e.Err != nil {
		return fmt.Sprintf("snapshot %s: %s: %v", loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("snapshot %s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrTooManyRecords is wrapped by the ParseError returned when a save holds
// more records than the roster has slots.
var ErrTooManyRecords = errors.New("more records than roster slots")

// ErrDuplicateName is wrapped by the ParseError returned when two records of
// the same side share a name.
var ErrDuplicateName = errors.New("duplicate name")

// Fits checks that b can be applied to a roster with the given slot counts
// and that names are unique within each side.
//
// Postcondition: returns a *ParseError naming the first surplus or repeated record, or nil.
func (b Battle) Fits(heroSlots, enemySlots int) error {
	if len(b.Heroes) > heroSlots {
		return &ParseError{Line: b.Heroes[heroSlots].Line, Msg: fmt.Sprintf("hero %d", heroSlots+1), Err: ErrTooManyRecords}
	}
	if len(b.Enemies) > enemySlots {
		return &ParseError{Line: b.Enemies[enemySlots].Line, Msg: fmt.Sprintf("enemy %d", enemySlots+1), Err: ErrTooManyRecords}
	}
	seen := make(map[string]bool, len(b.Heroes))
	for _, h := range b.Heroes {
		if seen[h.Name] {
			return &ParseError{Line: h.Line, Msg: fmt.Sprintf("hero %q", h.Name), Err: ErrDuplicateName}
		}
		seen[h.Name] = true
	}
	seen = make(map[string]bool, len(b.Enemies))
	for _, e := range b.Enemies {
		if seen[e.Name] {
			return &ParseError{Line: e.Line, Msg: fmt.Sprintf("enemy %q", e.Name), Err: ErrDuplicateName}
		}
		seen[e.Name] = true
	}
	return nil
}

// Capture builds a Battle from the current roster and turn.
func Capture(turn int, roster *combat.Roster) Battle {
	b := Battle{Turn: turn}
	for _, h := range roster.Heroes() {
		b.Heroes = append(b.Heroes, Hero{Name: h.Name, Class: h.Class, Vitals: vitalsOf(h)})
	}
	for _, e := range roster.Enemies() {
		rec := Enemy{Name: e.Name, Type: e.EnemyType, Vitals: vitalsOf(e)}
		if e.Boss != nil {
			rec.Boss = e.Boss.Title
			rec.Cooldown = e.Boss.Cooldown
			rec.SpecialIn = e.Boss.TurnsUntilSpecial
		}
		b.Enemies = append(b.Enemies, rec)
	}
	return b
}

func vitalsOf(c *combat.Combatant) Vitals {
	return Vitals{
		HP: c.HP, MP: c.MP, Attack: c.Attack, Defense: c.Defense, Speed: c.Speed,
		MaxHP: c.MaxHP, MaxMP: c.MaxMP,
	}
}

// Apply replaces roster slots positionally with the records of b. Each hero
// keeps the pouch of the slot it replaces. Relations and statuses start clear.
//
// Precondition: b.Fits(len(heroes), len(enemies)) returned nil.
// Postcondition: slots beyond the records of b are untouched.
func Apply(b Battle, roster *combat.Roster) {
	for i, rec := range b.Heroes {
		ref := combat.Ref{Side: combat.SideHeroes, Index: i}
		old := roster.At(ref)
		h := combat.NewHero(rec.Name, rec.Class, rec.HP, rec.MP, rec.Attack, rec.Defense, rec.Speed)
		h.MaxHP, h.MaxMP = maxima(rec.Vitals)
		if old != nil && old.Pouch != nil {
			h.Pouch = old.Pouch
		}
		roster.Replace(ref, h)
	}
	for i, rec := range b.Enemies {
		e := combat.NewEnemy(rec.Name, rec.Type, rec.HP, rec.MP, rec.Attack, rec.Defense, rec.Speed)
		e.MaxHP, e.MaxMP = maxima(rec.Vitals)
		if rec.Boss != "" {
			e.Boss = &combat.BossState{Title: rec.Boss, Cooldown: max(1, rec.Cooldown), TurnsUntilSpecial: rec.SpecialIn}
		}
		roster.Replace(combat.Ref{Side: combat.SideEnemies, Index: i}, e)
	}
	for _, side := range []combat.Side{combat.SideHeroes, combat.SideEnemies} {
		for _, c := range roster.Side(side) {
			c.ClearRelations()
			c.Conditions.Clear()
		}
	}
}

func maxima(v Vitals) (int, int) {
	return max(v.MaxHP, v.HP), max(v.MaxMP, v.MP)
}
