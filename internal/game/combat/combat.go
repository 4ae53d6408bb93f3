// Package combat implements the turn-based battle engine: combatants, the
// roster arena, the action resolver and turn ordering.
package combat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

// Kind distinguishes player-controlled heroes from AI-controlled enemies.
type Kind int

const (
	KindHero Kind = iota
	KindEnemy
)

// Side identifies one of the two rosters.
type Side int

const (
	SideHeroes Side = iota
	SideEnemies
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideHeroes {
		return SideEnemies
	}
	return SideHeroes
}

// String returns a human-readable side label.
func (s Side) String() string {
	if s == SideHeroes {
		return "heroes"
	}
	return "enemies"
}

// Class is the hero variant. It selects the enabled skills.
type Class int

const (
	ClassNone Class = iota
	ClassWarrior
	ClassMage
	ClassDruid
	ClassPaladin
)

var classTags = map[Class]string{
	ClassWarrior: "GUERRERO",
	ClassMage:    "MAGO",
	ClassDruid:   "DRUIDA",
	ClassPaladin: "PALADIN",
}

var classKeys = map[Class]string{
	ClassWarrior: "warrior",
	ClassMage:    "mage",
	ClassDruid:   "druid",
	ClassPaladin: "paladin",
}

// Tag returns the snapshot tag for the class ("GUERRERO", "MAGO", ...).
func (c Class) Tag() string { return classTags[c] }

// Key returns the lower-case content key for the class ("warrior", ...).
func (c Class) Key() string { return classKeys[c] }

// String returns the content key.
func (c Class) String() string {
	if k, ok := classKeys[c]; ok {
		return k
	}
	return "none"
}

// ParseClass resolves either a snapshot tag or a content key.
//
// Postcondition: ok is false iff s names no class.
func ParseClass(s string) (Class, bool) {
	s = strings.TrimSpace(s)
	for c, tag := range classTags {
		if strings.EqualFold(s, tag) || strings.EqualFold(s, classKeys[c]) {
			return c, true
		}
	}
	return ClassNone, false
}

// EnemyType classifies an enemy. Its value is the snapshot tag.
type EnemyType string

const (
	EnemyGolem    EnemyType = "GOLEM"
	EnemyOrc      EnemyType = "ORCO"
	EnemyTroll    EnemyType = "TROLL"
	EnemyUndead   EnemyType = "NOMUERTO"
	EnemyDragon   EnemyType = "DRAGON"
	enemyTypeNone EnemyType = ""
)

// EnemyTypes lists every enemy type in declaration order.
var EnemyTypes = []EnemyType{EnemyGolem, EnemyOrc, EnemyTroll, EnemyUndead, EnemyDragon}

// ParseEnemyType resolves a snapshot tag, case-insensitively.
//
// Postcondition: ok is false iff s names no enemy type.
func ParseEnemyType(s string) (EnemyType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range EnemyTypes {
		if strings.EqualFold(s, string(t)) {
			return t, true
		}
	}
	return enemyTypeNone, false
}

// Ref addresses a combatant by roster side and slot index.
type Ref struct {
	Side  Side
	Index int
}

// String renders the ref as "heroes[2]".
func (r Ref) String() string { return fmt.Sprintf("%s[%d]", r.Side, r.Index) }

// ParseRef is the inverse of Ref.String.
//
// Postcondition: ok is false when s is not of the form "heroes[n]" or "enemies[n]".
func ParseRef(s string) (Ref, bool) {
	for _, side := range []Side{SideHeroes, SideEnemies} {
		prefix := side.String() + "["
		if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, "]") {
			continue
		}
		n, err := strconv.Atoi(s[len(prefix) : len(s)-1])
		if err != nil || n < 0 {
			return Ref{}, false
		}
		return Ref{Side: side, Index: n}, true
	}
	return Ref{}, false
}

// BossState carries the special-attack countdown of a boss enemy.
//
// Invariant: Cooldown >= 1.
type BossState struct {
	// Title is the boss template key (REY_DRAGON, NIGROMANTE, ...).
	Title             string
	Cooldown          int
	TurnsUntilSpecial int
}

// SpecialReady reports whether the boss uses its special this turn.
func (b *BossState) SpecialReady() bool { return b.TurnsUntilSpecial <= 0 }

// EndTurn advances the countdown: reset after a special, otherwise decrement.
func (b *BossState) EndTurn() {
	if b.TurnsUntilSpecial <= 0 {
		b.TurnsUntilSpecial = b.Cooldown
		return
	}
	b.TurnsUntilSpecial--
}

// Combatant is one participant in a battle, hero or enemy.
//
// Invariant: HP == 0 iff !IsAlive(); HP in [0, MaxHP]; MP in [0, MaxMP].
type Combatant struct {
	Kind    Kind
	Name    string
	HP      int
	MaxHP   int
	MP      int
	MaxMP   int
	Attack  int
	Defense int
	Speed   int

	// Conditions holds the timed statuses (paralysis, sleep).
	Conditions *condition.ActiveSet
	// DefendedBy names the protector whose defense is added to incoming damage.
	DefendedBy *Ref
	// ProvokedBy names the provoker this combatant is forced to target.
	ProvokedBy *Ref

	// Hero-only.
	Class Class
	Pouch *inventory.Pouch

	// Enemy-only.
	EnemyType EnemyType
	Boss      *BossState
}

// NewHero creates a hero at full vitals with an empty pouch.
//
// Precondition: hp > 0; all stats >= 0.
// Postcondition: MaxHP == hp and MaxMP == mp.
func NewHero(name string, class Class, hp, mp, attack, defense, speed int) *Combatant {
	return &Combatant{
		Kind: KindHero, Name: name,
		HP: hp, MaxHP: hp, MP: mp, MaxMP: mp,
		Attack: attack, Defense: defense, Speed: speed,
		Conditions: condition.NewActiveSet(),
		Class:      class,
		Pouch:      inventory.NewPouch(),
	}
}

// NewEnemy creates an enemy at full vitals.
//
// Precondition: hp > 0; all stats >= 0.
// Postcondition: MaxHP == hp and MaxMP == mp.
func NewEnemy(name string, t EnemyType, hp, mp, attack, defense, speed int) *Combatant {
	return &Combatant{
		Kind: KindEnemy, Name: name,
		HP: hp, MaxHP: hp, MP: mp, MaxMP: mp,
		Attack: attack, Defense: defense, Speed: speed,
		Conditions: condition.NewActiveSet(),
		EnemyType:  t,
	}
}

// IsHero reports whether this combatant is player-controlled.
func (c *Combatant) IsHero() bool { return c.Kind == KindHero }

// IsAlive reports whether HP is above zero.
func (c *Combatant) IsAlive() bool { return c.HP > 0 }

// IsBoss reports whether this enemy carries a special-attack countdown.
func (c *Combatant) IsBoss() bool { return c.Boss != nil }

// ParalysisTurns returns the remaining paralysis timer.
func (c *Combatant) ParalysisTurns() int { return c.Conditions.Remaining(condition.Paralyzed) }

// SleepTurns returns the remaining sleep timer.
func (c *Combatant) SleepTurns() int { return c.Conditions.Remaining(condition.Asleep) }

// ConsumeBlockedTurn is the actor's turn check: if paralysis or sleep is
// active, exactly one timer is decremented and the turn is lost.
//
// Postcondition: lost is true iff a blocking status was active.
func (c *Combatant) ConsumeBlockedTurn() (status string, lost bool) {
	return c.Conditions.ConsumeBlockedTurn()
}

// ReceiveDamage applies incoming damage reduced by this combatant's defense
// plus the protector's defense when the protector is alive.
//
// Precondition: incoming >= 0.
// Postcondition: returns max(1, incoming-totalDefense); HP >= 0; on death
// both relations of this combatant are cleared.
func (c *Combatant) ReceiveDamage(incoming int, protector *Combatant) int {
	total := c.Defense
	if protector != nil && protector.IsAlive() {
		total += protector.Defense
	}
	dmg := max(1, incoming-total)
	c.LoseHP(dmg)
	return dmg
}

// LoseHP subtracts amount with no defense and no floor.
//
// Postcondition: HP == max(0, previous-amount); on death relations are cleared.
func (c *Combatant) LoseHP(amount int) {
	c.HP = max(0, c.HP-amount)
	if c.HP == 0 {
		c.ClearRelations()
	}
}

// ClearRelations drops DefendedBy and ProvokedBy.
func (c *Combatant) ClearRelations() {
	c.DefendedBy = nil
	c.ProvokedBy = nil
}

// Status renders a one-line summary for display.
func (c *Combatant) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s HP %d/%d MP %d/%d ATK %d DEF %d SPD %d", c.Name, c.HP, c.MaxHP, c.MP, c.MaxMP, c.Attack, c.Defense, c.Speed)
	if c.IsHero() {
		fmt.Fprintf(&b, " [%s]", c.Class.Tag())
	} else {
		fmt.Fprintf(&b, " [%s]", c.EnemyType)
	}
	if !c.IsAlive() {
		b.WriteString(" (fallen)")
	}
	if n := c.ParalysisTurns(); n > 0 {
		fmt.Fprintf(&b, " paralyzed:%d", n)
	}
	if n := c.SleepTurns(); n > 0 {
		fmt.Fprintf(&b, " asleep:%d", n)
	}
	if c.Boss != nil {
		fmt.Fprintf(&b, " special in %d", c.Boss.TurnsUntilSpecial)
	}
	return b.String()
}
