package npc

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// Spawn rolls a new enemy from tmpl. Boss templates get a BossState whose
// countdown starts at the cooldown.
//
// Precondition: name must be non-empty; tmpl must be valid; roller non-nil.
// Postcondition: Returns an enemy at full HP and MP, or a non-nil error.
func Spawn(name string, tmpl *Template, roller *dice.Roller) (*combat.Combatant, error) {
	if name == "" {
		return nil, errors.New("enemy name must not be empty")
	}
	if tmpl == nil {
		return nil, errors.New("npc template must not be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	et, _ := tmpl.EnemyType()
	st := tmpl.Stats.Roll(roller)
	c := combat.NewEnemy(name, et, st.HP, st.MP, st.Attack, st.Defense, st.Speed)
	if tmpl.Boss {
		cd := tmpl.EffectiveCooldown()
		c.Boss = &combat.BossState{Title: tmpl.ID, Cooldown: cd, TurnsUntilSpecial: cd}
	}
	return c, nil
}

// SpawnBoss is Spawn restricted to boss templates.
//
// Precondition: tmpl.Boss must be true.
func SpawnBoss(name string, tmpl *Template, roller *dice.Roller) (*combat.Combatant, error) {
	if tmpl == nil || !tmpl.Boss {
		return nil, fmt.Errorf("SpawnBoss: template is not a boss")
	}
	return Spawn(name, tmpl, roller)
}

// HealthDescription returns a visible health state for c.
//
// Postcondition: Returns a non-empty string.
func HealthDescription(c *combat.Combatant) string {
	if !c.IsAlive() {
		return "defeated"
	}
	pct := float64(c.HP) / float64(max(1, c.MaxHP))
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
