package battle

import (
	"errors"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

// Hero menu codes returned by Input.ChooseAction.
const (
	MenuUndo   = 0
	MenuAttack = 1
	MenuSkill  = 2
	MenuItem   = 3
	MenuSave   = 4
	MenuLoad   = 5
	MenuRedo   = 9
)

// ErrBack may be returned by any Input method to go back to the action menu.
var ErrBack = errors.New("battle: back to action menu")

// Input supplies the hero decisions. Index answers are 0-based into the
// slice passed; an out-of-range answer is rejected and asked again.
type Input interface {
	ChooseAction(hero *combat.Combatant) (int, error)
	ChooseSkill(hero *combat.Combatant, skills []combat.Skill) (int, error)
	ChooseItem(hero *combat.Combatant, items []inventory.Stack) (int, error)
	ChooseTarget(prompt string, candidates []*combat.Combatant) (int, error)
	// ChoosePath returns a snapshot path; empty selects the configured default.
	ChoosePath(prompt string) (string, error)
}
