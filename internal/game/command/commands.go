// Package command provides the command registry, parser, and the battle
// menu vocabulary.
package command

// Categories for organizing commands.
const (
	CategoryAction   = "action"
	CategoryTimeline = "timeline"
	CategorySystem   = "system"
)

// Handler identifiers mapping commands to hero menu entries.
const (
	HandlerAttack = "attack"
	HandlerSkill  = "skill"
	HandlerItem   = "item"
	HandlerSave   = "save"
	HandlerLoad   = "load"
	HandlerUndo   = "undo"
	HandlerRedo   = "redo"
	HandlerStatus = "status"
	HandlerHelp   = "help"
	HandlerBack   = "back"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command. Menu numbers are aliases.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command (action, timeline, system).
	Category string
	// Handler maps to the hero menu entry or a local handler.
	Handler string
}

// BuiltinCommands returns all built-in commands of the hero action menu.
func BuiltinCommands() []Command {
	return []Command{
		// Actions consume the hero's turn.
		{Name: "attack", Aliases: []string{"1", "a", "att"}, Help: "Attack an enemy", Category: CategoryAction, Handler: HandlerAttack},
		{Name: "skill", Aliases: []string{"2", "s", "sk"}, Help: "Use a class skill", Category: CategoryAction, Handler: HandlerSkill},
		{Name: "item", Aliases: []string{"3", "i", "use"}, Help: "Use an item from the pouch", Category: CategoryAction, Handler: HandlerItem},

		// Timeline commands never consume the turn.
		{Name: "save", Aliases: []string{"4"}, Help: "Save the battle to a file", Category: CategoryTimeline, Handler: HandlerSave},
		{Name: "load", Aliases: []string{"5"}, Help: "Load a battle from a file", Category: CategoryTimeline, Handler: HandlerLoad},
		{Name: "undo", Aliases: []string{"0", "u"}, Help: "Undo the last action", Category: CategoryTimeline, Handler: HandlerUndo},
		{Name: "redo", Aliases: []string{"9", "r"}, Help: "Redo the last undone action", Category: CategoryTimeline, Handler: HandlerRedo},

		// System commands
		{Name: "status", Aliases: []string{"st", "who"}, Help: "Show every combatant", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "help", Aliases: []string{"?", "h"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "back", Aliases: []string{"b", "cancel"}, Help: "Return to the action menu", Category: CategorySystem, Handler: HandlerBack},
	}
}

// IsTurnAction reports whether the named command or alias consumes the
// hero's turn when it succeeds.
func IsTurnAction(name string) bool {
	cmd, ok := DefaultRegistry().Resolve(name)
	return ok && cmd.Category == CategoryAction
}
