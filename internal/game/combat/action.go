package combat

// ActionKind classifies a resolved action for narration and the undo ledger.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAttack
	ActionDefend
	ActionSpell
	ActionItem
	ActionHeal
	ActionProvoke
	ActionSpecial
)

// String returns the human-readable name of the ActionKind.
// Postcondition: returns "attack", "defend", "spell", "item", "heal",
// "provoke", "special", or "unknown".
func (a ActionKind) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionSpell:
		return "spell"
	case ActionItem:
		return "item"
	case ActionHeal:
		return "heal"
	case ActionProvoke:
		return "provoke"
	case ActionSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Outcome is what the resolver reports after applying an action.
type Outcome struct {
	Kind      ActionKind
	Narrative string
	// Damage is the HP removed from the primary target; zero for non-damaging actions.
	Damage int
	// Targets lists every combatant the action touched, actor excluded.
	Targets []Ref
	// Item is the consumed item name for ActionItem outcomes.
	Item string
	// Defeated lists targets whose HP reached zero.
	Defeated []Ref
}
