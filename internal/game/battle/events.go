package battle

// EventKind classifies a notification emitted by a Session.
type EventKind int

const (
	EventUnknown EventKind = iota
	// EventRoundStart announces a round and its speed order.
	EventRoundStart
	// EventRoundEnd closes a round.
	EventRoundEnd
	// EventAction narrates a resolved action.
	EventAction
	// EventTurnLost reports an actor skipping its turn to a blocking status.
	EventTurnLost
	// EventFailure reports a rejected choice; the actor is prompted again.
	EventFailure
	EventSaved
	EventLoaded
	// EventPersistenceFailed reports a save or load that left the battle unchanged.
	EventPersistenceFailed
	EventUndo
	EventRedo
	// EventTaunt is flavor text spoken by an enemy.
	EventTaunt
	// EventScript is a message broadcast by an AI script.
	EventScript
	EventVictory
	EventDefeat
)

// String returns the lower-case name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventRoundStart:
		return "round_start"
	case EventRoundEnd:
		return "round_end"
	case EventAction:
		return "action"
	case EventTurnLost:
		return "turn_lost"
	case EventFailure:
		return "failure"
	case EventSaved:
		return "saved"
	case EventLoaded:
		return "loaded"
	case EventPersistenceFailed:
		return "persistence_failed"
	case EventUndo:
		return "undo"
	case EventRedo:
		return "redo"
	case EventTaunt:
		return "taunt"
	case EventScript:
		return "script"
	case EventVictory:
		return "victory"
	case EventDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Event is one line of battle output.
type Event struct {
	Kind EventKind
	// Turn is the round counter when the event was emitted.
	Turn int
	// Actor and Target name the combatants involved, when any.
	Actor     string
	Target    string
	Narrative string
}

// Notifier receives every Event in emission order.
type Notifier func(Event)
