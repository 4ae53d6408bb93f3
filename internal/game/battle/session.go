// Package battle runs one battle between a hero roster and an enemy roster:
// rounds, turn dispatch, undo and redo, snapshot save and load, and the
// final outcome.
package battle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/ai"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/ledger"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
	"github.com/cory-johannsen/turnbattle/internal/history"
	"github.com/cory-johannsen/turnbattle/internal/observability"
	"github.com/cory-johannsen/turnbattle/internal/scripting"
	"github.com/cory-johannsen/turnbattle/internal/storage/snapshot"
)

// State is the lifecycle of a Session.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateConcluded
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in progress"
	case StateConcluded:
		return "concluded"
	default:
		return "not started"
	}
}

// Outcome is the result of a concluded battle.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// Persistence saves and loads battle snapshots.
type Persistence interface {
	Save(path string, b snapshot.Battle) error
	Load(path string) (snapshot.Battle, error)
}

// Deps are the collaborators of a Session.
//
// Input, Catalog, Conditions, Roller and Logger are required. Everything
// else may be left zero: Notify discards events, Dispatch defaults to
// phased, a nil Persistence fails every save and load, a nil History
// records nothing, a nil Bestiary gives every enemy the default AI domain,
// a nil AI registry uses ai.DefaultRegistry, and a nil Scripts disables Lua.
type Deps struct {
	Input      Input
	Notify     Notifier
	Catalog    *inventory.Catalog
	Conditions *condition.Registry
	Roller     *dice.Roller
	Logger     *zap.Logger

	Dispatch        combat.Dispatch
	ResolverOptions []combat.ResolverOption
	Persistence     Persistence
	SavePath        string
	History         history.Store
	Bestiary        *npc.Bestiary
	AI              *ai.Registry
	Scripts         *scripting.Manager
	// Clock stamps history records; nil uses time.Now.
	Clock func() time.Time
}

// Session is one battle. It is not safe for concurrent use.
type Session struct {
	id        uuid.UUID
	roster    *combat.Roster
	resolver  *combat.Resolver
	tactician *ai.Tactician
	ledger    *ledger.Ledger
	deps      Deps
	logger    *zap.Logger

	turn    int
	state   State
	outcome Outcome
}

// ErrNoPersistence is reported when save or load is used without a Persistence.
var ErrNoPersistence = errors.New("battle: no snapshot storage configured")

// New builds a Session over heroes and enemies.
//
// Precondition: the required Deps are non-nil.
// Postcondition: returns a Session in StateNotStarted, or an error when the
// rosters are empty, on the wrong side, or hold duplicate names.
func New(heroes, enemies []*combat.Combatant, deps Deps) (*Session, error) {
	if deps.Input == nil || deps.Catalog == nil || deps.Conditions == nil || deps.Roller == nil || deps.Logger == nil {
		panic("battle.New: precondition violated: nil required dependency")
	}
	roster, err := combat.NewRoster(heroes, enemies, deps.Conditions)
	if err != nil {
		return nil, fmt.Errorf("building roster: %w", err)
	}
	if deps.Notify == nil {
		deps.Notify = func(Event) {}
	}
	if deps.Dispatch == "" {
		deps.Dispatch = combat.DispatchPhased
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	var caller ai.ScriptCaller
	if deps.Scripts != nil {
		caller = deps.Scripts
	}
	registry := deps.AI
	if registry == nil {
		registry = ai.DefaultRegistry(caller, deps.Roller)
	}

	id := uuid.New()
	logger := observability.BattleLogger(deps.Logger, id.String())
	s := &Session{
		id:        id,
		roster:    roster,
		resolver:  combat.NewResolver(roster, deps.Catalog, logger, deps.ResolverOptions...),
		tactician: ai.NewTactician(roster, deps.Bestiary, registry, deps.Roller, logger),
		ledger:    ledger.New(),
		deps:      deps,
		logger:    logger,
	}
	if deps.Scripts != nil {
		s.bindScripts(deps.Scripts)
	}
	return s, nil
}

// ID returns the battle identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Turn returns the round counter.
func (s *Session) Turn() int { return s.turn }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Outcome returns the result; OutcomeNone until the battle concludes.
func (s *Session) Outcome() Outcome { return s.outcome }

// Roster returns the combatants of the battle.
func (s *Session) Roster() *combat.Roster { return s.roster }

// CanUndo reports whether an action can be undone.
func (s *Session) CanUndo() bool { return s.ledger.CanUndo() }

// CanRedo reports whether an undone action can be redone.
func (s *Session) CanRedo() bool { return s.ledger.CanRedo() }

// Start resets the battle to turn 1 in progress. Calling it again restarts
// the counter without touching the combatants.
//
// Postcondition: Turn() == 1; State() == StateInProgress; Outcome() == OutcomeNone.
func (s *Session) Start() {
	s.turn = 1
	s.state = StateInProgress
	s.outcome = OutcomeNone
	s.logger.Info("battle started",
		zap.Int("heroes", len(s.roster.Heroes())),
		zap.Int("enemies", len(s.roster.Enemies())),
		zap.String("dispatch", string(s.deps.Dispatch)),
	)
	s.conclude(context.Background())
}

// Run plays rounds until one side is wiped out. A Session that was never
// started is started first.
//
// Postcondition: returns nil with State() == StateConcluded, or the error
// of the Input or of ctx.
func (s *Session) Run(ctx context.Context) error {
	if s.state == StateNotStarted {
		s.Start()
	}
	for s.state == StateInProgress {
		if err := ctx.Err(); err != nil {
			return err
		}
		plan := combat.PlanRound(s.roster, s.deps.Dispatch)
		s.announce(plan)
		for _, ref := range plan.Turns {
			if s.state != StateInProgress {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			actor := s.roster.At(ref)
			if actor == nil || !actor.IsAlive() {
				continue
			}
			var err error
			if ref.Side == combat.SideHeroes {
				err = s.heroTurn(ctx, ref)
			} else {
				s.enemyTurn(ctx, ref)
			}
			if err != nil {
				return err
			}
		}
		if s.state != StateInProgress {
			break
		}
		s.emit(Event{Kind: EventRoundEnd, Narrative: fmt.Sprintf("Round %d complete.", s.turn)})
		s.turn++
	}
	return nil
}

func (s *Session) announce(plan combat.RoundPlan) {
	names := make([]string, len(plan.Announced))
	for i, c := range plan.Announced {
		names[i] = c.Name
	}
	s.emit(Event{
		Kind:      EventRoundStart,
		Narrative: fmt.Sprintf("Round %d begins! Turn order: %s", s.turn, strings.Join(names, ", ")),
	})
}

func (s *Session) emit(ev Event) {
	ev.Turn = s.turn
	s.deps.Notify(ev)
}

func (s *Session) fail(actor *combat.Combatant, msg string) {
	s.emit(Event{Kind: EventFailure, Actor: actor.Name, Narrative: msg})
}

// conclude ends the battle when a side has no living member. It emits at
// most one victory or defeat per battle.
func (s *Session) conclude(ctx context.Context) {
	if s.state != StateInProgress {
		return
	}
	switch {
	case !s.roster.AnyAlive(combat.SideEnemies):
		s.outcome = OutcomeVictory
		s.emit(Event{Kind: EventVictory, Narrative: "Combat is over. You stand victorious."})
	case !s.roster.AnyAlive(combat.SideHeroes):
		s.outcome = OutcomeDefeat
		s.emit(Event{Kind: EventDefeat, Narrative: "Everything goes dark."})
	default:
		return
	}
	s.state = StateConcluded
	s.logger.Info("battle concluded",
		zap.Stringer("outcome", s.outcome),
		zap.Int("turns", s.turn),
	)
	s.record(ctx)
}

func (s *Session) record(ctx context.Context) {
	if s.deps.History == nil {
		return
	}
	names := func(side combat.Side) []string {
		cs := s.roster.Side(side)
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}
	rec := history.NewRecord(s.outcome == OutcomeVictory, s.turn, names(combat.SideHeroes), names(combat.SideEnemies), s.deps.Clock())
	rec.ID = s.id
	if err := s.deps.History.Append(ctx, rec); err != nil {
		s.logger.Warn("recording battle history", zap.Error(err))
	}
}

// apply runs act, records the resulting changes in the ledger and narrates
// them. item names the pouch entry act may consume, if any.
//
// Postcondition: on error nothing is recorded and the error is returned.
func (s *Session) apply(ctx context.Context, actor combat.Ref, item string, act func() (combat.Outcome, error)) error {
	owner := s.roster.At(actor)
	itemBefore := 0
	if item != "" && owner.Pouch != nil {
		itemBefore = owner.Pouch.Count(item)
	}
	before := s.roster.CaptureAll()
	out, err := act()
	if err != nil {
		return err
	}
	rec := ledger.Diff(out.Narrative, out.Kind, actor, s.roster, before, s.roster.CaptureAll())
	if item != "" && owner.Pouch != nil {
		rec.Item = &ledger.ItemChange{Owner: actor, Item: item, Before: itemBefore, After: owner.Pouch.Count(item)}
	}
	s.ledger.Record(rec)

	ev := Event{Kind: EventAction, Actor: owner.Name, Narrative: out.Narrative}
	if len(out.Targets) == 1 {
		if t := s.roster.At(out.Targets[0]); t != nil {
			ev.Target = t.Name
		}
	}
	s.emit(ev)
	s.conclude(ctx)
	return nil
}
