package ai

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
)

// ErrNoTarget is returned when an enemy has no living hero to act on.
var ErrNoTarget = errors.New("no living target")

// Decision is the action an enemy takes on its turn.
type Decision struct {
	Kind   combat.ActionKind // ActionAttack or ActionSpecial
	Target combat.Ref
	// Domain is the HTN domain that produced the decision.
	Domain string
}

// Tactician decides enemy turns. A provoked enemy always targets its living
// provoker; a boss whose special is ready always uses it. Everything else is
// up to the planner of the enemy's domain.
type Tactician struct {
	roster   *combat.Roster
	bestiary *npc.Bestiary
	registry *Registry
	picker   Picker
	logger   *zap.Logger
}

// NewTactician creates a Tactician.
//
// Precondition: roster, registry, picker and logger must be non-nil; bestiary
// may be nil, in which case every enemy uses DefaultDomainID with no script scope.
func NewTactician(roster *combat.Roster, bestiary *npc.Bestiary, registry *Registry, picker Picker, logger *zap.Logger) *Tactician {
	if roster == nil || registry == nil || picker == nil || logger == nil {
		panic("ai.NewTactician: precondition violated: nil dependency")
	}
	return &Tactician{roster: roster, bestiary: bestiary, registry: registry, picker: picker, logger: logger}
}

// DefaultRegistry registers DefaultDomains with caller (which may be nil).
func DefaultRegistry(caller ScriptCaller, picker Picker) *Registry {
	reg := NewRegistry()
	if err := reg.RegisterAll(DefaultDomains(), caller, picker); err != nil {
		panic(fmt.Sprintf("ai: built-in domains are invalid: %v", err))
	}
	return reg
}

func (t *Tactician) domainFor(actor *combat.Combatant) (domainID, scope string) {
	domainID = DefaultDomainID
	if t.bestiary == nil {
		return domainID, ""
	}
	tmpl, ok := t.bestiary.TemplateFor(actor)
	if !ok {
		return domainID, ""
	}
	if tmpl.AIDomain != "" {
		domainID = tmpl.AIDomain
	}
	return domainID, tmpl.ID
}

// Decide picks the action of actor for this turn.
//
// Precondition: actor is a living enemy in the roster.
// Postcondition: on success Target addresses a living hero; ErrNoTarget otherwise.
func (t *Tactician) Decide(actor *combat.Combatant) (Decision, error) {
	if actor == nil || actor.IsHero() || !actor.IsAlive() {
		panic("ai.Tactician.Decide: precondition violated: actor must be a living enemy")
	}
	wanted, scope := t.domainFor(actor)
	domainID, planner, fellBack, ok := t.registry.Resolve(wanted)
	if fellBack {
		t.logger.Warn("unknown ai domain, using default",
			zap.String("enemy", actor.Name),
			zap.String("domain", wanted),
		)
	}

	ws := BuildWorldState(t.roster, t.roster.RefOf(actor), scope)
	d := Decision{Kind: combat.ActionAttack, Domain: domainID}
	found := false
	if ok {
		plan, err := planner.Plan(ws)
		if err != nil {
			return Decision{}, err
		}
		if len(plan) > 0 {
			d.Target = plan[0].Target
			found = true
			if plan[0].Action == ActionSpecial {
				d.Kind = combat.ActionSpecial
			}
		}
	}

	if ws.Self.Provoker != nil {
		d.Target = *ws.Self.Provoker
		found = true
	}
	if !found {
		ref, ok := ws.ResolveTarget(TargetRandom, t.picker)
		if !ok {
			return Decision{}, fmt.Errorf("%s: %w", actor.Name, ErrNoTarget)
		}
		d.Target = ref
	}

	switch {
	case ws.Self.Boss && ws.Self.SpecialReady:
		d.Kind = combat.ActionSpecial
	case d.Kind == combat.ActionSpecial:
		d.Kind = combat.ActionAttack
	}

	t.logger.Debug("enemy decision",
		zap.String("enemy", actor.Name),
		zap.String("domain", d.Domain),
		zap.Stringer("kind", d.Kind),
		zap.Stringer("target", d.Target),
	)
	return d, nil
}
