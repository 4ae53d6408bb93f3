package ai

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// ChooseTargetHook is the Lua hook consulted by TargetScript operators. It
// receives the enemy's uid and returns the uid of a living hero.
const ChooseTargetHook = "choose_target"

// ScriptCaller is the interface required by the Planner to evaluate Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive action produced by the planner.
type PlannedAction struct {
	Action string // ActionAttack or ActionSpecial
	Target combat.Ref
}

// predicates are evaluated in Go before falling back to Lua.
var predicates = map[string]func(*WorldState) bool{
	"special_ready": func(ws *WorldState) bool { return ws.Self.Boss && ws.Self.SpecialReady },
	"provoked":      func(ws *WorldState) bool { return ws.Self.Provoker != nil },
	"wounded":       func(ws *WorldState) bool { return ws.Self.HPPercent() < 50 },
	"outnumbered":   func(ws *WorldState) bool { return len(ws.Foes()) > len(ws.Allies())+1 },
}

// Planner evaluates an HTN domain for a single enemy and produces an ordered
// action plan for its turn.
//
// Invariant: domain and picker must not be nil. caller may be nil, in which
// case Lua preconditions are false and TargetScript falls back to random.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	picker Picker
}

// NewPlanner constructs a Planner.
//
// Precondition: domain and picker must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, picker Picker) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if picker == nil {
		panic("ai.NewPlanner: picker must not be nil")
	}
	return &Planner{domain: domain, caller: caller, picker: picker}
}

// Domain returns the planner's domain.
func (p *Planner) Domain() *Domain { return p.domain }

// Plan evaluates the HTN domain against state and returns an ordered plan.
// Operators whose target cannot be resolved are dropped.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: returns non-nil slice (may be empty); Lua failures are
// treated as precondition-false.
func (p *Planner) Plan(state *WorldState) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}

	taskQueue := []string{RootTask}
	result := []PlannedAction{}

	const maxDepth = 32
	steps := 0

	for len(taskQueue) > 0 && steps < maxDepth {
		steps++
		current := taskQueue[0]
		taskQueue = taskQueue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			if target, ok := p.resolve(op.Target, state); ok {
				result = append(result, PlannedAction{Action: op.Action, Target: target})
			}
			continue
		}

		method := p.findApplicableMethod(current, state)
		if method == nil {
			continue
		}
		queue := make([]string, 0, len(method.Subtasks)+len(taskQueue))
		queue = append(queue, method.Subtasks...)
		taskQueue = append(queue, taskQueue...)
	}
	return result, nil
}

func (p *Planner) resolve(token string, state *WorldState) (combat.Ref, bool) {
	if token != TargetScript {
		return state.ResolveTarget(token, p.picker)
	}
	if p.caller != nil {
		val, _ := p.caller.CallHook(state.Self.Scope, ChooseTargetHook, lua.LString(state.Self.Ref.String()))
		if s, ok := val.(lua.LString); ok {
			if ref, ok := combat.ParseRef(string(s)); ok && state.Foe(ref) != nil {
				return ref, true
			}
		}
	}
	return state.ResolveTarget(TargetRandom, p.picker)
}

// findApplicableMethod returns the first Method for taskID whose precondition passes,
// or nil if none applies.
//
// Methods are tried in declaration order. An empty Precondition always passes.
func (p *Planner) findApplicableMethod(taskID string, state *WorldState) *Method {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m
		}
		if pred, ok := predicates[m.Precondition]; ok {
			if pred(state) {
				return m
			}
			continue
		}
		if p.caller == nil {
			continue
		}
		val, _ := p.caller.CallHook(state.Self.Scope, m.Precondition, lua.LString(state.Self.Ref.String()))
		if val == lua.LTrue {
			return m
		}
	}
	return nil
}
