package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// globalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no scope VM is found.
const globalScope = "__global__"

// CombatantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type CombatantInfo struct {
	// UID is the roster address of the combatant ("heroes[0]").
	UID        string
	Name       string
	Kind       string // "hero" or "enemy"
	HP         int
	MaxHP      int
	MP         int
	MaxMP      int
	Attack     int
	Defense    int
	Speed      int
	Conditions []string
	// Blocked is true while a condition costs the combatant its next turn.
	Blocked bool
}

// Alive reports whether the combatant has HP left.
func (c *CombatantInfo) Alive() bool { return c.HP > 0 }

type vm struct {
	L         *lua.LState
	cancel    context.CancelFunc
	instLimit int
}

// Manager owns one sandboxed LState per scope (an enemy template ID) and
// exposes hook dispatch.
//
// Manager is safe for concurrent CallHook after all loads complete. Each
// LState is single-threaded; callMu serializes calls into the VMs.
type Manager struct {
	mu     sync.RWMutex
	callMu sync.Mutex
	states map[string]*vm
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetCombatant   func(uid string) *CombatantInfo
	GetCombatants  func() []*CombatantInfo
	ApplyCondition func(uid, condID string, turns int) error
	Broadcast      func(msg string)
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty scope map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states: make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers all engine.*
// modules, then executes the Lua file at path.
//
// Precondition: scope must be non-empty; path must be a readable .lua file.
// Postcondition: the scope VM is registered, replacing any previous one;
// returns error on Lua load failure.
func (m *Manager) LoadScope(scope, path string, instLimit int) error {
	return m.loadInto(scope, []string{path}, instLimit)
}

// LoadGlobal creates the shared VM from every *.lua file in scriptDir, in
// lexicographic order. It is the CallHook fallback for every scope.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)
	return m.loadInto(globalScope, luaFiles, instLimit)
}

func (m *Manager) loadInto(key string, files []string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	for _, path := range files {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.cancel()
		old.L.Close()
	}
	m.states[key] = &vm{L: L, cancel: cancel, instLimit: instLimit}
	m.mu.Unlock()
	return nil
}

// HasScope reports whether a scope-specific VM is loaded.
func (m *Manager) HasScope(scope string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.states[scope]
	return ok
}

// CallHook calls the named Lua global function in scope's VM. If the scope
// has no VM, the global VM is tried as a fallback. Returns (LNil, nil) if the
// hook is not defined or no VM exists. Lua runtime errors, including an
// exhausted instruction budget, are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.states[scope]
	if !ok {
		v = m.states[globalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	m.callMu.Lock()
	defer m.callMu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	v.cancel()
	v.cancel = refreshBudget(v.L, v.instLimit)

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
//
// Postcondition: subsequent CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, v := range m.states {
		v.cancel()
		v.L.Close()
		delete(m.states, key)
	}
}
