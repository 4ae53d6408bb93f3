package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers all engine.* Lua tables into L:
// engine.log, engine.dice, engine.entity, engine.combat and engine.battle.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "entity", m.entityModule(L))
	L.SetField(engine, "combat", m.combatModule(L))
	L.SetField(engine, "battle", m.battleModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	level := func(log func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			log(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}
	}
	L.SetField(mod, "debug", L.NewFunction(level(m.logger.Debug)))
	L.SetField(mod, "info", L.NewFunction(level(m.logger.Info)))
	L.SetField(mod, "warn", L.NewFunction(level(m.logger.Warn)))
	L.SetField(mod, "error", L.NewFunction(level(m.logger.Error)))
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// roll(expr) returns {total, dice, modifier}; dice is the sum of the dice.
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.RaiseError("engine.dice.roll: %v", err)
			return 0
		}
		sum := 0
		for _, d := range res.Dice {
			sum += d
		}
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(res.Total()))
		L.SetField(t, "dice", lua.LNumber(sum))
		L.SetField(t, "modifier", lua.LNumber(res.Modifier))
		L.Push(t)
		return 1
	}))
	// pick(n) returns a 1-based index in [1, n].
	L.SetField(mod, "pick", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "n must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.roller.Pick("lua pick", n) + 1))
		return 1
	}))
	return mod
}

func (m *Manager) lookup(uid string) *CombatantInfo {
	if m.GetCombatant == nil {
		return nil
	}
	return m.GetCombatant(uid)
}

func (m *Manager) entityModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	field := func(get func(*CombatantInfo) lua.LValue) lua.LGFunction {
		return func(L *lua.LState) int {
			c := m.lookup(L.CheckString(1))
			if c == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(get(c))
			return 1
		}
	}
	L.SetField(mod, "get_hp", L.NewFunction(field(func(c *CombatantInfo) lua.LValue { return lua.LNumber(c.HP) })))
	L.SetField(mod, "get_mp", L.NewFunction(field(func(c *CombatantInfo) lua.LValue { return lua.LNumber(c.MP) })))
	L.SetField(mod, "get_name", L.NewFunction(field(func(c *CombatantInfo) lua.LValue { return lua.LString(c.Name) })))
	L.SetField(mod, "get_defense", L.NewFunction(field(func(c *CombatantInfo) lua.LValue { return lua.LNumber(c.Defense) })))
	L.SetField(mod, "get_conditions", L.NewFunction(field(func(c *CombatantInfo) lua.LValue {
		t := L.NewTable()
		for _, id := range c.Conditions {
			t.Append(lua.LString(id))
		}
		return t
	})))
	return mod
}

// combatantToTable converts info to a Lua table with lower-case keys.
func combatantToTable(L *lua.LState, c *CombatantInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "uid", lua.LString(c.UID))
	L.SetField(t, "name", lua.LString(c.Name))
	L.SetField(t, "kind", lua.LString(c.Kind))
	L.SetField(t, "hp", lua.LNumber(c.HP))
	L.SetField(t, "max_hp", lua.LNumber(c.MaxHP))
	L.SetField(t, "mp", lua.LNumber(c.MP))
	L.SetField(t, "max_mp", lua.LNumber(c.MaxMP))
	L.SetField(t, "attack", lua.LNumber(c.Attack))
	L.SetField(t, "defense", lua.LNumber(c.Defense))
	L.SetField(t, "speed", lua.LNumber(c.Speed))
	conds := L.NewTable()
	for _, id := range c.Conditions {
		conds.Append(lua.LString(id))
	}
	L.SetField(t, "conditions", conds)
	L.SetField(t, "blocked", lua.LBool(c.Blocked))
	return t
}

// CombatantTable exposes combatantToTable for hook arguments built outside the package.
func CombatantTable(L *lua.LState, c *CombatantInfo) *lua.LTable { return combatantToTable(L, c) }

// partition splits the living combatants other than uid by kind relative to uid.
func (m *Manager) partition(uid string) (allies, enemies []*CombatantInfo, ok bool) {
	if m.GetCombatants == nil {
		return nil, nil, false
	}
	all := m.GetCombatants()
	var self *CombatantInfo
	for _, c := range all {
		if c.UID == uid {
			self = c
			break
		}
	}
	if self == nil {
		return nil, nil, false
	}
	for _, c := range all {
		if c.UID == uid || !c.Alive() {
			continue
		}
		if c.Kind == self.Kind {
			allies = append(allies, c)
		} else {
			enemies = append(enemies, c)
		}
	}
	return allies, enemies, true
}

func (m *Manager) combatModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "query_combatant", L.NewFunction(func(L *lua.LState) int {
		c := m.lookup(L.CheckString(1))
		if c == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(combatantToTable(L, c))
		return 1
	}))
	list := func(pickEnemies bool) lua.LGFunction {
		return func(L *lua.LState) int {
			allies, enemies, ok := m.partition(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			src := allies
			if pickEnemies {
				src = enemies
			}
			t := L.NewTable()
			for _, c := range src {
				t.Append(combatantToTable(L, c))
			}
			L.Push(t)
			return 1
		}
	}
	count := func(pickEnemies bool) lua.LGFunction {
		return func(L *lua.LState) int {
			allies, enemies, _ := m.partition(L.CheckString(1))
			n := len(allies)
			if pickEnemies {
				n = len(enemies)
			}
			L.Push(lua.LNumber(n))
			return 1
		}
	}
	L.SetField(mod, "get_enemies", L.NewFunction(list(true)))
	L.SetField(mod, "get_allies", L.NewFunction(list(false)))
	L.SetField(mod, "enemy_count", L.NewFunction(count(true)))
	L.SetField(mod, "ally_count", L.NewFunction(count(false)))
	L.SetField(mod, "apply_condition", L.NewFunction(func(L *lua.LState) int {
		uid, condID, turns := L.CheckString(1), L.CheckString(2), L.CheckInt(3)
		if m.ApplyCondition == nil {
			return 0
		}
		if err := m.ApplyCondition(uid, condID, turns); err != nil {
			m.logger.Warn("scripting: apply_condition failed",
				zap.String("uid", uid),
				zap.String("condition", condID),
				zap.Error(err),
			)
		}
		return 0
	}))
	return mod
}

func (m *Manager) battleModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "say", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		if m.Broadcast != nil {
			m.Broadcast(msg)
		}
		return 0
	}))
	return mod
}
