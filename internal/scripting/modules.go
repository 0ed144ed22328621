package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/dice"
)

// RegisterModules installs the engine.* tables into L:
//
//	engine.log.debug/info/warn/error(msg)
//	engine.dice.roll(expr) -> {total=, dice={...}, modifier=}
//	engine.random() -> number in [0, 1)
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "random", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.src.Float64()))
		return 1
	}))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		fn := fn
		L.SetField(t, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return t
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "roll", L.NewFunction(func(L *lua.LState) int {
		expr, err := dice.Parse(L.CheckString(1))
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		res := dice.Roll(expr, m.src)
		out := L.NewTable()
		L.SetField(out, "total", lua.LNumber(res.Total()))
		L.SetField(out, "modifier", lua.LNumber(res.Modifier))
		rolled := L.NewTable()
		for _, d := range res.Dice {
			rolled.Append(lua.LNumber(d))
		}
		L.SetField(out, "dice", rolled)
		L.Push(out)
		return 1
	}))
	return t
}
