package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// RegisterModules registers the arena Lua table into L:
//
//	arena.random()        -> float in [0, 1) from the encounter source
//	arena.chance(p)       -> bool, one draw
//	arena.int(min, max)   -> integer in [min, max], one draw
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: arena global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	arena := L.NewTable()
	L.SetFuncs(arena, map[string]lua.LGFunction{
		"random": func(L *lua.LState) int {
			L.Push(lua.LNumber(m.source(L).Float64()))
			return 1
		},
		"chance": func(L *lua.LState) int {
			p := float64(L.CheckNumber(1))
			L.Push(lua.LBool(dice.Chance(m.source(L), p)))
			return 1
		},
		"int": func(L *lua.LState) int {
			lo, hi := L.CheckInt(1), L.CheckInt(2)
			if hi < lo {
				L.ArgError(2, "max must be >= min")
			}
			L.Push(lua.LNumber(dice.Int(m.source(L), lo, hi)))
			return 1
		},
	})
	L.SetGlobal("arena", arena)
}

// source returns the bound encounter source or raises a Lua error when
// called outside a hook (for example at file load time).
func (m *Manager) source(L *lua.LState) dice.Source {
	if m.src == nil {
		L.RaiseError("arena randomness is only available inside a hook")
	}
	return m.src
}
