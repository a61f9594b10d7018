package scripting

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// ErrScript wraps every Lua load or runtime failure.
var ErrScript = errors.New("script error")

// FighterInfo is a snapshot of a fighter passed to Lua hooks.
type FighterInfo struct {
	Name       string
	Health     int
	MaxHealth  int
	Stamina    int
	MaxStamina int
	Weapon     string
	Conditions []string
}

// Outcome is the effect table a hook returns. Zero fields have no effect.
type Outcome struct {
	// Damage is dealt to the target.
	Damage int
	// Heal is restored to the actor.
	Heal int
	// Status is a condition id applied to the target for Duration turns.
	Status   string
	Duration int
	Power    int
}

// Manager owns one sandboxed LState holding every loaded skill script and
// dispatches hook calls into it.
//
// Manager is safe for concurrent Call; calls are serialized because an
// LState is single-threaded. Hooks must not keep state in Lua globals
// between calls, otherwise results would depend on call order across
// encounters.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	logger *zap.Logger
	// src is the encounter source bound for the duration of one Call.
	src dice.Source
}

// NewManager creates a Manager with an empty script VM.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 = DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with the arena module registered.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	m := &Manager{
		L:      NewSandboxedState(),
		limit:  instLimit,
		logger: logger,
	}
	m.RegisterModules(m.L)
	return m
}

// LoadFS executes every *.lua file in dir of fsys in lexicographic order.
// Each file runs under the instruction limit.
//
// Precondition: dir must be a readable directory of fsys.
// Postcondition: returns an error wrapping ErrScript on the first file that
// fails to compile or run.
func (m *Manager) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			files = append(files, path.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range files {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("scripting: reading %q: %w", p, err)
		}
		if err := m.exec(p, string(data)); err != nil {
			return err
		}
		m.logger.Debug("scripting: loaded script", zap.String("file", p))
	}
	return nil
}

// LoadDir is LoadFS over the operating system directory dir.
func (m *Manager) LoadDir(dir string) error {
	return m.LoadFS(os.DirFS(dir), ".")
}

func (m *Manager) exec(name, src string) error {
	release := Limit(m.L, m.limit)
	defer release()
	fn, err := m.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("%w: compiling %q: %v", ErrScript, name, err)
	}
	m.L.Push(fn)
	if err := m.L.PCall(0, lua.MultRet, nil); err != nil {
		m.L.SetTop(0)
		return fmt.Errorf("%w: loading %q: %v", ErrScript, name, err)
	}
	m.L.SetTop(0)
	return nil
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// Call invokes hook(actor, target) with src bound to arena.random and
// converts the returned table into an Outcome. A hook returning nil yields
// the zero Outcome.
//
// Precondition: src must be non-nil.
// Postcondition: Returns an error wrapping ErrScript if the hook is missing,
// raises a Lua error, exceeds the instruction limit or returns a malformed
// value. Draws made through arena.random are taken from src in call order.
func (m *Manager) Call(hook string, src dice.Source, actor, target FighterInfo) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: hook %q is not defined", ErrScript, hook)
	}

	m.src = src
	release := Limit(m.L, m.limit)
	defer func() {
		release()
		m.src = nil
		m.L.SetTop(0)
	}()

	if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		fighterTable(m.L, actor), fighterTable(m.L, target)); err != nil {
		m.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: hook %q: %v", ErrScript, hook, err)
	}
	ret := m.L.Get(-1)
	return parseOutcome(hook, ret)
}

// Close releases the Lua VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}

func fighterTable(L *lua.LState, f FighterInfo) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(f.Name))
	t.RawSetString("health", lua.LNumber(f.Health))
	t.RawSetString("max_health", lua.LNumber(f.MaxHealth))
	t.RawSetString("stamina", lua.LNumber(f.Stamina))
	t.RawSetString("max_stamina", lua.LNumber(f.MaxStamina))
	t.RawSetString("weapon", lua.LString(f.Weapon))
	conds := L.NewTable()
	for _, c := range f.Conditions {
		conds.Append(lua.LString(c))
	}
	t.RawSetString("conditions", conds)
	return t
}

func parseOutcome(hook string, v lua.LValue) (Outcome, error) {
	if v == lua.LNil {
		return Outcome{}, nil
	}
	t, ok := v.(*lua.LTable)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: hook %q returned %s, want table or nil", ErrScript, hook, v.Type())
	}
	var out Outcome
	var err error
	intField := func(name string) int {
		switch f := t.RawGetString(name).(type) {
		case lua.LNumber:
			if f < 0 {
				err = fmt.Errorf("%w: hook %q: %s must be >= 0", ErrScript, hook, name)
				return 0
			}
			return int(f)
		case *lua.LNilType:
			return 0
		default:
			err = fmt.Errorf("%w: hook %q: %s must be a number", ErrScript, hook, name)
			return 0
		}
	}
	out.Damage = intField("damage")
	out.Heal = intField("heal")
	out.Duration = intField("duration")
	out.Power = intField("power")
	switch s := t.RawGetString("status").(type) {
	case lua.LString:
		out.Status = string(s)
	case *lua.LNilType:
	default:
		err = fmt.Errorf("%w: hook %q: status must be a string", ErrScript, hook)
	}
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}
