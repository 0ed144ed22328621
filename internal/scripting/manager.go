package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/monsters/internal/game/dice"
)

// GlobalKey is the reserved VM key for scripts shared by every region.
// CallHook falls back to this VM when no region VM is found.
const GlobalKey = "global"

// Hook names called by the game.
const (
	// HookOnEvent is called as on_event(region, outcome, danger) and may
	// return a string appended to the event notes.
	HookOnEvent = "on_event"
	// HookCaptureBonus is called as capture_bonus(region, monster) and may
	// return a number added to the capture bonus.
	HookCaptureBonus = "capture_bonus"
)

// Manager owns one sandboxed LState per region plus the global VM.
//
// Each LState is single-threaded; a per-Manager mutex serialises calls.
type Manager struct {
	mu        sync.Mutex
	states    map[string]*lua.LState
	instLimit int
	src       dice.Source
	logger    *zap.Logger
}

// NewManager creates a Manager with no VMs loaded.
//
// Precondition: src and logger must be non-nil.
func NewManager(src dice.Source, logger *zap.Logger, instLimit int) *Manager {
	return &Manager{
		states:    make(map[string]*lua.LState),
		instLimit: instLimit,
		src:       src,
		logger:    logger,
	}
}

// Key returns the VM key for a region name: lower case with runs of
// non-alphanumeric characters collapsed to "_".
func Key(region string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(region) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		if r != '\'' {
			sep = true
		}
	}
	return b.String()
}

// LoadRoot loads root/global as the global VM and every other subdirectory
// of root as a region VM keyed by directory name. Missing global is allowed.
//
// Precondition: root must be a readable directory.
func (m *Manager) LoadRoot(root string) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.Load(e.Name(), filepath.Join(root, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Load creates a sandboxed VM for key, registers the engine modules, then
// executes every *.lua file in scriptDir in lexicographic order. An existing
// VM for key is replaced.
//
// Precondition: key must be non-empty; scriptDir must be a readable directory.
func (m *Manager) Load(key, scriptDir string) error {
	L, cancel := NewSandboxedState(m.instLimit)
	defer cancel()
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.states[key]; ok {
		old.Close()
	}
	m.states[key] = L
	m.mu.Unlock()
	m.logger.Debug("scripts loaded", zap.String("key", key), zap.Int("files", len(luaFiles)))
	return nil
}

// Keys returns the loaded VM keys sorted.
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.states))
	for k := range m.states {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the named Lua global in key's VM, falling back to the global
// VM. Returns (LNil, nil) if no VM defines the hook. Lua runtime errors,
// including an exhausted instruction budget, are returned wrapped.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	L := m.states[key]
	if L == nil || L.GetGlobal(hook) == lua.LNil {
		L = m.states[GlobalKey]
	}
	if L == nil {
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := rearm(L, m.instLimit)
	defer cancel()
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, fmt.Errorf("scripting: %s in %q: %w", hook, key, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// EventNote runs on_event for a region and returns its note, if any.
func (m *Manager) EventNote(region, outcome string, danger int) (string, error) {
	ret, err := m.CallHook(Key(region), HookOnEvent,
		lua.LString(region), lua.LString(outcome), lua.LNumber(danger))
	if err != nil {
		return "", err
	}
	if s, ok := ret.(lua.LString); ok {
		return string(s), nil
	}
	return "", nil
}

// CaptureBonus runs capture_bonus for a region and monster. Errors and
// non-finite results are logged and count as zero, as do non-numeric results.
func (m *Manager) CaptureBonus(region, monsterName string) float64 {
	ret, err := m.CallHook(Key(region), HookCaptureBonus, lua.LString(region), lua.LString(monsterName))
	if err != nil {
		m.logger.Warn("capture bonus hook failed", zap.String("region", region), zap.Error(err))
		return 0
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0
	}
	bonus := float64(n)
	if math.IsNaN(bonus) || math.IsInf(bonus, 0) {
		m.logger.Warn("capture bonus hook returned a non-finite number",
			zap.String("region", region), zap.String("monster", monsterName), zap.Float64("bonus", bonus))
		return 0
	}
	return bonus
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, L := range m.states {
		L.Close()
		delete(m.states, k)
	}
}
