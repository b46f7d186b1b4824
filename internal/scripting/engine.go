package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/palmguard/sim/internal/spawn"
)

// ErrNotDefined is returned when a hook the host asked for is absent from
// every loaded script.
var ErrNotDefined = errors.New("lua hook not defined")

// Engine wraps a single gopher-lua VM holding tuning scripts.
// Single-goroutine access only (host loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every script from scriptsDir,
// then from its spawn/ subdirectory. Missing directories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	kinds := vm.NewTable()
	for _, k := range spawn.Kinds() {
		kinds.Append(lua.LString(k.String()))
	}
	vm.SetGlobal("KINDS", kinds)

	e := &Engine{vm: vm, log: log}

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "spawn")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// SpawnTiers calls Lua spawn_tiers() and converts its result:
//
//	return {
//	  { start_ms = 0, interval_ms = 1800, weights = { fast = 1 } },
//	  ...
//	}
//
// ErrNotDefined means no script defines the hook and the caller should
// fall back to another curve source.
func (e *Engine) SpawnTiers() ([]spawn.Tier, error) {
	fn := e.vm.GetGlobal("spawn_tiers")
	if fn == lua.LNil {
		return nil, ErrNotDefined
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return nil, fmt.Errorf("lua spawn_tiers: %w", err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("lua spawn_tiers returned %s, want table", result.Type())
	}

	n := rt.Len()
	tiers := make([]spawn.Tier, 0, n)
	for i := 1; i <= n; i++ {
		row, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("lua spawn_tiers row %d is not a table", i)
		}
		t := spawn.Tier{
			StartMs:    lNum(row, "start_ms"),
			IntervalMs: lNum(row, "interval_ms"),
			Weights:    make(map[spawn.Kind]float64),
		}
		if w, ok := row.RawGetString("weights").(*lua.LTable); ok {
			var convErr error
			w.ForEach(func(k, v lua.LValue) {
				if convErr != nil {
					return
				}
				kind, err := spawn.ParseKind(lua.LVAsString(k))
				if err != nil {
					convErr = fmt.Errorf("lua spawn_tiers row %d: %w", i, err)
					return
				}
				weight := float64(lua.LVAsNumber(v))
				if weight < 0 {
					convErr = fmt.Errorf("lua spawn_tiers row %d: negative weight for %s", i, kind)
					return
				}
				t.Weights[kind] = weight
			})
			if convErr != nil {
				return nil, convErr
			}
		}
		tiers = append(tiers, t)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("lua spawn_tiers: %w", spawn.ErrNoTiers)
	}
	e.log.Debug("lua spawn curve", zap.Int("tiers", len(tiers)))
	return tiers, nil
}

// --- Lua helpers ---

// lNum reads a numeric field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
