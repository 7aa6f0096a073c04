package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM running the player event scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: core helpers first, then the player event handlers.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(2))

	e := &Engine{vm: vm, log: log}
	e.registerPlayerType()

	for _, sub := range []string{"core", "player"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
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

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// call runs the global function name with args. It returns the single
// result, or ok=false when the function is missing or fails; failures are
// logged.
func (e *Engine) call(name string, args ...lua.LValue) (ret lua.LValue, ok bool) {
	fn, isFn := e.vm.GetGlobal(name).(*lua.LFunction)
	if !isFn {
		return lua.LNil, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua hook failed", zap.String("hook", name), zap.Error(err))
		return lua.LNil, false
	}
	ret = e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, true
}

// callNumber calls name and reads a number result. Missing functions,
// errors and non-number results yield def.
func (e *Engine) callNumber(name string, def float64, args ...lua.LValue) float64 {
	ret, ok := e.call(name, args...)
	if !ok {
		return def
	}
	n, isNum := ret.(lua.LNumber)
	if !isNum {
		e.log.Error("lua hook returned non-number", zap.String("hook", name), zap.String("type", ret.Type().String()))
		return def
	}
	return float64(n)
}

// callBool calls name and reads a boolean result. A nil result keeps def so
// handlers may omit the return.
func (e *Engine) callBool(name string, def bool, args ...lua.LValue) bool {
	ret, ok := e.call(name, args...)
	if !ok || ret == lua.LNil {
		return def
	}
	return lua.LVAsBool(ret)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
