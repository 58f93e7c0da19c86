// Package script implements a difficulty policy backed by a Lua script.
//
// The script defines two global functions:
//
//	function interval(elapsed, base) -- seconds between spawn patterns
//	function speed(elapsed, base)    -- enemy speed in units per second
//
// elapsed is the number of seconds played; base is the tier value. A call
// that fails or returns a non-positive or non-finite number falls back to
// base.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

//go:embed default.lua
var defaultSource string

// DefaultSource returns the embedded script used when no path is given.
func DefaultSource() string { return defaultSource }

// ErrMissingFunction is returned when the script lacks a required function.
var ErrMissingFunction = errors.New("script: missing function")

// Base holds the tier values passed to the script.
type Base struct {
	Interval time.Duration
	Speed    float64
}

// Policy evaluates a Lua script. The VM is not goroutine safe, so calls
// are serialized.
type Policy struct {
	mu     sync.Mutex
	vm     *lua.LState
	base   Base
	log    *log.Logger
	errors int
}

// Load reads a script from path. An empty path loads the embedded default.
func Load(path string, base Base, logger *log.Logger) (*Policy, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if path == "" {
		return New(defaultSource, base, logger)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: failed to read %s: %w", path, err)
	}
	p, err := New(string(data), base, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("loaded difficulty script", "file", path)
	return p, nil
}

// New compiles source and checks that both functions are defined.
func New(source string, base Base, logger *log.Logger) (*Policy, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := vm.CallByParam(lua.P{
			Fn:      vm.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("script: open %s: %w", lib.name, err)
		}
	}

	if err := vm.DoString(source); err != nil {
		vm.Close()
		return nil, fmt.Errorf("script: %w", err)
	}
	for _, name := range []string{"interval", "speed"} {
		if _, ok := vm.GetGlobal(name).(*lua.LFunction); !ok {
			vm.Close()
			return nil, fmt.Errorf("%w %q", ErrMissingFunction, name)
		}
	}
	return &Policy{vm: vm, base: base, log: logger}, nil
}

// Interval implements the difficulty policy contract.
func (p *Policy) Interval(elapsed time.Duration) time.Duration {
	secs, ok := p.call("interval", elapsed, p.base.Interval.Seconds())
	if !ok {
		return p.base.Interval
	}
	return time.Duration(secs * float64(time.Second))
}

// Speed implements the difficulty policy contract.
func (p *Policy) Speed(elapsed time.Duration) float64 {
	v, ok := p.call("speed", elapsed, p.base.Speed)
	if !ok {
		return p.base.Speed
	}
	return v
}

// Name returns "script".
func (p *Policy) Name() string { return "script" }

// Errors returns how many calls fell back to the base value.
func (p *Policy) Errors() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errors
}

// Close releases the VM.
func (p *Policy) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vm != nil {
		p.vm.Close()
		p.vm = nil
	}
}

func (p *Policy) call(name string, elapsed time.Duration, base float64) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.vm == nil {
		return 0, false
	}

	if err := p.vm.CallByParam(lua.P{
		Fn:      p.vm.GetGlobal(name),
		NRet:    1,
		Protect: true,
	}, lua.LNumber(elapsed.Seconds()), lua.LNumber(base)); err != nil {
		p.errors++
		p.log.Error("lua call failed", "func", name, "error", err)
		return 0, false
	}
	ret := p.vm.Get(-1)
	p.vm.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok || !usable(float64(n)) {
		p.errors++
		p.log.Warn("lua returned unusable value", "func", name, "value", ret.String())
		return 0, false
	}
	return float64(n), true
}

// usable reports whether a script result is a finite positive number.
func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
