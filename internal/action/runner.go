package action

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 2 * time.Second

// Script is a compiled Lua snippet.
type Script struct {
	name  string
	proto *lua.FunctionProto
}

// Name returns the script name used in errors.
func (s *Script) Name() string {
	return s.name
}

// Compile parses and compiles source. Syntax errors are reported here so
// bindings files fail at load time rather than when a hotkey fires.
func Compile(name, source string) (*Script, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ScriptError{Name: name, Op: "compile", Err: ErrEmptyScript}
	}

	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, &ScriptError{Name: name, Op: "compile", Err: err}
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, &ScriptError{Name: name, Op: "compile", Err: err}
	}
	return &Script{name: name, proto: proto}, nil
}

// Vars are the globals set for a run.
type Vars struct {
	Hotkey string
	Text   string
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout sets the per-run timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogFunc routes print and log output.
func WithLogFunc(fn func(msg string)) Option {
	return func(r *Runner) {
		r.logFn = fn
	}
}

// Runner executes scripts in a single sandboxed Lua state.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes runs
// arriving from the hook and timer goroutines.
type Runner struct {
	mu sync.Mutex
	L  *lua.LState

	timeout time.Duration
	logFn   func(msg string)
	closed  bool
}

// NewRunner creates a sandboxed runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(r.L)
	r.installSandbox()

	return r
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes loaders and replaces print.
func (r *Runner) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		r.L.SetGlobal(name, lua.LNil)
	}

	logFn := r.L.NewFunction(r.luaLog)
	r.L.SetGlobal("print", logFn)
	r.L.SetGlobal("log", logFn)
}

// luaLog joins its arguments with tabs, as print does.
func (r *Runner) luaLog(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	if r.logFn != nil {
		r.logFn(strings.Join(parts, "\t"))
	}
	return 0
}

// RegisterFunc exposes a Go function to scripts as a global.
func (r *Runner) RegisterFunc(name string, fn lua.LGFunction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.L.SetGlobal(name, r.L.NewFunction(fn))
}

// Run executes a compiled script with vars set as globals. The run is
// abandoned when ctx is done or the runner timeout elapses.
func (r *Runner) Run(ctx context.Context, script *Script, vars Vars) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	r.L.SetGlobal("hotkey", lua.LString(vars.Hotkey))
	r.L.SetGlobal("text", lua.LString(vars.Text))

	top := r.L.GetTop()
	err := r.callWithRecovery(script)
	r.L.SetTop(top)
	if err != nil {
		return &ScriptError{Name: script.name, Op: "run", Err: err}
	}
	return nil
}

// callWithRecovery runs the script, converting panics into errors.
func (r *Runner) callWithRecovery(script *Script) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()

	r.L.Push(r.L.NewFunctionFromProto(script.proto))
	return r.L.PCall(0, lua.MultRet, nil)
}

// Global returns a global as a string, for inspection after a run.
func (r *Runner) Global(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ""
	}
	v := r.L.GetGlobal(name)
	if v == lua.LNil {
		return ""
	}
	return v.String()
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}
