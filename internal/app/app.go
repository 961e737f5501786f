// Package app wires the hotkeys daemon together: configuration, logging,
// the key event source, the input handler, Lua actions and bindings
// reload. It manages the daemon lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/hotkeys/internal/action"
	"github.com/dshills/hotkeys/internal/config"
	"github.com/dshills/hotkeys/internal/config/watcher"
	"github.com/dshills/hotkeys/internal/hook"
	"github.com/dshills/hotkeys/internal/hook/native"
	"github.com/dshills/hotkeys/internal/input"
	"github.com/dshills/hotkeys/internal/input/capture"
	"github.com/dshills/hotkeys/internal/input/debounce"
	"github.com/dshills/hotkeys/internal/input/hotkey"
	"github.com/dshills/hotkeys/internal/input/key"
	"github.com/dshills/hotkeys/internal/input/keymap"
)

// QuitHotkey stops the daemon when the terminal source is in use.
const QuitHotkey = "ctrl + c"

// Application is the central coordinator for the daemon components.
type Application struct {
	mu sync.Mutex

	cfg    config.Config
	opts   Options
	logger *Logger

	handler *input.Handler
	runner  *action.Runner
	source  hook.Source

	// Bindings loaded from the bindings file or directory
	bindingsPath string
	bindingIDs   []keymap.EntryID
	watcher      *watcher.Watcher

	running  atomic.Bool
	done     chan struct{}
	quitOnce sync.Once
	shutdown sync.Once
}

// Options configures the application. Non-empty fields override the
// loaded configuration.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// BindingsPath is the bindings file or a directory of bindings files.
	BindingsPath string

	// SourceKind is "native" or "terminal".
	SourceKind string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Source replaces the configured event source.
	Source hook.Source

	// Clock drives debounce timers. Nil uses the wall clock.
	Clock debounce.Clock
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}

	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logger
	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(cfg.Logging.Level),
		Output: app.opts.LogOutput,
		Prefix: "hotkeys",
	})

	// 3. Input handler
	app.handler = input.NewHandler(input.Config{
		EnableMetrics: true,
		Clock:         app.opts.Clock,
	})
	app.handler.Hooks().RegisterNamed(input.LoggingHook{
		Logger: app.logger.WithComponent("input").Printf,
	}, "logging")

	// 4. Lua actions
	luaLog := app.logger.WithComponent("lua")
	app.runner = action.NewRunner(action.WithLogFunc(func(msg string) {
		luaLog.Info("%s", msg)
	}))
	app.runner.RegisterFunc("quit", func(*lua.LState) int {
		app.Quit()
		return 0
	})

	// 5. Event source
	if err := app.initSource(); err != nil {
		return &InitError{Component: "source", Err: err}
	}

	// 6. Bindings
	app.bindingsPath = cfg.BindingsPath()
	if app.bindingsPath != "" {
		if err := app.LoadBindings(); err != nil {
			return &InitError{Component: "bindings", Err: err}
		}
	}

	// 7. Typed-text listener
	if err := app.initDebounce(); err != nil {
		return &InitError{Component: "debounce", Err: err}
	}

	return nil
}

func (app *Application) applyOverrides(cfg *config.Config) {
	if app.opts.BindingsPath != "" {
		cfg.Bindings.Path = app.opts.BindingsPath
	}
	if app.opts.SourceKind != "" {
		cfg.Source.Kind = app.opts.SourceKind
	}
	if app.opts.LogLevel != "" {
		cfg.Logging.Level = app.opts.LogLevel
	}
}

// initSource creates the configured source. The terminal source cannot
// deliver SIGINT, so QuitHotkey is intercepted ahead of the bindings.
func (app *Application) initSource() error {
	if app.opts.Source != nil {
		app.source = app.opts.Source
		return nil
	}

	switch app.cfg.Source.Kind {
	case config.SourceTerminal:
		src, err := hook.NewTerminalSource()
		if err != nil {
			return err
		}
		app.source = src
		app.installQuitFilter()
		return nil
	default:
		metrics := app.handler.Metrics()
		app.source = native.New(app.cfg.Source.Buffer, metrics.RecordDroppedEvent)
		return nil
	}
}

// installQuitFilter consumes QuitHotkey presses before capture, bindings
// and typed text see them, and stops the daemon.
func (app *Application) installQuitFilter() {
	chord := hotkey.MustParse(QuitHotkey, hotkey.DefaultOptions())
	app.handler.Hooks().RegisterWithOptions(input.FilterHook{
		KeyEventFilter: func(ev *key.Event) bool {
			if ev.IsDown() || !hotkey.MatchesAny(chord, *ev) {
				return false
			}
			app.logger.Info("quit hotkey pressed")
			app.Quit()
			return true
		},
	}, "quit", input.HookPriorityHighest)
}

// initDebounce adds the typed-text listener when echo or a Lua script is
// configured.
func (app *Application) initDebounce() error {
	echo := app.cfg.Debounce.Echo
	var script *action.Script
	if app.cfg.Debounce.Lua != "" {
		s, err := action.Compile("debounce", app.cfg.Debounce.Lua)
		if err != nil {
			return err
		}
		script = s
	}
	if !echo && script == nil {
		return nil
	}

	log := app.logger.WithComponent("debounce")
	_, err := app.handler.AddDebounceListener(app.cfg.QuietPeriod(), func(text string, _ []key.Event) {
		if echo {
			log.Info("typed %q", text)
		}
		if script != nil {
			if err := app.runner.Run(context.Background(), script, action.Vars{Text: text}); err != nil {
				log.Error("%v", err)
			}
		}
	})
	return err
}

// Run starts the event source and dispatches events until ctx is done,
// Quit is called or the source closes.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	log := app.logger.WithComponent("source")

	events, err := app.source.Start()
	if err != nil {
		return &InitError{Component: "source", Err: err}
	}
	log.Info("started (%s)", app.cfg.Source.Kind)
	for _, reg := range app.handler.Hooks().List() {
		log.Debug("input hook %q priority %d", reg.Name, reg.Priority)
	}
	defer func() {
		if err := app.source.Stop(); err != nil && !errors.Is(err, hook.ErrNotStarted) {
			log.Warn("stop: %v", err)
		}
		log.Info("stopped")
	}()

	if app.cfg.Bindings.Watch && app.bindingsPath != "" {
		if err := app.startWatcher(); err != nil {
			log.Warn("bindings watcher disabled: %v", err)
		} else {
			defer app.stopWatcher()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-app.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	err = app.handler.Run(ctx, events)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Capture runs the daemon until the next hotkey is pressed and returns it
// in specification form.
func (app *Application) Capture(ctx context.Context, includeKeyDown bool) (string, error) {
	pending := app.handler.NextHotkey(includeKeyDown)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- app.Run(runCtx) }()

	select {
	case <-pending.Done():
	case err := <-errc:
		app.handler.CancelNextHotkey()
		if err == nil {
			err = ErrNotRunning
		}
		return "", NewOperationError("capture", "", err)
	case <-ctx.Done():
		app.handler.CancelNextHotkey()
		cancel()
		<-errc
		return "", ctx.Err()
	}

	cancel()
	<-errc

	hk, ok := pending.Result()
	if !ok {
		return "", capture.ErrCancelled
	}
	return hk, nil
}

// Quit asks Run to return.
func (app *Application) Quit() {
	app.quitOnce.Do(func() {
		close(app.done)
	})
}

// Shutdown stops the daemon and releases every component. Buffered typed
// text is delivered before the Lua state closes.
func (app *Application) Shutdown() {
	app.Quit()
	app.shutdown.Do(func() {
		app.stopWatcher()
		if app.handler != nil {
			app.handler.Close()
		}
		if app.runner != nil {
			_ = app.runner.Close()
		}
	})
}

// IsRunning returns true if Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the resolved configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Handler returns the input handler.
func (app *Application) Handler() *input.Handler {
	return app.handler
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Entries returns the registered hotkeys.
func (app *Application) Entries() []keymap.EntryInfo {
	return app.handler.Entries()
}

// Stats summarizes the handler metrics for logging.
func (app *Application) Stats() string {
	s := app.handler.Metrics().Snapshot()
	return fmt.Sprintf("events=%d fired=%d captures=%d flushes=%d dropped=%d",
		s.KeyEventsTotal, s.HotkeysFired, s.Captures, s.DebounceFlushes, s.DroppedEvents)
}
