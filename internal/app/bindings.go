package app

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/hotkeys/internal/action"
	"github.com/dshills/hotkeys/internal/config/watcher"
	"github.com/dshills/hotkeys/internal/input/keymap"
)

// compiledKeymap pairs a keymap with the scripts of its bindings.
type compiledKeymap struct {
	km      *keymap.Keymap
	scripts []*action.Script
}

// readKeymaps loads the bindings file, or every bindings file directly
// inside the directory when path names one.
func readKeymaps(path string) ([]*keymap.Keymap, error) {
	loader := keymap.NewLoader()

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		km, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return []*keymap.Keymap{km}, nil
	}

	loader.AddSearchPath(path)
	kms, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}
	return kms, nil
}

// loadKeymaps reads and compiles the bindings without touching the
// registry.
func (app *Application) loadKeymaps(path string) ([]*compiledKeymap, error) {
	kms, err := readKeymaps(path)
	if err != nil {
		return nil, err
	}

	compiled := make([]*compiledKeymap, 0, len(kms))
	for _, km := range kms {
		if err := km.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", km.Source, err)
		}

		scripts := make([]*action.Script, len(km.Bindings))
		for i, b := range km.Bindings {
			if b.Lua == "" {
				continue
			}
			s, err := action.Compile(fmt.Sprintf("%s#%d", km.Name, i), b.Lua)
			if err != nil {
				return nil, fmt.Errorf("%s: binding %d (%s): %w", km.Source, i, b.Keys, err)
			}
			scripts[i] = s
		}
		compiled = append(compiled, &compiledKeymap{km: km, scripts: scripts})
	}
	return compiled, nil
}

// callbackFor returns the callback factory for the bindings of ck.
// Bindings without a script only log.
func (app *Application) callbackFor(ck *compiledKeymap) keymap.CallbackFactory {
	log := app.logger.WithComponent("bindings")
	return func(i int, b keymap.Binding) keymap.Callback {
		script := ck.scripts[i]
		return func(hk string) {
			log.Debug("fired %q (%s)", hk, b.Description)
			if script == nil {
				return
			}
			if err := app.runner.Run(context.Background(), script, action.Vars{Hotkey: hk}); err != nil {
				log.Error("%v", NewOperationError("run", hk, err))
			}
		}
	}
}

// LoadBindings loads the bindings file or directory and replaces the
// bindings loaded before. On error the previous bindings stay registered.
func (app *Application) LoadBindings() error {
	if app.bindingsPath == "" {
		return ErrNoBindings
	}

	compiled, err := app.loadKeymaps(app.bindingsPath)
	if err != nil {
		return NewOperationError("load", app.bindingsPath, err)
	}

	app.mu.Lock()
	defer app.mu.Unlock()

	var ids []keymap.EntryID
	bindings := 0
	for _, ck := range compiled {
		added, err := app.handler.RegisterKeymap(ck.km, app.callbackFor(ck))
		if err != nil {
			app.handler.RemoveEntries(ids)
			return NewOperationError("register", ck.km.Source, err)
		}
		ids = append(ids, added...)
		bindings += len(ck.km.Bindings)
	}
	app.handler.RemoveEntries(app.bindingIDs)
	app.bindingIDs = ids

	app.logger.WithComponent("bindings").Info("loaded %d bindings from %s (%d keymaps, %d entries)",
		bindings, app.bindingsPath, len(compiled), len(ids))
	return nil
}

// BindingCount returns how many registry entries the bindings file
// produced.
func (app *Application) BindingCount() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return len(app.bindingIDs)
}

// startWatcher reloads the bindings when they change. A removed or renamed
// bindings file keeps the current bindings; inside a bindings directory
// any change reloads.
func (app *Application) startWatcher() error {
	w := watcher.New(watcher.WithDebounce(app.cfg.ReloadDelay()))

	info, err := os.Stat(app.bindingsPath)
	isDir := err == nil && info.IsDir()
	if isDir {
		err = w.WatchDir(app.bindingsPath)
	} else {
		err = w.Watch(app.bindingsPath)
	}
	if err != nil {
		return err
	}

	log := app.logger.WithComponent("bindings")
	w.OnChange(func(ev watcher.Event) {
		if isDir {
			if _, err := keymap.FormatFromPath(ev.Path); err != nil {
				return
			}
		} else if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			log.Warn("%s %s, keeping current bindings", ev.Path, ev.Op)
			return
		}
		if err := app.LoadBindings(); err != nil {
			log.Error("reload failed, keeping current bindings: %v", err)
		}
	})
	w.OnError(func(err error) {
		log.Warn("watcher: %v", err)
	})

	if err := w.Start(); err != nil {
		return err
	}

	app.mu.Lock()
	app.watcher = w
	app.mu.Unlock()
	return nil
}

func (app *Application) stopWatcher() {
	app.mu.Lock()
	w := app.watcher
	app.watcher = nil
	app.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}
