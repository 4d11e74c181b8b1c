package app

import (
	"fmt"

	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/script"
	"github.com/dshills/keychord/internal/terminal"
)

// loadBindings layers the keymap file and the script over the defaults
// and builds the trie. The returned host is nil when no script is set.
func (app *Application) loadBindings() (*keymap.Keymap, *keymap.Trie[string], *script.Host, error) {
	km := keymap.Default()

	if path := app.config.KeymapPath; path != "" {
		user, err := app.loader.LoadFile(path)
		if err != nil {
			return nil, nil, nil, NewComponentError("keymap", "load", err)
		}
		km = keymap.Merge(km, user)
	}

	var host *script.Host
	if path := app.config.ScriptPath; path != "" {
		host = script.New(script.WithLogger(app.logger))
		if err := host.LoadFile(path); err != nil {
			_ = host.Close()
			return nil, nil, nil, NewComponentError("script", "load", err)
		}
		km = keymap.Merge(km, host.Keymap())
	}

	bindings, err := km.Compile()
	if err == nil {
		var trie *keymap.Trie[string]
		trie, err = keymap.Build(bindings, keymap.WithLogger(app.logger))
		if err == nil {
			return km, trie, host, nil
		}
	}

	if host != nil {
		_ = host.Close()
	}
	return nil, nil, nil, NewComponentError("keymap", "build", err)
}

// Reload re-reads the keymap file and script and swaps the interpreter's
// bindings. On failure the current bindings stay in place.
func (app *Application) Reload() error {
	km, trie, host, err := app.loadBindings()
	if err != nil {
		app.logger.Error("reload failed", "error", err)
		app.status.SetMessage("reload failed: "+err.Error(), terminal.MessageError)
		app.draw()
		return err
	}

	if err := app.interp.SetTrie(trie); err != nil {
		if host != nil {
			_ = host.Close()
		}
		return NewComponentError("interpreter", "swap bindings", err)
	}

	app.mu.Lock()
	old := app.script
	app.script = host
	app.keymap = km
	app.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	app.logger.Info("bindings reloaded", "bindings", len(km.Bindings), "source", km.Source)
	app.refreshPanel()
	app.status.SetMessage(fmt.Sprintf("reloaded %d bindings", len(km.Bindings)), terminal.MessageInfo)
	app.draw()
	return nil
}
