package app

import (
	"time"

	"github.com/dshills/keychord/internal/terminal"
)

// historySize bounds the command history view.
const historySize = 200

// registerHandlers registers the commands the host itself implements.
// Everything else goes to the fallback.
func (app *Application) registerHandlers() {
	r := app.router

	// Navigation
	r.Handle("entry.next", func() error { app.panel.Move(1); return nil })
	r.Handle("entry.previous", func() error { app.panel.Move(-1); return nil })
	r.Handle("scroll.top", func() error { app.panel.Top(); return nil })
	r.Handle("scroll.bottom", func() error { app.panel.Bottom(); return nil })
	r.Handle("scroll.pageDown", func() error { app.panel.Page(1, false); return nil })
	r.Handle("scroll.pageUp", func() error { app.panel.Page(-1, false); return nil })
	r.Handle("scroll.halfDown", func() error { app.panel.Page(1, true); return nil })
	r.Handle("scroll.halfUp", func() error { app.panel.Page(-1, true); return nil })

	// Views
	r.Handle("app.help", func() error { app.setView(viewBindings); return nil })
	r.Handle("app.toggleSidebar", func() error {
		app.mu.RLock()
		v := app.view
		app.mu.RUnlock()
		if v == viewHistory {
			app.setView(viewBindings)
		} else {
			app.setView(viewHistory)
		}
		return nil
	})
	r.Handle("app.cancel", func() error {
		app.status.ClearMessage()
		app.setView(viewBindings)
		return nil
	})

	// Lifecycle
	r.Handle("stream.reload", app.Reload)
	r.Handle("app.quit", func() error { app.Quit(); return nil })
}

// fallback runs script commands and reports anything else on the status line.
func (app *Application) fallback(name string) error {
	app.mu.RLock()
	host := app.script
	app.mu.RUnlock()

	if host != nil && host.Has(name) {
		return host.Invoke(name)
	}
	app.status.SetMessage(name+" (no handler)", terminal.MessageInfo)
	return nil
}

// execute is the queue handler: it dispatches one command, records it and
// redraws.
func (app *Application) execute(name string) {
	err := app.dispatch(name)
	if err != nil {
		app.logger.Warn("command failed", "command", name, "error", err)
		app.status.SetMessage(err.Error(), terminal.MessageError)
	}
	app.recordHistory(name, err)
	app.status.SetLast(name)
	app.draw()
}

// dispatch runs the command, converting a handler panic into an error.
func (app *Application) dispatch(name string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Command: name, Value: r}
		}
	}()
	return app.router.Dispatch(name)
}

// recordHistory appends to the bounded history.
func (app *Application) recordHistory(name string, err error) {
	line := time.Now().Format("15:04:05") + "  " + name
	if err != nil {
		line += "  error: " + err.Error()
	}

	app.mu.Lock()
	app.history = append(app.history, line)
	if len(app.history) > historySize {
		app.history = app.history[len(app.history)-historySize:]
	}
	showing := app.view == viewHistory
	app.mu.Unlock()

	if showing {
		app.refreshPanel()
	}
}
