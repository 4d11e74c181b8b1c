// Package terminal connects a tcell screen to the chord interpreter.
//
// Source polls the screen for key presses and delivers them as key.Event
// values to subscribers; its Subscribe method has the shape the
// interpreter's Activate expects. StatusLine renders the pending chord and
// the last resolved command on the bottom row, driven by interpreter
// hooks. Panel is a scrollable list that the demo host moves with bound
// commands.
//
//	screen, _ := tcell.NewScreen()
//	_ = screen.Init()
//	src := terminal.New(screen)
//	defer src.Close()
//	_ = interp.Activate(src.Subscribe)
package terminal
