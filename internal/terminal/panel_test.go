package terminal

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/keychord/internal/input/keymap"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func TestPanelMovement(t *testing.T) {
	screen := newSimScreen(t) // 10 rows: title, 8 visible, status
	p := NewPanel(screen)
	p.SetLines(numberedLines(30))

	tests := []struct {
		name string
		op   func()
		want int
	}{
		{"down", func() { p.Move(1) }, 1},
		{"up past top", func() { p.Move(-5) }, 0},
		{"page down", func() { p.Page(1, false) }, 8},
		{"half page down", func() { p.Page(1, true) }, 12},
		{"half page up", func() { p.Page(-1, true) }, 8},
		{"bottom", p.Bottom, 29},
		{"down past bottom", func() { p.Move(3) }, 29},
		{"top", p.Top, 0},
	}

	for _, tt := range tests {
		tt.op()
		if got := p.Selected(); got != tt.want {
			t.Errorf("%s: Selected() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPanelEmpty(t *testing.T) {
	screen := newSimScreen(t)
	p := NewPanel(screen)

	p.Move(3)
	p.Bottom()
	if got := p.Selected(); got != 0 {
		t.Errorf("Selected() on empty panel = %d, want 0", got)
	}
	p.Draw()
}

func TestPanelDrawScrolls(t *testing.T) {
	screen := newSimScreen(t)
	p := NewPanel(screen)
	p.SetTitle("bindings")
	p.SetLines(numberedLines(30))

	p.Draw()
	if got := rowText(screen, 0); got != "bindings" {
		t.Errorf("title row = %q", got)
	}
	if got := rowText(screen, 1); got != "line 0" {
		t.Errorf("first row = %q, want line 0", got)
	}

	p.Bottom()
	p.Draw()
	if got := rowText(screen, 8); got != "line 29" {
		t.Errorf("last visible row = %q, want line 29", got)
	}
	if got := rowText(screen, 1); got != "line 22" {
		t.Errorf("first visible row = %q, want line 22", got)
	}
}

func TestBindingLines(t *testing.T) {
	entries := []keymap.Entry{
		{Keys: "j", Command: "entry.next", Description: "Next", Category: "Entries"},
		{Keys: "g g", Command: "scroll.top", Category: "Scrolling"},
		{Keys: "k", Command: "entry.previous", Category: "Entries"},
	}

	lines := BindingLines(entries)
	if len(lines) != 5 {
		t.Fatalf("len(lines) = %d, want 5: %q", len(lines), lines)
	}
	if lines[0] != "[Entries]" || lines[3] != "[Scrolling]" {
		t.Errorf("category headers = %q, %q", lines[0], lines[3])
	}
	if !strings.Contains(lines[1], "entry.next") || !strings.HasSuffix(lines[1], "Next") {
		t.Errorf("binding line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "entry.previous") {
		t.Errorf("binding line = %q", lines[2])
	}
}
