package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input/keymap"
)

// Panel is a scrollable list of lines with a selected row. It fills the
// screen above the status line.
type Panel struct {
	screen tcell.Screen

	mu       sync.Mutex
	title    string
	lines    []string
	selected int
	offset   int
}

// NewPanel creates an empty panel drawing on screen.
func NewPanel(screen tcell.Screen) *Panel {
	return &Panel{screen: screen}
}

// BindingLines renders keymap entries grouped by category, one binding
// per line.
func BindingLines(entries []keymap.Entry) []string {
	var lines []string
	for _, cat := range keymap.GroupByCategory(entries) {
		lines = append(lines, "["+cat.Name+"]")
		for _, e := range cat.Entries {
			line := "  " + padRight(e.Keys, 12) + padRight(e.Command, 18)
			if e.Description != "" {
				line += e.Description
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func padRight(s string, n int) string {
	for len([]rune(s)) < n {
		s += " "
	}
	return s + " "
}

// SetTitle sets the header line.
func (p *Panel) SetTitle(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
}

// SetLines replaces the content and keeps the selection in range.
func (p *Panel) SetLines(lines []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lines = lines
	p.clamp()
}

// Selected returns the selected row index.
func (p *Panel) Selected() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// Move shifts the selection by delta rows.
func (p *Panel) Move(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected += delta
	p.clamp()
}

// Top selects the first row.
func (p *Panel) Top() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = 0
	p.clamp()
}

// Bottom selects the last row.
func (p *Panel) Bottom() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = len(p.lines) - 1
	p.clamp()
}

// Page moves the selection by pages, a page being the visible height.
// Half pages are selected with half set.
func (p *Panel) Page(pages int, half bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	step := p.visibleRows()
	if half {
		step /= 2
	}
	if step < 1 {
		step = 1
	}
	p.selected += pages * step
	p.clamp()
}

// visibleRows is the screen height minus the title and status rows.
func (p *Panel) visibleRows() int {
	_, height := p.screen.Size()
	rows := height - 2
	if rows < 1 {
		return 1
	}
	return rows
}

// clamp keeps selected within lines and the viewport on the selection.
// Callers must hold p.mu.
func (p *Panel) clamp() {
	if p.selected >= len(p.lines) {
		p.selected = len(p.lines) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}

	rows := p.visibleRows()
	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+rows {
		p.offset = p.selected - rows + 1
	}
}

// Draw renders the title and visible lines. It does not call Show.
func (p *Panel) Draw() {
	p.mu.Lock()
	defer p.mu.Unlock()

	width, height := p.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}

	// Everything above the status row
	for y := 0; y < height-1; y++ {
		for x := 0; x < width; x++ {
			p.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	drawText(p.screen, 0, 0, width, p.title, tcell.StyleDefault.Bold(true))

	rows := p.visibleRows()
	for i := 0; i < rows && p.offset+i < len(p.lines); i++ {
		idx := p.offset + i
		style := tcell.StyleDefault
		if idx == p.selected {
			style = style.Reverse(true)
		}
		drawText(p.screen, 0, i+1, width, p.lines[idx], style)
	}
}
