package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine renders the bottom row: pending chord on the left, the last
// resolved command on the right, or a message across the whole row.
type StatusLine struct {
	screen tcell.Screen

	mu          sync.Mutex
	pending     string
	last        string
	message     string
	messageType MessageType
}

// NewStatusLine creates a status line drawing on screen.
func NewStatusLine(screen tcell.Screen) *StatusLine {
	return &StatusLine{screen: screen}
}

// Hooks returns interpreter hooks that keep the status line current and
// redraw it on every change.
func (s *StatusLine) Hooks() input.Hooks {
	return input.Hooks{
		OnPending: func(seq key.Sequence) {
			s.mu.Lock()
			s.pending = seq.String()
			if len(seq) > 0 {
				s.message = ""
			}
			s.mu.Unlock()
			s.Draw()
		},
		OnResolve: func(seq key.Sequence, how input.Resolution) {
			s.mu.Lock()
			s.last = seq.String() + " (" + how.String() + ")"
			s.mu.Unlock()
			s.Draw()
		},
		OnMismatch: func(seq key.Sequence) {
			s.mu.Lock()
			s.message = seq.String() + " is not bound"
			s.messageType = MessageWarning
			s.mu.Unlock()
			s.Draw()
		},
	}
}

// SetLast records the last executed command name.
func (s *StatusLine) SetLast(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = text
}

// SetMessage displays a status message until the next chord starts.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = ""
	s.messageType = MessageNone
}

// Text returns the left and right halves as they would be drawn.
func (s *StatusLine) Text() (left, right string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leftText(), s.last
}

func (s *StatusLine) leftText() string {
	if s.message != "" {
		return s.message
	}
	if s.pending != "" {
		return s.pending + " ..."
	}
	return ""
}

// Draw renders the status line on the last screen row and shows it.
func (s *StatusLine) Draw() {
	s.mu.Lock()
	left := s.leftText()
	right := s.last
	msgType := s.messageType
	hasMessage := s.message != ""
	s.mu.Unlock()

	width, height := s.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	row := height - 1

	barStyle := tcell.StyleDefault.Reverse(true)
	leftStyle := barStyle
	if hasMessage {
		switch msgType {
		case MessageError:
			leftStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
		case MessageWarning:
			leftStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
	}

	// Clear the line first
	for x := 0; x < width; x++ {
		s.screen.SetContent(x, row, ' ', nil, barStyle)
	}

	col := drawText(s.screen, 1, row, width, left, leftStyle)

	// Right side only if it fits after the left text
	runes := []rune(right)
	start := width - len(runes) - 1
	if start > col {
		drawText(s.screen, start, row, width, right, barStyle)
	}

	s.screen.Show()
}

// drawText writes text from column x, clipped at width, and returns the
// column after the last rune written.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= width {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
