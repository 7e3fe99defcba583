// Package termview shows matrix frames in a terminal. Each character cell
// carries two pixels stacked vertically using the upper half block glyph.
package termview

import (
	"context"
	"errors"
	"sync"

	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
	"github.com/gdamore/tcell/v2"
)

const halfBlock = '▀'

// ErrQuit is returned by ReadKeys when the user asks to leave.
var ErrQuit = errors.New("termview: quit")

// View draws frames on a tcell screen.
type View struct {
	mu     sync.Mutex
	screen tcell.Screen
	status string
	closed bool
}

// Open initializes the terminal.
func Open() (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen), nil
}

// New wraps an initialized screen.
func New(screen tcell.Screen) *View {
	screen.Clear()
	return &View{screen: screen}
}

// SetStatus sets the line printed under the panel on the next Show.
func (v *View) SetStatus(s string) {
	v.mu.Lock()
	v.status = s
	v.mu.Unlock()
}

func style(top, bottom rgb565.Color) tcell.Style {
	return tcell.StyleDefault.
		Foreground(cellColor(top)).
		Background(cellColor(bottom))
}

func cellColor(c rgb565.Color) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Show draws m in the top left corner of the terminal.
func (v *View) Show(m *matrix.Matrix) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errors.New("termview: closed")
	}

	width, height := m.GetDimensions()
	top := make([]rgb565.Color, width)
	bottom := make([]rgb565.Color, width)
	for y := 0; y < height; y += 2 {
		top = m.Row(y, top)
		// past the last row reads as black
		bottom = m.Row(y+1, bottom)
		for x := 0; x < width; x++ {
			v.screen.SetContent(x, y/2, halfBlock, nil, style(top[x], bottom[x]))
		}
	}

	row := (height+1)/2 + 1
	cols, _ := v.screen.Size()
	text := []rune(v.status)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(text) {
			r = text[x]
		}
		v.screen.SetContent(x, row, r, nil, tcell.StyleDefault)
	}
	v.screen.Show()
	return nil
}

// ReadKeys passes every typed rune to fn until Escape or Ctrl-C is pressed,
// ctx is done or the view is closed.
func (v *View) ReadKeys(ctx context.Context, fn func(r rune)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return ErrQuit
			case tcell.KeyRune:
				fn(ev.Rune())
			}
		case *tcell.EventResize:
			v.mu.Lock()
			v.screen.Sync()
			v.mu.Unlock()
		}
	}
}

// Close restores the terminal.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.closed = true
		v.screen.Fini()
	}
	return nil
}
