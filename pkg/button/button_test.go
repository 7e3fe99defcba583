package button

import (
	"errors"
	"testing"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
)

type fakeLine struct {
	offset int
	closed bool
	err    error
}

func (l *fakeLine) Close() error {
	l.closed = true
	return l.err
}

// fakeChip hands out fake lines and keeps their event handlers so tests
// can inject edges.
type fakeChip struct {
	lines    map[int]*fakeLine
	handlers map[int]gpiocdev.EventHandler
	debounce time.Duration
	failOn   int
	closeErr error
}

func newFakeChip() *fakeChip {
	return &fakeChip{
		lines:    make(map[int]*fakeLine),
		handlers: make(map[int]gpiocdev.EventHandler),
		failOn:   -1,
	}
}

func (c *fakeChip) request(chip string, offset int, debounce time.Duration, eh gpiocdev.EventHandler) (closer, error) {
	if offset == c.failOn {
		return nil, errors.New("line busy")
	}
	l := &fakeLine{offset: offset, err: c.closeErr}
	c.lines[offset] = l
	c.handlers[offset] = eh
	c.debounce = debounce
	return l, nil
}

func (c *fakeChip) edge(offset int, typ gpiocdev.LineEventType) {
	c.handlers[offset](gpiocdev.LineEvent{Offset: offset, Type: typ})
}

func TestWatchDeliversPresses(t *testing.T) {
	chip := newFakeChip()
	var pattern, palette int
	s, err := watch(Config{
		Chip: "gpiochip0",
		Bindings: []Binding{
			{Name: "pattern", Offset: 19, Handler: func() { pattern++ }},
			{Name: "palette", Offset: 25, Handler: func() { palette++ }},
			{Name: "toggle", Offset: -1, Handler: func() {}},
		},
	}, chip.request)
	if err != nil {
		t.Fatalf("watch() error = %v", err)
	}
	defer s.Close()

	if len(chip.lines) != 2 {
		t.Fatalf("requested %d lines, want 2", len(chip.lines))
	}
	if chip.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", chip.debounce, DefaultDebounce)
	}

	chip.edge(19, gpiocdev.LineEventFallingEdge)
	chip.edge(19, gpiocdev.LineEventRisingEdge)
	chip.edge(25, gpiocdev.LineEventFallingEdge)
	chip.edge(25, gpiocdev.LineEventFallingEdge)

	if pattern != 1 || palette != 2 {
		t.Errorf("presses pattern=%d palette=%d, want 1 and 2", pattern, palette)
	}
	if got := s.Presses("palette"); got != 2 {
		t.Errorf("Presses(palette) = %d, want 2", got)
	}
	if got := s.Presses("toggle"); got != 0 {
		t.Errorf("Presses(toggle) = %d, want 0", got)
	}
}

func TestWatchErrors(t *testing.T) {
	tests := []struct {
		name     string
		bindings []Binding
		failOn   int
	}{
		{
			name:     "nil handler",
			bindings: []Binding{{Name: "a", Offset: 1}},
			failOn:   -1,
		},
		{
			name: "duplicate line",
			bindings: []Binding{
				{Name: "a", Offset: 1, Handler: func() {}},
				{Name: "b", Offset: 1, Handler: func() {}},
			},
			failOn: -1,
		},
		{
			name: "request fails",
			bindings: []Binding{
				{Name: "a", Offset: 1, Handler: func() {}},
				{Name: "b", Offset: 2, Handler: func() {}},
			},
			failOn: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chip := newFakeChip()
			chip.failOn = tt.failOn
			if _, err := watch(Config{Bindings: tt.bindings}, chip.request); err == nil {
				t.Fatal("watch() succeeded")
			}
			for off, l := range chip.lines {
				if !l.closed {
					t.Errorf("line %d left open after failure", off)
				}
			}
		})
	}
}

func TestCloseCombinesErrors(t *testing.T) {
	chip := newFakeChip()
	chip.closeErr = errors.New("close failed")
	s, err := watch(Config{
		Debounce: 5 * time.Millisecond,
		Bindings: []Binding{
			{Name: "a", Offset: 1, Handler: func() {}},
			{Name: "b", Offset: 2, Handler: func() {}},
		},
	}, chip.request)
	if err != nil {
		t.Fatalf("watch() error = %v", err)
	}
	if chip.debounce != 5*time.Millisecond {
		t.Errorf("debounce = %v, want 5ms", chip.debounce)
	}

	err = s.Close()
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("Close() returned %d errors, want 2", got)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
