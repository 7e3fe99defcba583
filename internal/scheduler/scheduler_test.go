package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/overlay"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type state struct {
	preset  face.PresetID
	pattern face.PatternID
	enabled bool
	scroll  int
	pix     []rgb565.Color
}

// pixels returns a copy of every pixel of m, row by row.
func pixels(m *matrix.Matrix) []rgb565.Color {
	w, h := m.GetDimensions()
	out := make([]rgb565.Color, 0, w*h)
	row := make([]rgb565.Color, w)
	for y := 0; y < h; y++ {
		row = m.Row(y, row)
		out = append(out, row...)
	}
	return out
}

func equalPixels(a, b []rgb565.Color) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// recordingDisplay reports controller state on every Show. Show runs on the
// scheduler goroutine, so reading the controller there is safe.
type recordingDisplay struct {
	ctl   *face.Controller
	shows chan state
	err   error
}

func (d *recordingDisplay) Show(m *matrix.Matrix) error {
	st := state{
		preset:  d.ctl.PresetID(),
		pattern: d.ctl.PatternID(),
		enabled: d.ctl.Enabled(),
		scroll:  d.ctl.Scroll(),
		pix:     pixels(m),
	}
	select {
	case d.shows <- st:
	default:
	}
	return d.err
}

func (d *recordingDisplay) Close() error { return nil }

var fastVariant = &face.Variant{
	Name:    "fast",
	Height:  16,
	Presets: face.MatrixClock.Presets,
	Patterns: []face.PatternEntry{
		{Pattern: face.ScrollH, Interval: time.Millisecond},
		{Pattern: face.Blocks, Interval: time.Millisecond},
	},
	DefaultPreset:  1,
	DefaultPattern: 0,
}

func setup(t *testing.T, opts ...Option) (*Scheduler, *recordingDisplay) {
	t.Helper()
	m, err := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: 16})
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}
	ctl, err := face.NewController(fastVariant, 16, m)
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	d := &recordingDisplay{ctl: ctl, shows: make(chan state, 1024)}
	return New(ctl, m, d, opts...), d
}

func start(t *testing.T, s *Scheduler) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(time.Second):
			t.Fatal("Run() did not return after cancel")
			return nil
		}
	}
}

func waitFor(t *testing.T, d *recordingDisplay, ok func(state) bool) state {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st := <-d.shows:
			if ok(st) {
				return st
			}
		case <-timeout:
			t.Fatal("timed out waiting for frame")
			return state{}
		}
	}
}

func TestRunTicks(t *testing.T) {
	s, d := setup(t)
	stop := start(t, s)

	first := waitFor(t, d, func(state) bool { return true })
	if first.scroll != 0 {
		t.Errorf("first frame scroll = %d, want 0", first.scroll)
	}
	waitFor(t, d, func(st state) bool { return st.scroll >= 5 })

	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunAppliesRequests(t *testing.T) {
	s, d := setup(t)
	stop := start(t, s)
	defer stop()

	if err := s.Submit(Request{Command: CyclePreset}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	waitFor(t, d, func(st state) bool { return st.preset == 2 })

	s.Submit(Request{Command: ApplyPreset, ID: 15})
	waitFor(t, d, func(st state) bool { return st.preset == 15 })

	s.Submit(Request{Command: CyclePreset})
	waitFor(t, d, func(st state) bool { return st.preset == 1 })

	s.Submit(Request{Command: CyclePattern})
	waitFor(t, d, func(st state) bool { return st.pattern == 1 })

	s.Submit(Request{Command: SelectPattern, ID: 0})
	waitFor(t, d, func(st state) bool { return st.pattern == 0 })

	// Out of range requests are ignored.
	s.Submit(Request{Command: ApplyPreset, ID: 99})
	s.Submit(Request{Command: SelectPattern, ID: 99})
	waitFor(t, d, func(state) bool { return true })
	st := waitFor(t, d, func(state) bool { return true })
	if st.preset != 1 || st.pattern != 0 {
		t.Errorf("state after ignored requests = %+v", st)
	}
}

func TestRunDisabledKeepsClockMoving(t *testing.T) {
	calls := 0
	clock := &overlay.Clock{Now: func() time.Time {
		// one minute later on every frame
		calls++
		return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(calls) * time.Minute)
	}}
	s, d := setup(t, WithOverlay(clock.Draw))
	stop := start(t, s)
	defer stop()

	waitFor(t, d, func(st state) bool { return st.scroll >= 2 })
	s.Submit(Request{Command: Disable})
	first := waitFor(t, d, func(st state) bool { return !st.enabled })
	surface := pixels(s.matrix)

	prev := first
	for i := 0; i < 20; i++ {
		st := waitFor(t, d, func(state) bool { return true })
		if st.enabled {
			t.Fatal("frame reports enabled after Disable")
		}
		if st.scroll != first.scroll {
			t.Errorf("scroll moved from %d to %d while disabled", first.scroll, st.scroll)
		}
		if equalPixels(st.pix, prev.pix) {
			t.Fatalf("frame %d shows the same digits as the previous frame", i)
		}
		prev = st
	}

	if !equalPixels(pixels(s.matrix), surface) {
		t.Error("face surface changed while disabled")
	}

	s.Submit(Request{Command: Toggle})
	st := waitFor(t, d, func(st state) bool { return st.enabled })
	if st.scroll < first.scroll {
		t.Errorf("scroll after toggle = %d, want at least %d", st.scroll, first.scroll)
	}
}

func TestOverlayDrawsOnCopy(t *testing.T) {
	s, d := setup(t, WithOverlay(func(m *matrix.Matrix, ink face.Ink) {
		m.Fill(face.White)
	}))
	stop := start(t, s)
	defer stop()

	st := waitFor(t, d, func(st state) bool { return st.scroll >= 3 })
	for i, c := range st.pix {
		if c != face.White {
			t.Fatalf("shown pixel %d = %#04x, want the overlay fill", i, c)
		}
	}
	for i, c := range pixels(s.matrix) {
		if c == face.White {
			t.Fatalf("face pixel %d carries the overlay fill", i)
		}
	}
}

func TestOverlayRunsBeforeShow(t *testing.T) {
	inks := make(chan face.Ink, 1024)
	s, d := setup(t, WithOverlay(func(m *matrix.Matrix, ink face.Ink) {
		select {
		case inks <- ink:
		default:
		}
	}))
	stop := start(t, s)
	defer stop()

	waitFor(t, d, func(state) bool { return true })
	select {
	case ink := <-inks:
		if ink != face.BlackInk {
			t.Errorf("overlay ink = %v, want black", ink)
		}
	default:
		t.Error("overlay was not called before show")
	}
}

func TestShowErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s, d := setup(t, WithLogger(zap.New(core)))
	d.err = errors.New("bus stalled")
	stop := start(t, s)

	waitFor(t, d, func(st state) bool { return st.scroll >= 3 })
	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if n := logs.FilterMessage("show frame").Len(); n < 3 {
		t.Errorf("logged %d show errors, want at least 3", n)
	}
}

func TestSubmitQueueFull(t *testing.T) {
	s, _ := setup(t, WithQueueSize(1))
	if err := s.Submit(Request{Command: CyclePattern}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if err := s.Submit(Request{Command: CyclePattern}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Submit() error = %v, want ErrQueueFull", err)
	}
}

func TestCommandString(t *testing.T) {
	tests := map[Command]string{
		CyclePattern:  "cycle-pattern",
		CyclePreset:   "cycle-preset",
		Toggle:        "toggle",
		Disable:       "disable",
		Enable:        "enable",
		SelectPattern: "select-pattern",
		ApplyPreset:   "apply-preset",
		Command(42):   "unknown",
	}
	for c, want := range tests {
		if got := c.String(); got != want {
			t.Errorf("Command(%d).String() = %q, want %q", int(c), got, want)
		}
	}
}
