// Package scheduler drives the clock face: it ticks the controller at the
// selected pattern's interval, applies change requests and pushes every
// painted frame to the display.
//
// All controller access happens on the goroutine running Run. Other
// goroutines (button handlers, key readers) talk to it through Submit.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/types"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"go.uber.org/zap"
)

// Command is a change request kind.
type Command int

const (
	CyclePattern Command = iota
	CyclePreset
	Toggle
	Disable
	Enable
	SelectPattern
	ApplyPreset
)

func (c Command) String() string {
	switch c {
	case CyclePattern:
		return "cycle-pattern"
	case CyclePreset:
		return "cycle-preset"
	case Toggle:
		return "toggle"
	case Disable:
		return "disable"
	case Enable:
		return "enable"
	case SelectPattern:
		return "select-pattern"
	case ApplyPreset:
		return "apply-preset"
	}
	return "unknown"
}

// Request is a change to apply between ticks. ID is read by SelectPattern
// and ApplyPreset only.
type Request struct {
	Command Command
	ID      int
}

// Overlay draws on top of a copy of the face before it is shown. It never
// sees the face surface itself.
type Overlay func(m *matrix.Matrix, ink face.Ink)

// ErrQueueFull is returned by Submit when requests arrive faster than they
// are applied.
var ErrQueueFull = errors.New("scheduler: request queue full")

// Scheduler ticks a face.Controller and shows its frames.
type Scheduler struct {
	ctl      *face.Controller
	matrix   *matrix.Matrix
	out      *matrix.Matrix
	display  types.Display
	overlay  Overlay
	requests chan Request
	log      *zap.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithOverlay sets the overlay drawn on every shown frame.
func WithOverlay(o Overlay) Option {
	return func(s *Scheduler) { s.overlay = o }
}

// WithLogger sets the scheduler's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithQueueSize sets how many requests may wait for the next loop turn.
func WithQueueSize(n int) Option {
	return func(s *Scheduler) { s.requests = make(chan Request, n) }
}

// New creates a scheduler. ctl must paint onto m. Frames are composed in
// a second buffer of the same size, so m only ever holds the pattern.
func New(ctl *face.Controller, m *matrix.Matrix, display types.Display, opts ...Option) *Scheduler {
	w, h := m.GetDimensions()
	out, _ := matrix.NewMatrix(&matrix.Config{Width: w, Height: h})
	s := &Scheduler{
		ctl:      ctl,
		matrix:   m,
		out:      out,
		display:  display,
		requests: make(chan Request, 16),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit queues a request for the Run goroutine. It never blocks.
func (s *Scheduler) Submit(r Request) error {
	select {
	case s.requests <- r:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run paints the first frame and then loops until ctx is done. A frame is
// shown on every timer fire and after every request, also while the
// pattern is disabled, so the overlay keeps moving over the last pattern.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started",
		zap.String("variant", s.ctl.Variant().Name),
		zap.Int("height", s.ctl.Geometry().Height),
		zap.Stringer("pattern", s.ctl.Pattern()),
		zap.Int("preset", int(s.ctl.PresetID())))

	s.ctl.Repaint()
	s.show()

	timer := time.NewTimer(s.ctl.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			s.ctl.Tick()
			s.show()
		case r := <-s.requests:
			s.apply(r)
			s.ctl.Repaint()
			s.show()
		}
		timer.Reset(s.ctl.Interval())
	}
}

func (s *Scheduler) apply(r Request) {
	switch r.Command {
	case CyclePattern:
		s.ctl.CyclePattern()
	case CyclePreset:
		s.ctl.CyclePreset()
	case Toggle:
		s.ctl.Toggle()
	case Disable:
		s.ctl.Disable()
	case Enable:
		s.ctl.Enable()
	case SelectPattern:
		if !s.ctl.SelectPattern(face.PatternID(r.ID)) {
			s.log.Warn("pattern request ignored", zap.Int("pattern", r.ID))
		}
	case ApplyPreset:
		if !s.ctl.ApplyPreset(face.PresetID(r.ID)) {
			s.log.Warn("preset request ignored", zap.Int("preset", r.ID))
		}
	default:
		s.log.Warn("unknown request", zap.Int("command", int(r.Command)))
		return
	}
	s.log.Debug("request applied",
		zap.Stringer("command", r.Command),
		zap.Int("pattern", int(s.ctl.PatternID())),
		zap.Int("preset", int(s.ctl.PresetID())),
		zap.Bool("enabled", s.ctl.Enabled()))
}

func (s *Scheduler) show() {
	if err := s.out.CopyFrom(s.matrix); err != nil {
		s.log.Error("compose frame", zap.Error(err))
		return
	}
	if s.overlay != nil {
		s.overlay(s.out, s.ctl.Ink())
	}
	if s.display == nil {
		return
	}
	if err := s.display.Show(s.out); err != nil {
		s.log.Error("show frame", zap.Error(err))
	}
}
