package face

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Controller owns the clock face state: palette store, selected pattern and
// scroll counter. It is not safe for concurrent use; every call is expected
// from the one goroutine that drives ticks.
type Controller struct {
	variant  *Variant
	geometry Geometry
	store    *PaletteStore
	surface  Surface
	rand     Rand
	log      *zap.Logger

	pattern PatternID
	enabled bool
	scroll  int
}

// Option configures a Controller.
type Option func(*Controller) error

// WithRand sets the random source used by the random and sparkle patterns.
// A nil source keeps the default one.
func WithRand(r Rand) Option {
	return func(c *Controller) error {
		if r != nil {
			c.rand = r
		}
		return nil
	}
}

// WithLogger sets the logger state changes are reported to. A nil logger
// keeps the default no-op one.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) error {
		if l != nil {
			c.log = l
		}
		return nil
	}
}

// WithPreset overrides the variant's default preset.
func WithPreset(id PresetID) Option {
	return func(c *Controller) error {
		if !c.store.ApplyPreset(id) {
			return fmt.Errorf("face: preset %d out of range", id)
		}
		return nil
	}
}

// WithPattern overrides the variant's default pattern.
func WithPattern(id PatternID) Option {
	return func(c *Controller) error {
		if !c.inRange(id) {
			return fmt.Errorf("face: pattern %d out of range", id)
		}
		c.pattern = id
		return nil
	}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// NewController creates a controller painting v's patterns onto surface at
// the given panel height. The variant's default preset and pattern are
// active on return.
func NewController(v *Variant, height int, surface Surface, opts ...Option) (*Controller, error) {
	if v == nil {
		return nil, errors.New("face: nil variant")
	}
	if surface == nil {
		return nil, errors.New("face: nil surface")
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	geometry, err := NewGeometry(height)
	if err != nil {
		return nil, err
	}
	store, err := NewPaletteStore(v.Presets, v.DefaultPreset)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		variant:  v,
		geometry: geometry,
		store:    store,
		surface:  surface,
		rand:     globalRand{},
		log:      zap.NewNop(),
		pattern:  v.DefaultPattern,
		enabled:  true,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ApplyPreset switches to preset id. Ids outside the table leave the
// current palette and ink in place and return false.
func (c *Controller) ApplyPreset(id PresetID) bool {
	if !c.store.ApplyPreset(id) {
		c.log.Debug("preset out of range, keeping current",
			zap.Int("preset", int(id)),
			zap.Int("current", int(c.store.ID())))
		return false
	}
	c.log.Debug("preset applied",
		zap.Int("preset", int(id)),
		zap.String("name", c.variant.Presets[id-1].Name))
	return true
}

// CyclePreset moves to the next preset, wrapping from the last to 1.
func (c *Controller) CyclePreset() PresetID {
	id := c.store.CyclePreset()
	c.log.Debug("preset cycled", zap.Int("preset", int(id)))
	return id
}

// SelectPattern makes pattern id active. Ids outside the table are ignored
// and return false.
func (c *Controller) SelectPattern(id PatternID) bool {
	if !c.inRange(id) {
		c.log.Debug("pattern out of range", zap.Int("pattern", int(id)))
		return false
	}
	c.pattern = id
	c.enabled = true
	c.log.Debug("pattern selected",
		zap.Int("pattern", int(id)),
		zap.Stringer("algorithm", c.variant.Patterns[id].Pattern))
	return true
}

// CyclePattern selects the next pattern, wrapping from the last to 0.
func (c *Controller) CyclePattern() PatternID {
	next := c.pattern + 1
	if int(next) >= len(c.variant.Patterns) {
		next = 0
	}
	c.SelectPattern(next)
	return next
}

// Disable stops painting. The last frame stays on the surface.
func (c *Controller) Disable() {
	c.enabled = false
	c.log.Debug("pattern disabled")
}

// Enable resumes painting the selected pattern.
func (c *Controller) Enable() {
	c.enabled = true
	c.log.Debug("pattern enabled", zap.Int("pattern", int(c.pattern)))
}

// Toggle flips between enabled and disabled and returns the new state.
func (c *Controller) Toggle() bool {
	if c.enabled {
		c.Disable()
	} else {
		c.Enable()
	}
	return c.enabled
}

// Tick advances the scroll counter and repaints the surface. It does
// nothing and returns false while disabled.
func (c *Controller) Tick() bool {
	if !c.enabled {
		return false
	}
	c.scroll = (c.scroll + 1) % ScrollWrap
	c.paint()
	return true
}

// Repaint paints the current frame again without advancing the scroll
// counter. It does nothing while disabled.
func (c *Controller) Repaint() bool {
	if !c.enabled {
		return false
	}
	c.paint()
	return true
}

func (c *Controller) paint() {
	f := Frame{
		Palette:  c.store.Palette(),
		Scroll:   c.scroll,
		Geometry: c.geometry,
		Rand:     c.rand,
	}
	c.variant.Patterns[c.pattern].Pattern.Paint(c.surface, &f)
}

func (c *Controller) inRange(id PatternID) bool {
	return id >= 0 && int(id) < len(c.variant.Patterns)
}

// Interval returns how often the selected pattern wants to be ticked.
func (c *Controller) Interval() time.Duration {
	return c.variant.Patterns[c.pattern].Interval
}

// Pattern returns the algorithm of the selected pattern.
func (c *Controller) Pattern() Pattern {
	return c.variant.Patterns[c.pattern].Pattern
}

// PatternID returns the selected pattern slot.
func (c *Controller) PatternID() PatternID { return c.pattern }

// PresetID returns the active preset.
func (c *Controller) PresetID() PresetID { return c.store.ID() }

// Enabled reports whether ticks paint.
func (c *Controller) Enabled() bool { return c.enabled }

// Scroll returns the scroll counter.
func (c *Controller) Scroll() int { return c.scroll }

// Palette returns the active palette.
func (c *Controller) Palette() Palette { return c.store.Palette() }

// Ink returns the digit colors for the host overlay.
func (c *Controller) Ink() Ink { return c.store.Ink() }

// Geometry returns the panel size being painted.
func (c *Controller) Geometry() Geometry { return c.geometry }

// Variant returns the tables the controller runs.
func (c *Controller) Variant() *Variant { return c.variant }
