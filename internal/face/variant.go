package face

import (
	"fmt"
	"time"

	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
)

// PatternID selects an entry of a variant's pattern table, starting at 0.
type PatternID int

// PatternEntry binds a pattern table slot to an algorithm and the tick
// interval it runs at.
type PatternEntry struct {
	Pattern  Pattern
	Interval time.Duration
}

// Variant is one deployment's fixed preset and pattern tables.
type Variant struct {
	Name           string
	Height         int
	Presets        []Preset
	Patterns       []PatternEntry
	DefaultPreset  PresetID
	DefaultPattern PatternID
}

// Validate checks that both tables are usable.
func (v *Variant) Validate() error {
	if len(v.Presets) == 0 || len(v.Patterns) == 0 {
		return fmt.Errorf("face: variant %q has an empty table", v.Name)
	}
	for i, p := range v.Presets {
		if p.Size < 1 || p.Size > MaxColors {
			return fmt.Errorf("face: variant %q preset %d: %w", v.Name, i+1, ErrPaletteSize)
		}
	}
	for i, e := range v.Patterns {
		if !e.Pattern.Valid() {
			return fmt.Errorf("face: variant %q pattern %d: unknown algorithm %v", v.Name, i, e.Pattern)
		}
		if e.Interval <= 0 {
			return fmt.Errorf("face: variant %q pattern %d: non-positive interval", v.Name, i)
		}
	}
	if v.DefaultPreset < 1 || int(v.DefaultPreset) > len(v.Presets) {
		return fmt.Errorf("face: variant %q default preset %d out of range", v.Name, v.DefaultPreset)
	}
	if v.DefaultPattern < 0 || int(v.DefaultPattern) >= len(v.Patterns) {
		return fmt.Errorf("face: variant %q default pattern %d out of range", v.Name, v.DefaultPattern)
	}
	return nil
}

// commonPresets are presets 1-8, shared by both clocks.
var commonPresets = []Preset{
	six("rainbow", Red, Orange, Yellow, Green, Blue, Purple, BlackInk),
	six("rainbow white", Red, Orange, Yellow, Green, Blue, Purple, WhiteInk),
	four("rbyw", Red, Blue, Yellow, White, BlackInk),
	four("rgbw", PureRed, PureGreen, PureBlue, White, BlackInk),
	four("cmyk", Cyan, Magenta, Yellow, Black, WhiteInk),
	six("pastel",
		rgb565.Pack(204, 232, 219), rgb565.Pack(193, 212, 227),
		rgb565.Pack(190, 180, 214), rgb565.Pack(250, 218, 226),
		rgb565.Pack(248, 179, 202), rgb565.Pack(204, 151, 193), BlackInk),
	six("wilderness",
		rgb565.Pack(63, 53, 53), rgb565.Pack(169, 92, 74),
		rgb565.Pack(214, 175, 116), rgb565.Pack(135, 163, 100),
		rgb565.Pack(74, 138, 118), rgb565.Pack(61, 80, 112), BlackInk),
	four("duke", DukeBlue, Gray, White, DukeBlue, BlackInk),
}

// MatrixClock is the 32x16 clock with fifteen presets and twelve patterns.
var MatrixClock = &Variant{
	Name:   "matrix",
	Height: 16,
	Presets: append(append([]Preset(nil), commonPresets...),
		four("purple yellow", Purple, Yellow, Purple, Yellow, WhiteInk),
		four("orange blue", Orange, Black, Blue, Black, WhiteInk),
		four("monochrome",
			rgb565.Pack(15, 15, 15), rgb565.Pack(100, 100, 100),
			rgb565.Pack(15, 15, 15), rgb565.Pack(100, 100, 100), WhiteInk),
		four("neon night",
			rgb565.Pack(10, 0, 60), rgb565.Pack(255, 0, 120),
			rgb565.Pack(0, 200, 80), rgb565.Pack(0, 80, 255), WhiteInk),
		four("ember",
			rgb565.Pack(120, 10, 0), rgb565.Pack(200, 70, 0),
			rgb565.Pack(160, 100, 0), rgb565.Pack(60, 0, 70), WhiteInk),
		four("deep ocean",
			rgb565.Pack(0, 20, 100), rgb565.Pack(0, 80, 180),
			rgb565.Pack(0, 160, 140), rgb565.Pack(0, 40, 80), WhiteInk),
		four("candy",
			rgb565.Pack(220, 0, 100), rgb565.Pack(160, 0, 200),
			rgb565.Pack(0, 140, 220), rgb565.Pack(0, 180, 130), WhiteInk),
	),
	Patterns: []PatternEntry{
		{ScrollDiagonal, 100 * time.Millisecond},
		{Diagonal, 100 * time.Millisecond},
		{Blocks, 100 * time.Millisecond},
		{HThin, 100 * time.Millisecond},
		{HThick, 100 * time.Millisecond},
		{VThin, 100 * time.Millisecond},
		{VThick, 100 * time.Millisecond},
		{Random, 100 * time.Millisecond},
		{ScrollH, 100 * time.Millisecond},
		{Checker, 100 * time.Millisecond},
		{Bounce, 100 * time.Millisecond},
		{Sparkle, 100 * time.Millisecond},
	},
	DefaultPreset:  1,
	DefaultPattern: 0,
}

// EllaClock is the 32x11 clock with eleven presets and eight patterns.
// Slot 6 runs h_thick a second time; the table is kept as shipped.
var EllaClock = &Variant{
	Name:   "ella",
	Height: 11,
	Presets: append(append([]Preset(nil), commonPresets...),
		four("purple yellow", Purple, Yellow, Purple, Yellow, Ink{Yellow, Purple, Yellow, Purple}),
		four("orange blue", Orange, Black, Blue, Black, Ink{Blue, Orange, Orange, Blue}),
		four("monochrome", Black, White, Black, White, Ink{Gray, Gray, Gray, Gray}),
	),
	Patterns: []PatternEntry{
		{ScrollDiagonal, 100 * time.Millisecond},
		{Diagonal, 25 * time.Millisecond},
		{Blocks, 25 * time.Millisecond},
		{HThin, 100 * time.Millisecond},
		{HThick, 25 * time.Millisecond},
		{VThin, 25 * time.Millisecond},
		{HThick, 25 * time.Millisecond},
		{Random, 100 * time.Millisecond},
	},
	DefaultPreset:  1,
	DefaultPattern: 0,
}

var variants = map[string]*Variant{
	MatrixClock.Name: MatrixClock,
	EllaClock.Name:   EllaClock,
}

// LookupVariant returns the variant registered under name.
func LookupVariant(name string) (*Variant, error) {
	v, ok := variants[name]
	if !ok {
		return nil, fmt.Errorf("face: unknown variant %q", name)
	}
	return v, nil
}
