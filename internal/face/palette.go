package face

import (
	"errors"

	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
)

// MaxColors is the capacity of a palette.
const MaxColors = 6

// ErrPaletteSize is returned when a palette length is outside 1..MaxColors.
var ErrPaletteSize = errors.New("face: palette size must be between 1 and 6")

// Palette is the active color list. Only the first Size entries are valid.
type Palette struct {
	Colors [MaxColors]rgb565.Color
	Size   int
}

// At returns the color for index i, wrapped to the valid prefix.
func (p Palette) At(i int) rgb565.Color {
	return p.Colors[i%p.Size]
}

// Ink holds the four digit colors used by the host overlay, one per digit
// position.
type Ink [4]rgb565.Color

var (
	// BlackInk draws every digit in black.
	BlackInk = Ink{Black, Black, Black, Black}
	// WhiteInk draws every digit in white.
	WhiteInk = Ink{White, White, White, White}
)

// PresetID selects a row of a preset table. Valid ids start at 1.
type PresetID int

// Preset is one row of a preset table.
type Preset struct {
	Name   string
	Colors [MaxColors]rgb565.Color
	Size   int
	Ink    Ink
}

func six(name string, a, b, c, d, e, f rgb565.Color, ink Ink) Preset {
	return Preset{Name: name, Colors: [MaxColors]rgb565.Color{a, b, c, d, e, f}, Size: 6, Ink: ink}
}

func four(name string, a, b, c, d rgb565.Color, ink Ink) Preset {
	return Preset{Name: name, Colors: [MaxColors]rgb565.Color{a, b, c, d}, Size: 4, Ink: ink}
}

// PaletteStore holds the active palette and ink colors and applies presets
// from a fixed table.
type PaletteStore struct {
	presets []Preset
	id      PresetID
	palette Palette
	ink     Ink
}

// NewPaletteStore creates a store over presets (id 1 is presets[0]) and
// applies the preset id.
func NewPaletteStore(presets []Preset, id PresetID) (*PaletteStore, error) {
	if len(presets) == 0 {
		return nil, errors.New("face: empty preset table")
	}
	for _, p := range presets {
		if p.Size < 1 || p.Size > MaxColors {
			return nil, ErrPaletteSize
		}
	}

	s := &PaletteStore{presets: presets}
	if !s.ApplyPreset(id) {
		return nil, errors.New("face: default preset out of range")
	}
	return s, nil
}

// ApplyPreset overwrites the palette and ink with preset id. An id outside
// 1..Len() changes nothing and reports false.
func (s *PaletteStore) ApplyPreset(id PresetID) bool {
	if id < 1 || int(id) > len(s.presets) {
		return false
	}
	p := s.presets[id-1]
	if err := s.SetPalette(p.Colors[:], p.Size); err != nil {
		return false
	}
	s.SetInk(p.Ink)
	s.id = id
	return true
}

// CyclePreset advances to the next preset, wrapping from the last back to 1,
// applies it and returns its id.
func (s *PaletteStore) CyclePreset() PresetID {
	next := s.id + 1
	if int(next) > len(s.presets) {
		next = 1
	}
	s.ApplyPreset(next)
	return next
}

// SetPalette copies colors into the palette and marks the first count valid.
// Slots past len(colors) keep their previous values.
func (s *PaletteStore) SetPalette(colors []rgb565.Color, count int) error {
	if count < 1 || count > MaxColors || count > len(colors) {
		return ErrPaletteSize
	}
	copy(s.palette.Colors[:], colors)
	s.palette.Size = count
	return nil
}

// SetInk replaces all four ink colors.
func (s *PaletteStore) SetInk(ink Ink) {
	s.ink = ink
}

// ApplyBlackInk sets every digit to black.
func (s *PaletteStore) ApplyBlackInk() { s.SetInk(BlackInk) }

// ApplyWhiteInk sets every digit to white.
func (s *PaletteStore) ApplyWhiteInk() { s.SetInk(WhiteInk) }

// Palette returns a copy of the active palette.
func (s *PaletteStore) Palette() Palette { return s.palette }

// Ink returns the active ink colors.
func (s *PaletteStore) Ink() Ink { return s.ink }

// ID returns the id of the last applied preset.
func (s *PaletteStore) ID() PresetID { return s.id }

// Len returns the number of presets in the table.
func (s *PaletteStore) Len() int { return len(s.presets) }
