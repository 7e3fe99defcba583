package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/types"
	"github.com/fkcurrie/matrix-clock-face/pkg/hub75"
	"go.uber.org/zap"
)

// Config represents the application configuration
type Config struct {
	Face    types.FaceConfig    `json:"face"`
	Display types.DisplayConfig `json:"display"`
	HUB75   types.HUB75Config   `json:"hub75"`
	Buttons types.ButtonConfig  `json:"buttons"`
}

// LoadConfig loads the configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// Load returns the defaults when path is empty and the file's contents
// otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		config := DefaultConfig()
		return config, config.Validate()
	}
	return LoadConfig(path)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Face: types.FaceConfig{
			Variant: face.MatrixClock.Name,
			Height:  face.MatrixClock.Height,
			Preset:  int(face.MatrixClock.DefaultPreset),
			Pattern: int(face.MatrixClock.DefaultPattern),
		},
		Display: types.DisplayConfig{
			Chip:       "gpiochip0",
			Brightness: 255,
			Planes:     4,
		},
		// Adafruit RGB Matrix Bonnet pinout
		HUB75: types.HUB75Config{
			R1: 5, G1: 13, B1: 6,
			R2: 12, G2: 16, B2: 23,
			CLK: 17, OE: 4, LAT: 21,
			A: 22, B: 26, C: 27, D: 20, E: 24,
		},
		Buttons: types.ButtonConfig{
			Chip:       "gpiochip0",
			Pattern:    19,
			Palette:    25,
			Toggle:     -1,
			DebounceMs: 30,
		},
	}
}

// Validate checks the configuration against the selected variant
func (c *Config) Validate() error {
	v, err := face.LookupVariant(c.Face.Variant)
	if err != nil {
		return err
	}
	if _, err := face.NewGeometry(c.Face.Height); err != nil {
		return err
	}
	if c.Face.Preset < 1 || c.Face.Preset > len(v.Presets) {
		return fmt.Errorf("preset %d out of range 1..%d", c.Face.Preset, len(v.Presets))
	}
	if c.Face.Pattern < 0 || c.Face.Pattern >= len(v.Patterns) {
		return fmt.Errorf("pattern %d out of range 0..%d", c.Face.Pattern, len(v.Patterns)-1)
	}
	if c.Display.Brightness < 0 || c.Display.Brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	if c.Display.Planes < 1 || c.Display.Planes > 8 {
		return fmt.Errorf("planes must be between 1 and 8")
	}
	return nil
}

// Variant returns the face variant the configuration selects
func (c *Config) Variant() (*face.Variant, error) {
	return face.LookupVariant(c.Face.Variant)
}

// NewController builds the face controller the configuration describes,
// painting onto surface.
func (c *Config) NewController(surface face.Surface, log *zap.Logger) (*face.Controller, error) {
	v, err := c.Variant()
	if err != nil {
		return nil, err
	}
	return face.NewController(v, c.Face.Height, surface,
		face.WithLogger(log),
		face.WithPreset(face.PresetID(c.Face.Preset)),
		face.WithPattern(face.PatternID(c.Face.Pattern)))
}

// Pins returns the HUB75 wiring
func (c *Config) Pins() hub75.Pins {
	h := c.HUB75
	return hub75.Pins{
		R1: h.R1, G1: h.G1, B1: h.B1,
		R2: h.R2, G2: h.G2, B2: h.B2,
		CLK: h.CLK, OE: h.OE, LAT: h.LAT,
		A: h.A, B: h.B, C: h.C, D: h.D, E: h.E,
	}
}
