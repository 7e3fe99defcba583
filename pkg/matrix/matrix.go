// Package matrix provides the in-memory drawing surface for an RGB LED
// matrix panel. Pixels are stored as packed RGB565 values, row-major.
//
// Every drawing primitive clips to the panel; writes outside the bounds are
// dropped. SetPixel is the exception and reports out of bounds coordinates.
package matrix

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
)

const (
	// DefaultWidth is the column count of the 32-wide clock panels.
	DefaultWidth = 32
	// DefaultHeight is the row count of a 32x16 panel.
	DefaultHeight = 16
)

// Matrix is a fixed-size RGB565 pixel buffer.
type Matrix struct {
	width  int
	height int
	pix    []rgb565.Color
	mu     sync.RWMutex
}

// Config holds the dimensions of the matrix
type Config struct {
	Width  int
	Height int
}

// NewMatrix creates a matrix cleared to black
func NewMatrix(cfg *Config) (*Matrix, error) {
	if cfg == nil {
		cfg = &Config{Width: DefaultWidth, Height: DefaultHeight}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", cfg.Width, cfg.Height)
	}

	return &Matrix{
		width:  cfg.Width,
		height: cfg.Height,
		pix:    make([]rgb565.Color, cfg.Width*cfg.Height),
	}, nil
}

// GetDimensions returns the dimensions of the matrix
func (m *Matrix) GetDimensions() (width, height int) {
	return m.width, m.height
}

// Clear sets every pixel to black
func (m *Matrix) Clear() {
	m.Fill(0)
}

// Fill sets every pixel to c
func (m *Matrix) Fill(c rgb565.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.pix {
		m.pix[i] = c
	}
}

// SetPixel sets a pixel at the given coordinates to the given color
func (m *Matrix) SetPixel(x, y int, c rgb565.Color) error {
	if !m.in(x, y) {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", x, y)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pix[y*m.width+x] = c
	return nil
}

// CopyFrom copies every pixel of src into m. Both must be the same size.
func (m *Matrix) CopyFrom(src *Matrix) error {
	if src.width != m.width || src.height != m.height {
		return fmt.Errorf("size mismatch: %dx%d into %dx%d", src.width, src.height, m.width, m.height)
	}
	if src == m {
		return nil
	}

	src.mu.RLock()
	defer src.mu.RUnlock()
	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.pix, src.pix)
	return nil
}

// Pixel returns the color at the given coordinates, or black when they fall
// outside the matrix.
func (m *Matrix) Pixel(x, y int) rgb565.Color {
	if !m.in(x, y) {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.pix[y*m.width+x]
}

// Row copies row y into dst and returns it. dst is grown when too short.
func (m *Matrix) Row(y int, dst []rgb565.Color) []rgb565.Color {
	if cap(dst) < m.width {
		dst = make([]rgb565.Color, m.width)
	}
	dst = dst[:m.width]
	if y < 0 || y >= m.height {
		for i := range dst {
			dst[i] = 0
		}
		return dst
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	copy(dst, m.pix[y*m.width:(y+1)*m.width])
	return dst
}

// DrawPixel sets a single pixel, clipped to the matrix.
func (m *Matrix) DrawPixel(x, y int, c rgb565.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plot(x, y, c)
}

// DrawLine draws a line between two points with Bresenham's algorithm.
func (m *Matrix) DrawLine(x0, y0, x1, y1 int, c rgb565.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()

	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	err := dx / 2
	ystep := 1
	if y0 > y1 {
		ystep = -1
	}

	for ; x0 <= x1; x0++ {
		if steep {
			m.plot(y0, x0, c)
		} else {
			m.plot(x0, y0, c)
		}
		err -= dy
		if err < 0 {
			y0 += ystep
			err += dx
		}
	}
}

// DrawFastHLine draws a horizontal run of length pixels starting at (x, y).
func (m *Matrix) DrawFastHLine(x, y, length int, c rgb565.Color) {
	m.FillRect(x, y, length, 1, c)
}

// DrawFastVLine draws a vertical run of length pixels starting at (x, y).
func (m *Matrix) DrawFastVLine(x, y, length int, c rgb565.Color) {
	m.FillRect(x, y, 1, length, c)
}

// FillRect fills the w by h rectangle with its top-left corner at (x, y).
func (m *Matrix) FillRect(x, y, w, h int, c rgb565.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, m.width, m.height))
	if r.Empty() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for yy := r.Min.Y; yy < r.Max.Y; yy++ {
		row := m.pix[yy*m.width : (yy+1)*m.width]
		for xx := r.Min.X; xx < r.Max.X; xx++ {
			row[xx] = c
		}
	}
}

// ColorModel implements image.Image.
func (m *Matrix) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements image.Image.
func (m *Matrix) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// At implements image.Image.
func (m *Matrix) At(x, y int) color.Color {
	return m.Pixel(x, y)
}

// Set implements draw.Image. Out of bounds writes are dropped.
func (m *Matrix) Set(x, y int, c color.Color) {
	m.DrawPixel(x, y, rgb565.Convert(c))
}

// plot assumes the mutex is already locked
func (m *Matrix) plot(x, y int, c rgb565.Color) {
	if m.in(x, y) {
		m.pix[y*m.width+x] = c
	}
}

func (m *Matrix) in(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
