// Package overlay draws the clock digits over the painted background.
package overlay

import (
	"time"

	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
)

const (
	glyphWidth  = 5
	glyphHeight = 7
	spacing     = 1
	colonWidth  = 1
)

// Column bitmaps, bit 0 at the top.
var digits = [10][glyphWidth]byte{
	{0x3E, 0x51, 0x49, 0x45, 0x3E}, // 0
	{0x00, 0x42, 0x7F, 0x40, 0x00}, // 1
	{0x42, 0x61, 0x51, 0x49, 0x46}, // 2
	{0x21, 0x41, 0x45, 0x4B, 0x31}, // 3
	{0x18, 0x14, 0x12, 0x7F, 0x10}, // 4
	{0x27, 0x45, 0x45, 0x45, 0x39}, // 5
	{0x3C, 0x4A, 0x49, 0x49, 0x30}, // 6
	{0x01, 0x71, 0x09, 0x05, 0x03}, // 7
	{0x36, 0x49, 0x49, 0x49, 0x36}, // 8
	{0x06, 0x49, 0x49, 0x29, 0x1E}, // 9
}

const colon = 0x36

// Width is the horizontal extent of an HH:MM string.
const Width = 4*glyphWidth + 4*spacing + colonWidth

// Clock draws the current time. The zero value draws local time in 24 hour
// format.
type Clock struct {
	Now     func() time.Time
	TwelveH bool
}

// Draw renders the current time onto m. It has the scheduler's overlay
// signature.
func (c *Clock) Draw(m *matrix.Matrix, ink face.Ink) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	t := now()
	hour := t.Hour()
	if c.TwelveH {
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}
	DrawTime(m, hour, t.Minute(), ink, c.TwelveH)
}

// DrawTime renders hour:minute centered on m. Digit i uses ink[i] and the
// colon uses ink[1]. With blankLead a leading zero hour is left undrawn.
func DrawTime(m *matrix.Matrix, hour, minute int, ink face.Ink, blankLead bool) {
	width, height := m.GetDimensions()
	x := (width - Width) / 2
	y := (height - glyphHeight) / 2

	vals := [4]int{hour / 10 % 10, hour % 10, minute / 10 % 10, minute % 10}
	for i, d := range vals {
		if i == 2 {
			drawColumn(m, x, y, colon, ink[1])
			x += colonWidth + spacing
		}
		if !(i == 0 && d == 0 && blankLead) {
			drawGlyph(m, x, y, d, ink[i])
		}
		x += glyphWidth + spacing
	}
}

func drawGlyph(m *matrix.Matrix, x, y, d int, c rgb565.Color) {
	for col, bits := range digits[d] {
		drawColumn(m, x+col, y, bits, c)
	}
}

func drawColumn(m *matrix.Matrix, x, y int, bits byte, c rgb565.Color) {
	for row := 0; row < glyphHeight; row++ {
		if bits&(1<<row) != 0 {
			m.DrawPixel(x, y+row, c)
		}
	}
}
