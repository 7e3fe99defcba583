// Package rgb565 provides the packed 16-bit color format used by small LED
// matrix panels: 5 bits red, 6 bits green, 5 bits blue.
package rgb565

import "image/color"

// Color is a packed RGB565 color value.
type Color uint16

// Pack converts 8-bit-per-channel components to a packed Color.
// The low bits of each channel are dropped.
func Pack(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// RGB returns the 8-bit channels of c. The dropped low bits are refilled
// from the high bits so that full intensity maps back to 0xFF.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xFFFF
}

// Model converts any color.Color to a packed Color.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(Color); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return Pack(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})

// Convert returns c as a packed Color.
func Convert(c color.Color) Color {
	return Model.Convert(c).(Color)
}
