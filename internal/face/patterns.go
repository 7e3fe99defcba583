package face

import (
	"fmt"

	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
)

// Surface is the set of drawing primitives a pattern paints with.
type Surface interface {
	DrawPixel(x, y int, c rgb565.Color)
	DrawLine(x0, y0, x1, y1 int, c rgb565.Color)
	DrawFastHLine(x, y, length int, c rgb565.Color)
	DrawFastVLine(x, y, length int, c rgb565.Color)
	FillRect(x, y, w, h int, c rgb565.Color)
}

// Rand supplies uniform integers in [0, n).
type Rand interface {
	IntN(n int) int
}

// Frame is everything a pattern reads while painting.
type Frame struct {
	Palette  Palette
	Scroll   int
	Geometry Geometry
	Rand     Rand
}

const (
	// ScrollWrap is where the scroll counter wraps. It is a multiple of
	// every palette size so colors line up across the wrap.
	ScrollWrap = 600

	// BouncePeriod is the length of one bounce round trip in ticks.
	BouncePeriod = 56
	bounceBar    = 4

	// SparkleCount is the number of sparkle pixels painted per frame.
	SparkleCount = 15
)

// Pattern identifies one background painting algorithm.
type Pattern uint8

const (
	ScrollDiagonal Pattern = iota
	Diagonal
	Blocks
	HThin
	HThick
	VThin
	VThick
	Random
	ScrollH
	Checker
	Bounce
	Sparkle
	numPatterns
)

var patternNames = [numPatterns]string{
	ScrollDiagonal: "scroll_diagonal",
	Diagonal:       "diagonal",
	Blocks:         "blocks",
	HThin:          "h_thin",
	HThick:         "h_thick",
	VThin:          "v_thin",
	VThick:         "v_thick",
	Random:         "random",
	ScrollH:        "scroll_h",
	Checker:        "checker",
	Bounce:         "bounce",
	Sparkle:        "sparkle",
}

var painters = [numPatterns]func(Surface, *Frame){
	ScrollDiagonal: paintScrollDiagonal,
	Diagonal:       paintDiagonal,
	Blocks:         paintBlocks,
	HThin:          paintHThin,
	HThick:         paintHThick,
	VThin:          paintVThin,
	VThick:         paintVThick,
	Random:         paintRandom,
	ScrollH:        paintScrollH,
	Checker:        paintChecker,
	Bounce:         paintBounce,
	Sparkle:        paintSparkle,
}

// Patterns returns every pattern in id order.
func Patterns() []Pattern {
	ps := make([]Pattern, numPatterns)
	for i := range ps {
		ps[i] = Pattern(i)
	}
	return ps
}

// Valid reports whether p names a known pattern.
func (p Pattern) Valid() bool {
	return p < numPatterns
}

func (p Pattern) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pattern(%d)", uint8(p))
	}
	return patternNames[p]
}

// Paint repaints the whole surface. Unknown patterns paint nothing.
func (p Pattern) Paint(s Surface, f *Frame) {
	if p.Valid() {
		painters[p](s, f)
	}
}

func paintScrollDiagonal(s Surface, f *Frame) {
	drawDiagonals(s, f, f.Scroll)
}

func paintDiagonal(s Surface, f *Frame) {
	drawDiagonals(s, f, 0)
}

// drawDiagonals draws every anti-diagonal x+y = d as one clipped line. Two
// neighbouring diagonals share a color.
func drawDiagonals(s Surface, f *Frame, offset int) {
	w, h := f.Geometry.Width, f.Geometry.Height
	for d := 0; d <= w-1+h-1; d++ {
		x0, y0 := 0, d
		if d > h-1 {
			x0, y0 = d-(h-1), h-1
		}
		x1, y1 := d, 0
		if d > w-1 {
			x1, y1 = w-1, d-(w-1)
		}
		s.DrawLine(x0, y0, x1, y1, f.Palette.At(d/2+offset))
	}
}

// blockWidths holds the column band widths for each supported palette size.
var blockWidths = map[int][]int{
	4: {8, 8, 8, 8},
	6: {6, 5, 5, 5, 5, 6},
}

func paintBlocks(s Surface, f *Frame) {
	x := 0
	for i, bw := range blockWidths[f.Palette.Size] {
		s.FillRect(x, 0, bw, f.Geometry.Height, f.Palette.At(i))
		x += bw
	}
}

func paintHThin(s Surface, f *Frame) {
	for y := 0; y < f.Geometry.Height; y++ {
		s.DrawFastHLine(0, y, f.Geometry.Width, f.Palette.At(y))
	}
}

func paintVThin(s Surface, f *Frame) {
	for x := 0; x < f.Geometry.Width; x++ {
		s.DrawFastVLine(x, 0, f.Geometry.Height, f.Palette.At(x))
	}
}

func paintHThick(s Surface, f *Frame) {
	w := f.Geometry.Width
	for _, b := range thickBands(f.Geometry.Height, f.Palette.Size) {
		s.FillRect(0, b.start, w, b.length, f.Palette.At(b.color))
	}
}

func paintVThick(s Surface, f *Frame) {
	h := f.Geometry.Height
	for _, b := range thickBands(f.Geometry.Width, f.Palette.Size) {
		s.FillRect(b.start, 0, b.length, h, f.Palette.At(b.color))
	}
}

type band struct {
	start, length, color int
}

// thickBands splits dimension into size equal bands. The remainder left by
// the division is one more band in the last color.
func thickBands(dimension, size int) []band {
	thickness := dimension / size
	if thickness < 1 {
		thickness = 1
	}

	bands := make([]band, 0, size+1)
	covered := 0
	for i := 0; i < size && covered < dimension; i++ {
		bands = append(bands, band{start: covered, length: thickness, color: i})
		covered += thickness
	}
	if covered < dimension {
		bands = append(bands, band{start: covered, length: dimension - covered, color: size - 1})
	}
	return bands
}

func paintRandom(s Surface, f *Frame) {
	for x := 0; x < f.Geometry.Width; x++ {
		for y := 0; y < f.Geometry.Height; y++ {
			s.DrawPixel(x, y, f.Palette.At(f.Rand.IntN(f.Palette.Size)))
		}
	}
}

func paintScrollH(s Surface, f *Frame) {
	for y := 0; y < f.Geometry.Height; y++ {
		s.DrawFastHLine(0, y, f.Geometry.Width, f.Palette.At(y+f.Scroll))
	}
}

func paintChecker(s Surface, f *Frame) {
	for x := 0; x < f.Geometry.Width; x++ {
		for y := 0; y < f.Geometry.Height; y++ {
			cell := x/2 + y/2
			s.DrawPixel(x, y, f.Palette.At(cell+f.Scroll/2))
		}
	}
}

// BouncePosition returns the left column of the bounce bar at scroll.
func BouncePosition(scroll int) int {
	raw := scroll % BouncePeriod
	if raw < BouncePeriod/2 {
		return raw
	}
	return BouncePeriod - 1 - raw
}

func paintBounce(s Surface, f *Frame) {
	w, h := f.Geometry.Width, f.Geometry.Height
	s.FillRect(0, 0, w, h, f.Palette.At(0))

	pos := BouncePosition(f.Scroll)
	bar := f.Palette.At(1)
	for i := 0; i < bounceBar && pos+i < w; i++ {
		s.DrawFastVLine(pos+i, 0, h, bar)
	}
}

func paintSparkle(s Surface, f *Frame) {
	w, h := f.Geometry.Width, f.Geometry.Height
	s.FillRect(0, 0, w, h, f.Palette.At(0))
	if f.Palette.Size <= 1 {
		return
	}
	for i := 0; i < SparkleCount; i++ {
		x := f.Rand.IntN(w)
		y := f.Rand.IntN(h)
		s.DrawPixel(x, y, f.Palette.Colors[1+f.Rand.IntN(f.Palette.Size-1)])
	}
}
