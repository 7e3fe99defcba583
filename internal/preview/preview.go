// Package preview renders a matrix frame as a picture of the physical
// panel: round LEDs with a soft halo on a dark board.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultScale  = 12
	captionHeight = 18
)

var (
	boardColor   = color.RGBA{R: 16, G: 16, B: 18, A: 255}
	captionColor = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	// unlit LEDs show as a faint disc
	offColor = colorful.Color{R: 0.09, G: 0.09, B: 0.1}
)

// Options controls the rendering.
type Options struct {
	// Scale is the LED pitch in output pixels.
	Scale int
	// Bezel draws a rounded frame around the board.
	Bezel bool
	// Caption is printed under the board when not empty.
	Caption string
}

// Renderer draws frames of one size. It reuses its canvas between calls
// and is not safe for concurrent use.
type Renderer struct {
	opt     Options
	width   int
	height  int
	margin  int
	canvas  *image.RGBA
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	bezel   *oksvg.SvgIcon
}

// NewRenderer creates a renderer for frames of width x height LEDs.
func NewRenderer(width, height int, opt Options) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", width, height)
	}
	if opt.Scale == 0 {
		opt.Scale = DefaultScale
	}
	if opt.Scale < 2 {
		return nil, fmt.Errorf("preview: scale %d too small", opt.Scale)
	}

	r := &Renderer{
		opt:    opt,
		width:  width,
		height: height,
		margin: opt.Scale,
	}
	w, h := r.Size()
	r.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	r.scanner = rasterx.NewScannerGV(w, h, r.canvas, r.canvas.Bounds())
	r.filler = rasterx.NewFiller(w, h, r.scanner)

	if opt.Bezel {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(r.bezelSVG()))
		if err != nil {
			return nil, fmt.Errorf("preview: bezel: %w", err)
		}
		icon.SetTarget(0, 0, float64(w), float64(h))
		r.bezel = icon
	}
	return r, nil
}

// Size returns the output image size.
func (r *Renderer) Size() (width, height int) {
	width = r.width*r.opt.Scale + 2*r.margin
	height = r.height*r.opt.Scale + 2*r.margin
	if r.opt.Caption != "" {
		height += captionHeight
	}
	return width, height
}

func (r *Renderer) bezelSVG() []byte {
	w, h := r.Size()
	inset := float64(r.margin) / 4
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect x="%g" y="%g" width="%g" height="%g" rx="%g" fill="none" stroke="#3c3c40" stroke-width="%g"/>
</svg>`, w, h, w, h,
		inset, inset,
		float64(r.width*r.opt.Scale+2*r.margin)-2*inset,
		float64(r.height*r.opt.Scale+2*r.margin)-2*inset,
		float64(r.margin)/2, inset))
}

// Render draws m and returns the canvas. The image is overwritten by the
// next call.
func (r *Renderer) Render(m *matrix.Matrix) (*image.RGBA, error) {
	width, height := m.GetDimensions()
	if width != r.width || height != r.height {
		return nil, fmt.Errorf("preview: frame is %dx%d, renderer is %dx%d",
			width, height, r.width, r.height)
	}

	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(boardColor), image.Point{}, draw.Src)
	if r.bezel != nil {
		w, h := r.Size()
		r.bezel.Draw(rasterx.NewDasher(w, h, r.scanner), 1)
	}

	board, _ := colorful.MakeColor(boardColor)
	pitch := float64(r.opt.Scale)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cx := float64(r.margin) + (float64(x)+0.5)*pitch
			cy := float64(r.margin) + (float64(y)+0.5)*pitch

			led := ledColor(m, x, y)
			r.disc(cx, cy, pitch*0.5, led.BlendRgb(board, 0.65))
			r.disc(cx, cy, pitch*0.36, led)
		}
	}

	if r.opt.Caption != "" {
		r.caption()
	}
	return r.canvas, nil
}

func ledColor(m *matrix.Matrix, x, y int) colorful.Color {
	c := m.Pixel(x, y)
	if c == 0 {
		return offColor
	}
	led, _ := colorful.MakeColor(c)
	return led
}

func (r *Renderer) disc(cx, cy, radius float64, c colorful.Color) {
	r.filler.Clear()
	r.filler.SetColor(c.Clamped())
	rasterx.AddCircle(cx, cy, radius, r.filler)
	r.filler.Draw()
}

func (r *Renderer) caption() {
	face := basicfont.Face7x13
	_, h := r.Size()
	d := &font.Drawer{
		Dst:  r.canvas,
		Src:  image.NewUniform(captionColor),
		Face: face,
	}
	x := (r.canvas.Bounds().Dx() - d.MeasureString(r.opt.Caption).Round()) / 2
	if x < 0 {
		x = 0
	}
	d.Dot = fixed.P(x, h-r.margin/2-face.Descent)
	d.DrawString(r.opt.Caption)
}

// Encode renders m and writes it as PNG.
func (r *Renderer) Encode(w io.Writer, m *matrix.Matrix) error {
	img, err := r.Render(m)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
