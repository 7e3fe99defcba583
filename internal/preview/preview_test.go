package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
)

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func sameColor(a, b color.RGBA) bool {
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B)
}

func newMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.NewMatrix(&matrix.Config{Width: 32, Height: 16})
	if err != nil {
		t.Fatalf("NewMatrix() error = %v", err)
	}
	return m
}

func TestRenderSize(t *testing.T) {
	tests := []struct {
		name  string
		opt   Options
		wantW int
		wantH int
	}{
		{"default", Options{}, 32*12 + 24, 16*12 + 24},
		{"scale 4", Options{Scale: 4}, 32*4 + 8, 16*4 + 8},
		{"caption", Options{Scale: 4, Caption: "rainbow"}, 32*4 + 8, 16*4 + 8 + captionHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(32, 16, tt.opt)
			if err != nil {
				t.Fatalf("NewRenderer() error = %v", err)
			}
			img, err := r.Render(newMatrix(t))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderLEDColors(t *testing.T) {
	m := newMatrix(t)
	m.DrawPixel(0, 0, rgb565.Pack(255, 0, 0))
	m.DrawPixel(31, 15, rgb565.Pack(0, 0, 255))

	r, err := NewRenderer(32, 16, Options{})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	img, err := r.Render(m)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	center := func(x, y int) color.RGBA {
		return img.RGBAAt(DefaultScale+x*DefaultScale+DefaultScale/2, DefaultScale+y*DefaultScale+DefaultScale/2)
	}
	if got := center(0, 0); !sameColor(got, color.RGBA{R: 255, A: 255}) {
		t.Errorf("red LED center = %v", got)
	}
	if got := center(31, 15); !sameColor(got, color.RGBA{B: 255, A: 255}) {
		t.Errorf("blue LED center = %v", got)
	}
	off := center(5, 5)
	if sameColor(off, boardColor) || off.R > 40 {
		t.Errorf("unlit LED center = %v, want a faint disc", off)
	}
	if got := img.RGBAAt(1, 1); !sameColor(got, boardColor) {
		t.Errorf("board corner = %v, want %v", got, boardColor)
	}
}

func TestRenderBezelAndCaption(t *testing.T) {
	r, err := NewRenderer(32, 16, Options{Bezel: true, Caption: "scroll h"})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	img, err := r.Render(newMatrix(t))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	w, h := r.Size()

	if got := img.RGBAAt(3, (h-captionHeight)/2); sameColor(got, boardColor) {
		t.Error("bezel stroke not drawn on the left edge")
	}

	text := 0
	for y := h - captionHeight; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.RGBAAt(x, y) == captionColor {
				text++
			}
		}
	}
	if text == 0 {
		t.Error("caption not drawn")
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := NewRenderer(0, 16, Options{}); err == nil {
		t.Error("NewRenderer() accepted zero width")
	}
	if _, err := NewRenderer(32, 16, Options{Scale: 1}); err == nil {
		t.Error("NewRenderer() accepted scale 1")
	}

	r, err := NewRenderer(32, 11, Options{})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	if _, err := r.Render(newMatrix(t)); err == nil {
		t.Error("Render() accepted a frame of the wrong size")
	}
}

func TestEncodePNG(t *testing.T) {
	r, err := NewRenderer(32, 16, Options{Scale: 3})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	var buf bytes.Buffer
	if err := r.Encode(&buf, newMatrix(t)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	w, h := r.Size()
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Errorf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), w, h)
	}
}
