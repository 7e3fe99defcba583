// Package hub75 drives a HUB75 RGB LED panel through the GPIO character
// device, as wired by the Adafruit RGB Matrix Bonnet.
//
// The panel shifts one row of the upper half and the matching row of the
// lower half at the same time, so a panel of height h has (h+1)/2
// addressable rows. Color depth comes from binary code modulation: every
// frame is sent once per bit plane and each plane is held for twice as
// long as the one before.
package hub75

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"
)

const (
	// MaxPlanes is the number of bits per color channel in a frame.
	MaxPlanes = 8
	// DefaultPlanes trades color depth for refresh rate on software timing.
	DefaultPlanes = 4
	// DefaultPlaneTime is how long the least significant plane is lit.
	DefaultPlaneTime = 50 * time.Microsecond
)

// Data bits of a column word, in the order they sit on the connector.
const (
	bitR1 = 1 << iota
	bitG1
	bitB1
	bitR2
	bitG2
	bitB2
)

// Pins holds the GPIO line offsets of the HUB75 connector.
type Pins struct {
	R1, G1, B1 int // upper half data
	R2, G2, B2 int // lower half data
	CLK        int
	OE         int
	LAT        int
	A, B, C, D int
	E          int
}

// BonnetPins is the Adafruit RGB Matrix Bonnet wiring.
var BonnetPins = Pins{
	R1: 5, G1: 13, B1: 6,
	R2: 12, G2: 16, B2: 23,
	CLK: 17, OE: 4, LAT: 21,
	A: 22, B: 26, C: 27, D: 20, E: 24,
}

// index of each signal in the requested line set
const (
	lineR1 = iota
	lineG1
	lineB1
	lineR2
	lineG2
	lineB2
	lineCLK
	lineOE
	lineLAT
	lineA
	lineB
	lineC
	lineD
	lineE
	numLines
)

// Offsets returns the line offsets in request order.
func (p Pins) Offsets() []int {
	return []int{
		p.R1, p.G1, p.B1,
		p.R2, p.G2, p.B2,
		p.CLK, p.OE, p.LAT,
		p.A, p.B, p.C, p.D, p.E,
	}
}

// Validate checks that every pin is set and none is used twice.
func (p Pins) Validate() error {
	seen := make(map[int]bool, numLines)
	for _, off := range p.Offsets() {
		if off < 0 {
			return fmt.Errorf("hub75: invalid pin offset %d", off)
		}
		if seen[off] {
			return fmt.Errorf("hub75: pin offset %d used twice", off)
		}
		seen[off] = true
	}
	return nil
}

// Config describes a panel.
type Config struct {
	Chip       string
	Pins       Pins
	Width      int
	Height     int
	Planes     int
	Brightness uint8
	PlaneTime  time.Duration
	Logger     *zap.Logger
}

// lineSetter is the part of *gpiocdev.Lines the panel drives.
type lineSetter interface {
	SetValues(values []int) error
	Close() error
}

// ErrClosed is returned by Show and Refresh after Close.
var ErrClosed = errors.New("hub75: panel closed")

// Panel shows matrix frames on a HUB75 panel. The panel only lights the
// latched row, so the current frame has to be scanned out continuously;
// panels from Open do that on their own goroutine.
type Panel struct {
	cfg Config
	log *zap.Logger

	mu     sync.Mutex
	frame  *Frame
	closed bool

	scanMu sync.Mutex
	lines  lineSetter
	values []int

	stop chan struct{}
	done chan struct{}
}

// Open requests the connector lines from cfg.Chip as outputs.
func Open(cfg Config) (*Panel, error) {
	if err := cfg.Pins.Validate(); err != nil {
		return nil, err
	}
	lines, err := gpiocdev.RequestLines(cfg.Chip, cfg.Pins.Offsets(),
		gpiocdev.AsOutput(make([]int, numLines)...),
		gpiocdev.WithConsumer("matrix-clock"))
	if err != nil {
		return nil, fmt.Errorf("hub75: request lines on %s: %w", cfg.Chip, err)
	}
	p, err := newPanel(cfg, lines)
	if err != nil {
		lines.Close()
		return nil, err
	}
	p.log.Info("panel opened",
		zap.String("chip", cfg.Chip),
		zap.Int("width", p.cfg.Width),
		zap.Int("height", p.cfg.Height),
		zap.Int("planes", p.cfg.Planes))

	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.refreshLoop()
	return p, nil
}

func newPanel(cfg Config, lines lineSetter) (*Panel, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("hub75: invalid panel size %dx%d", cfg.Width, cfg.Height)
	}
	if Rows(cfg.Height) > 32 {
		return nil, fmt.Errorf("hub75: panel height %d needs more than 5 address lines", cfg.Height)
	}
	if cfg.Planes == 0 {
		cfg.Planes = DefaultPlanes
	}
	if cfg.Planes < 1 || cfg.Planes > MaxPlanes {
		return nil, fmt.Errorf("hub75: planes must be 1..%d, got %d", MaxPlanes, cfg.Planes)
	}
	if cfg.PlaneTime == 0 {
		cfg.PlaneTime = DefaultPlaneTime
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Panel{
		cfg:    cfg,
		lines:  lines,
		values: make([]int, numLines),
		log:    cfg.Logger,
	}, nil
}

// Rows returns the number of addressable rows of a panel of the given
// height.
func Rows(height int) int {
	return (height + 1) / 2
}

// Frame is an encoded frame: one column word per plane, row and column.
type Frame struct {
	Planes int
	Rows   int
	Width  int
	Words  []uint8
}

// Word returns the data bits shifted out for column x of row r in plane p.
func (f *Frame) Word(p, r, x int) uint8 {
	return f.Words[(p*f.Rows+r)*f.Width+x]
}

// Encode splits m into bit planes. Row r carries pixel row r on the upper
// data lines and row r+Rows(height) on the lower ones; rows past the bottom
// of m are sent dark. Plane 0 is the least significant of the top planes
// bits of each channel after brightness scaling.
func Encode(m *matrix.Matrix, planes int, brightness uint8) *Frame {
	width, height := m.GetDimensions()
	rows := Rows(height)
	f := &Frame{
		Planes: planes,
		Rows:   rows,
		Width:  width,
		Words:  make([]uint8, planes*rows*width),
	}

	for r := 0; r < rows; r++ {
		for x := 0; x < width; x++ {
			upper := channels(m, x, r, height, brightness)
			lower := channels(m, x, r+rows, height, brightness)
			for p := 0; p < planes; p++ {
				shift := uint(MaxPlanes - planes + p)
				var w uint8
				if upper[0]>>shift&1 != 0 {
					w |= bitR1
				}
				if upper[1]>>shift&1 != 0 {
					w |= bitG1
				}
				if upper[2]>>shift&1 != 0 {
					w |= bitB1
				}
				if lower[0]>>shift&1 != 0 {
					w |= bitR2
				}
				if lower[1]>>shift&1 != 0 {
					w |= bitG2
				}
				if lower[2]>>shift&1 != 0 {
					w |= bitB2
				}
				f.Words[(p*rows+r)*width+x] = w
			}
		}
	}
	return f
}

func channels(m *matrix.Matrix, x, y, height int, brightness uint8) [3]uint8 {
	if y >= height {
		return [3]uint8{}
	}
	r, g, b := m.Pixel(x, y).RGB()
	return [3]uint8{scale(r, brightness), scale(g, brightness), scale(b, brightness)}
}

func scale(v, brightness uint8) uint8 {
	return uint8(uint16(v) * uint16(brightness) / 255)
}

// Show encodes m and makes it the frame being scanned out.
func (p *Panel) Show(m *matrix.Matrix) error {
	width, height := m.GetDimensions()
	if width != p.cfg.Width || height != p.cfg.Height {
		return fmt.Errorf("hub75: frame is %dx%d, panel is %dx%d",
			width, height, p.cfg.Width, p.cfg.Height)
	}
	f := Encode(m, p.cfg.Planes, p.cfg.Brightness)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.frame = f
	return nil
}

func (p *Panel) current() (*Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	return p.frame, nil
}

// Refresh scans the current frame out once. It does nothing before the
// first Show.
func (p *Panel) Refresh() error {
	f, err := p.current()
	if err != nil || f == nil {
		return err
	}
	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	if p.lines == nil {
		return ErrClosed
	}
	return p.scan(f)
}

func (p *Panel) refreshLoop() {
	defer close(p.done)
	failing := false
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		f, err := p.current()
		if err != nil {
			return
		}
		if f == nil {
			time.Sleep(time.Millisecond)
			continue
		}

		if err := p.Refresh(); err != nil {
			if !failing {
				p.log.Error("refresh failed", zap.Error(err))
			}
			failing = true
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if failing {
			p.log.Info("refresh recovered")
			failing = false
		}
	}
}

func (p *Panel) scan(f *Frame) error {
	for plane := 0; plane < f.Planes; plane++ {
		hold := p.cfg.PlaneTime << uint(plane)
		for r := 0; r < f.Rows; r++ {
			if err := p.shiftRow(f, plane, r); err != nil {
				return fmt.Errorf("hub75: plane %d row %d: %w", plane, r, err)
			}
			time.Sleep(hold)
		}
	}
	return p.blank()
}

// shiftRow clocks one row of one plane into the panel, latches it and
// turns the output back on.
func (p *Panel) shiftRow(f *Frame, plane, r int) error {
	v := p.values

	// Output off while the row changes.
	v[lineOE] = 1
	if err := p.lines.SetValues(v); err != nil {
		return err
	}

	for x := 0; x < f.Width; x++ {
		w := f.Word(plane, r, x)
		v[lineR1] = bit(w, bitR1)
		v[lineG1] = bit(w, bitG1)
		v[lineB1] = bit(w, bitB1)
		v[lineR2] = bit(w, bitR2)
		v[lineG2] = bit(w, bitG2)
		v[lineB2] = bit(w, bitB2)
		v[lineCLK] = 0
		if err := p.lines.SetValues(v); err != nil {
			return err
		}
		v[lineCLK] = 1
		if err := p.lines.SetValues(v); err != nil {
			return err
		}
	}
	v[lineCLK] = 0

	v[lineA] = r & 1
	v[lineB] = r >> 1 & 1
	v[lineC] = r >> 2 & 1
	v[lineD] = r >> 3 & 1
	v[lineE] = r >> 4 & 1
	v[lineLAT] = 1
	if err := p.lines.SetValues(v); err != nil {
		return err
	}
	v[lineLAT] = 0
	v[lineOE] = 0
	return p.lines.SetValues(v)
}

// blank turns the output off so the last row is not left lit between
// frames.
func (p *Panel) blank() error {
	p.values[lineOE] = 1
	return p.lines.SetValues(p.values)
}

func bit(w, mask uint8) int {
	if w&mask != 0 {
		return 1
	}
	return 0
}

// Close stops refreshing, blanks the panel and releases the lines.
func (p *Panel) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if p.stop != nil {
		close(p.stop)
		<-p.done
	}

	p.scanMu.Lock()
	defer p.scanMu.Unlock()
	for i := range p.values {
		p.values[i] = 0
	}
	if err := p.blank(); err != nil {
		p.log.Warn("blank on close", zap.Error(err))
	}
	err := p.lines.Close()
	p.lines = nil
	return err
}
