// Package button watches active-low push buttons on GPIO lines and calls a
// handler on each debounced press.
package button

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultDebounce filters contact bounce on cheap tactile switches.
const DefaultDebounce = 30 * time.Millisecond

// Handler is called from the GPIO event goroutine for every press. It must
// not block.
type Handler func()

// Binding ties a line offset to a handler. Negative offsets are skipped.
type Binding struct {
	Name    string
	Offset  int
	Handler Handler
}

// Config describes the buttons on one chip.
type Config struct {
	Chip     string
	Debounce time.Duration
	Bindings []Binding
	Logger   *zap.Logger
}

type closer interface {
	Close() error
}

// requestFunc requests one input line with an event handler attached.
type requestFunc func(chip string, offset int, debounce time.Duration, eh gpiocdev.EventHandler) (closer, error)

func requestLine(chip string, offset int, debounce time.Duration, eh gpiocdev.EventHandler) (closer, error) {
	return gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(debounce),
		gpiocdev.WithEventHandler(eh),
		gpiocdev.WithConsumer("matrix-clock"))
}

// Set is a group of watched buttons.
type Set struct {
	mu      sync.Mutex
	lines   []closer
	byLine  map[int]Binding
	presses map[string]int
	log     *zap.Logger
}

// Watch requests every bound line and starts delivering presses.
func Watch(cfg Config) (*Set, error) {
	return watch(cfg, requestLine)
}

func watch(cfg Config, request requestFunc) (*Set, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Set{
		byLine:  make(map[int]Binding),
		presses: make(map[string]int),
		log:     cfg.Logger,
	}
	for _, b := range cfg.Bindings {
		if b.Offset < 0 {
			continue
		}
		if b.Handler == nil {
			s.Close()
			return nil, fmt.Errorf("button: %s has no handler", b.Name)
		}
		if _, dup := s.byLine[b.Offset]; dup {
			s.Close()
			return nil, fmt.Errorf("button: line %d bound twice", b.Offset)
		}
		s.byLine[b.Offset] = b
		l, err := request(cfg.Chip, b.Offset, cfg.Debounce, s.handle)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("button: request %s on %s:%d: %w", b.Name, cfg.Chip, b.Offset, err)
		}
		s.lines = append(s.lines, l)
		s.log.Debug("button watched",
			zap.String("name", b.Name),
			zap.String("chip", cfg.Chip),
			zap.Int("offset", b.Offset))
	}
	return s, nil
}

func (s *Set) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	s.mu.Lock()
	b, ok := s.byLine[evt.Offset]
	if ok {
		s.presses[b.Name]++
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.log.Debug("button pressed", zap.String("name", b.Name), zap.Int("offset", evt.Offset))
	b.Handler()
}

// Presses returns how many presses of the named button were delivered.
func (s *Set) Presses(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presses[name]
}

// Close releases every line.
func (s *Set) Close() error {
	var err error
	for _, l := range s.lines {
		err = multierr.Append(err, l.Close())
	}
	s.lines = nil
	return err
}
