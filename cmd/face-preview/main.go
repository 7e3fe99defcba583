// Command face-preview runs the clock face in a terminal.
//
// Keys: p next pattern, c next palette, space on/off, 0-9 and a-b select a
// pattern, Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fkcurrie/matrix-clock-face/internal/config"
	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/logger"
	"github.com/fkcurrie/matrix-clock-face/internal/overlay"
	"github.com/fkcurrie/matrix-clock-face/internal/scheduler"
	"github.com/fkcurrie/matrix-clock-face/internal/termview"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"go.uber.org/zap"
)

// statusView labels every frame with the controller state. Show runs on the
// scheduler goroutine, which owns the controller.
type statusView struct {
	*termview.View
	ctl *face.Controller
}

func (v statusView) Show(m *matrix.Matrix) error {
	v.SetStatus(status(v.ctl))
	return v.View.Show(m)
}

func status(ctl *face.Controller) string {
	state := "on"
	if !ctl.Enabled() {
		state = "off"
	}
	return fmt.Sprintf("%s  pattern %d %s  preset %d %s  [%s]",
		ctl.Variant().Name,
		ctl.PatternID(), ctl.Pattern(),
		ctl.PresetID(), ctl.Variant().Presets[ctl.PresetID()-1].Name,
		state)
}

func keyRequest(r rune) (scheduler.Request, bool) {
	switch {
	case r == 'p':
		return scheduler.Request{Command: scheduler.CyclePattern}, true
	case r == 'c':
		return scheduler.Request{Command: scheduler.CyclePreset}, true
	case r == ' ':
		return scheduler.Request{Command: scheduler.Toggle}, true
	case r >= '0' && r <= '9':
		return scheduler.Request{Command: scheduler.SelectPattern, ID: int(r - '0')}, true
	case r >= 'a' && r <= 'b':
		return scheduler.Request{Command: scheduler.SelectPattern, ID: int(r-'a') + 10}, true
	}
	return scheduler.Request{}, false
}

func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		// stderr belongs to the terminal UI
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	variant := flag.String("variant", "", "Table set: matrix or ella")
	height := flag.Int("height", 0, "Panel height: 10, 11 or 16")
	logPath := flag.String("log", "", "Write logs to this file")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log, err := newLogger(*logPath, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	if *variant != "" {
		v, err := face.LookupVariant(*variant)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg.Face.Variant = v.Name
		cfg.Face.Height = v.Height
		cfg.Face.Preset = int(v.DefaultPreset)
		cfg.Face.Pattern = int(v.DefaultPattern)
	}
	if *height != 0 {
		cfg.Face.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	if err := run(ctx, cfg); err != nil && !errors.Is(err, termview.ErrQuit) && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.FromContext(ctx)

	m, err := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: cfg.Face.Height})
	if err != nil {
		return err
	}
	ctl, err := cfg.NewController(m, log.Named("face"))
	if err != nil {
		return err
	}

	view, err := termview.Open()
	if err != nil {
		return err
	}
	defer view.Close()

	sched := scheduler.New(ctl, m, statusView{View: view, ctl: ctl},
		scheduler.WithOverlay((&overlay.Clock{}).Draw),
		scheduler.WithLogger(log.Named("scheduler")))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()
	go func() {
		// unblocks ReadKeys on a signal
		<-ctx.Done()
		view.Close()
	}()

	err = view.ReadKeys(ctx, func(r rune) {
		req, ok := keyRequest(r)
		if !ok {
			return
		}
		if err := sched.Submit(req); err != nil {
			log.Warn("key dropped", zap.Error(err))
		}
	})
	cancel()
	<-done
	return err
}
