// Command matrix-clock runs the clock face on a HUB75 panel with front
// panel buttons for pattern, palette and on/off.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/matrix-clock-face/internal/config"
	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/logger"
	"github.com/fkcurrie/matrix-clock-face/internal/overlay"
	"github.com/fkcurrie/matrix-clock-face/internal/scheduler"
	"github.com/fkcurrie/matrix-clock-face/pkg/button"
	"github.com/fkcurrie/matrix-clock-face/pkg/hub75"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"go.uber.org/zap"
)

func main() {
	os.Exit(serve())
}

// exitCode maps the error run returned to the process exit status. A
// signal-driven shutdown is a clean exit.
func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}

// serve runs the clock and returns the exit status once every deferred
// cleanup has run.
func serve() int {
	configPath := flag.String("config", "", "Path to configuration file")
	verbose := flag.Bool("v", false, "Verbose logging")
	twelve := flag.Bool("12h", false, "Show the time in 12 hour format")
	flag.Parse()

	log, err := logger.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	err = run(ctx, *configPath, *twelve)
	if code := exitCode(err); code != 0 {
		log.Error("matrix clock stopped", zap.Error(err))
		return code
	}
	log.Info("shutting down")
	return 0
}

func run(ctx context.Context, configPath string, twelve bool) error {
	log := logger.FromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	m, err := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: cfg.Face.Height})
	if err != nil {
		return err
	}
	ctl, err := cfg.NewController(m, log.Named("face"))
	if err != nil {
		return err
	}

	panel, err := hub75.Open(hub75.Config{
		Chip:       cfg.Display.Chip,
		Pins:       cfg.Pins(),
		Width:      face.Width,
		Height:     cfg.Face.Height,
		Planes:     cfg.Display.Planes,
		Brightness: uint8(cfg.Display.Brightness),
		Logger:     log.Named("hub75"),
	})
	if err != nil {
		return err
	}
	defer panel.Close()

	clock := &overlay.Clock{TwelveH: twelve}
	sched := scheduler.New(ctl, m, panel,
		scheduler.WithOverlay(clock.Draw),
		scheduler.WithLogger(log.Named("scheduler")))

	submit := func(r scheduler.Request) button.Handler {
		return func() {
			if err := sched.Submit(r); err != nil {
				log.Warn("button press dropped", zap.Stringer("command", r.Command), zap.Error(err))
			}
		}
	}
	buttons, err := button.Watch(button.Config{
		Chip:     cfg.Buttons.Chip,
		Debounce: time.Duration(cfg.Buttons.DebounceMs) * time.Millisecond,
		Logger:   log.Named("button"),
		Bindings: []button.Binding{
			{Name: "pattern", Offset: cfg.Buttons.Pattern, Handler: submit(scheduler.Request{Command: scheduler.CyclePattern})},
			{Name: "palette", Offset: cfg.Buttons.Palette, Handler: submit(scheduler.Request{Command: scheduler.CyclePreset})},
			{Name: "toggle", Offset: cfg.Buttons.Toggle, Handler: submit(scheduler.Request{Command: scheduler.Toggle})},
		},
	})
	if err != nil {
		return err
	}
	defer buttons.Close()

	return sched.Run(ctx)
}
