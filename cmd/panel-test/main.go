// Command panel-test checks the HUB75 wiring by cycling solid colors and a
// diagonal across the whole panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/matrix-clock-face/internal/config"
	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/logger"
	"github.com/fkcurrie/matrix-clock-face/pkg/hub75"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"github.com/fkcurrie/matrix-clock-face/pkg/rgb565"
	"go.uber.org/zap"
)

type step struct {
	name string
	draw func(m *matrix.Matrix)
}

func fill(c rgb565.Color) func(*matrix.Matrix) {
	return func(m *matrix.Matrix) { m.Fill(c) }
}

var steps = []step{
	{"red", fill(face.PureRed)},
	{"green", fill(face.PureGreen)},
	{"blue", fill(face.PureBlue)},
	{"white", fill(face.White)},
	{"diagonal", func(m *matrix.Matrix) {
		w, h := m.GetDimensions()
		m.Clear()
		m.DrawLine(0, 0, w-1, h-1, face.White)
		m.DrawLine(0, h-1, w-1, 0, face.Cyan)
	}},
	{"border", func(m *matrix.Matrix) {
		w, h := m.GetDimensions()
		m.Clear()
		m.DrawFastHLine(0, 0, w, face.Red)
		m.DrawFastHLine(0, h-1, w, face.Green)
		m.DrawFastVLine(0, 0, h, face.Blue)
		m.DrawFastVLine(w-1, 0, h, face.Yellow)
	}},
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	hold := flag.Duration("hold", time.Second, "How long each step stays up")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log, err := logger.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: cfg.Face.Height})
	if err != nil {
		log.Fatal("create matrix", zap.Error(err))
	}
	panel, err := hub75.Open(hub75.Config{
		Chip:       cfg.Display.Chip,
		Pins:       cfg.Pins(),
		Width:      face.Width,
		Height:     cfg.Face.Height,
		Planes:     cfg.Display.Planes,
		Brightness: uint8(cfg.Display.Brightness),
		Logger:     log,
	})
	if err != nil {
		log.Fatal("open panel", zap.Error(err))
	}
	defer panel.Close()

	ticker := time.NewTicker(*hold)
	defer ticker.Stop()
	for i := 0; ; i = (i + 1) % len(steps) {
		steps[i].draw(m)
		if err := panel.Show(m); err != nil {
			log.Error("show", zap.String("step", steps[i].name), zap.Error(err))
		} else {
			log.Info("step", zap.String("step", steps[i].name))
		}
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return
		case <-ticker.C:
		}
	}
}
