// Command face-snapshot writes one PNG per pattern of a table set, showing
// how the face looks on the panel.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/fkcurrie/matrix-clock-face/internal/face"
	"github.com/fkcurrie/matrix-clock-face/internal/logger"
	"github.com/fkcurrie/matrix-clock-face/internal/overlay"
	"github.com/fkcurrie/matrix-clock-face/internal/preview"
	"github.com/fkcurrie/matrix-clock-face/pkg/matrix"
	"go.uber.org/zap"
)

type options struct {
	variant *face.Variant
	height  int
	preset  face.PresetID
	ticks   int
	clock   string
	render  preview.Options
	seed    uint64
}

func main() {
	variant := flag.String("variant", "matrix", "Table set: matrix or ella")
	height := flag.Int("height", 0, "Panel height: 10, 11 or 16 (default: the table set's)")
	preset := flag.Int("preset", 0, "Preset to use (default: the table set's)")
	ticks := flag.Int("ticks", 0, "Ticks to advance before the capture")
	clock := flag.String("clock", "", "Draw this HH:MM over the pattern")
	scale := flag.Int("scale", preview.DefaultScale, "LED pitch in pixels")
	bezel := flag.Bool("bezel", true, "Draw the panel bezel")
	seed := flag.Uint64("seed", 1, "Seed for the random patterns")
	out := flag.String("out", ".", "Output directory")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	log, err := logger.New(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	v, err := face.LookupVariant(*variant)
	if err != nil {
		log.Fatal("unknown table set", zap.Error(err))
	}
	opt := options{
		variant: v,
		height:  *height,
		preset:  face.PresetID(*preset),
		ticks:   *ticks,
		clock:   *clock,
		render:  preview.Options{Scale: *scale, Bezel: *bezel},
		seed:    *seed,
	}
	if opt.height == 0 {
		opt.height = v.Height
	}
	if opt.preset == 0 {
		opt.preset = v.DefaultPreset
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal("create output directory", zap.Error(err))
	}
	files, err := snapshot(*out, opt, log)
	if err != nil {
		log.Fatal("snapshot failed", zap.Error(err))
	}
	log.Info("snapshots written", zap.Int("files", len(files)), zap.String("dir", *out))
}

// snapshot renders every pattern of opt.variant into dir and returns the
// written paths.
func snapshot(dir string, opt options, log *zap.Logger) ([]string, error) {
	var hour, minute int
	if opt.clock != "" {
		if _, err := fmt.Sscanf(opt.clock, "%d:%d", &hour, &minute); err != nil {
			return nil, fmt.Errorf("clock %q: want HH:MM", opt.clock)
		}
	}

	var files []string
	for id := range opt.variant.Patterns {
		m, err := matrix.NewMatrix(&matrix.Config{Width: face.Width, Height: opt.height})
		if err != nil {
			return nil, err
		}
		ctl, err := face.NewController(opt.variant, opt.height, m,
			face.WithRand(rand.New(rand.NewPCG(opt.seed, uint64(id)))),
			face.WithPreset(opt.preset),
			face.WithPattern(face.PatternID(id)))
		if err != nil {
			return nil, err
		}
		ctl.Repaint()
		for i := 0; i < opt.ticks; i++ {
			ctl.Tick()
		}
		if opt.clock != "" {
			overlay.DrawTime(m, hour, minute, ctl.Ink(), false)
		}

		ro := opt.render
		preset := opt.variant.Presets[opt.preset-1]
		ro.Caption = fmt.Sprintf("%d %s / %s", id, ctl.Pattern(), preset.Name)
		r, err := preview.NewRenderer(face.Width, opt.height, ro)
		if err != nil {
			return nil, err
		}

		name := fmt.Sprintf("%s-%02d-%s.png", opt.variant.Name, id, strings.ReplaceAll(ctl.Pattern().String(), "_", "-"))
		path := filepath.Join(dir, name)
		if err := writePNG(path, r, m); err != nil {
			return nil, err
		}
		log.Debug("snapshot written", zap.String("file", path), zap.Stringer("pattern", ctl.Pattern()))
		files = append(files, path)
	}
	return files, nil
}

func writePNG(path string, r *preview.Renderer, m *matrix.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f, m); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
