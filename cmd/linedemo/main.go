// Command linedemo renders bouncing lines without a window and saves the
// final frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/overdriven"
	"github.com/gogpu/overdriven/internal/scene"
)

type config struct {
	scenePath string
	frames    int
	width     uint
	height    uint
	output    string
	lowPower  bool
	spirv     bool
	verbose   bool
	quiet     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.scenePath, "scene", "", "scene file (.yaml, .yml or .toml); empty uses one default line")
	flag.IntVar(&cfg.frames, "frames", 0, "number of frames to render (overrides the scene)")
	flag.UintVar(&cfg.width, "width", 0, "image width (overrides the scene)")
	flag.UintVar(&cfg.height, "height", 0, "image height (overrides the scene)")
	flag.StringVar(&cfg.output, "output", "linedemo.png", "output file")
	flag.BoolVar(&cfg.lowPower, "low-power", false, "prefer an integrated GPU")
	flag.BoolVar(&cfg.spirv, "spirv", false, "pass SPIR-V instead of WGSL to the driver")
	flag.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
	flag.BoolVar(&cfg.quiet, "quiet", false, "hide the progress bar")
	flag.Parse()

	if err := run(cfg); err != nil {
		log.Fatalf("linedemo: %v", err)
	}
}

func run(cfg config) error {
	if cfg.verbose {
		overdriven.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	sc, err := loadScene(cfg)
	if err != nil {
		return err
	}

	opts := []overdriven.ContextOption{overdriven.WithLabel("linedemo")}
	if cfg.lowPower {
		opts = append(opts, overdriven.WithPowerPreference(gputypes.PowerPreferenceLowPower))
	}
	ctx, err := overdriven.NewHeadlessContext(sc.Width, sc.Height, opts...)
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	defer ctx.Close()

	cc := *sc.ClearColor
	renderer, err := overdriven.NewLineRenderer(ctx,
		overdriven.WithClearColor(gputypes.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		overdriven.WithShaderSPIRV(cfg.spirv))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Destroy()

	if err := animate(ctx, renderer, sc, cfg.quiet); err != nil {
		return err
	}

	img, err := ctx.Snapshot()
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	stats := renderer.Stats()
	log.Printf("Rendered %d frames, %d lines in the last, saved to %s (%dx%d)",
		stats.Frame, stats.Segments, cfg.output, sc.Width, sc.Height)
	return nil
}

// loadScene reads the scene file, or builds the default scene, and applies
// command-line overrides.
func loadScene(cfg config) (*scene.Scene, error) {
	sc := scene.Default()
	if cfg.scenePath != "" {
		var err error
		if sc, err = scene.Load(cfg.scenePath); err != nil {
			return nil, err
		}
	}
	if cfg.frames > 0 {
		sc.Frames = cfg.frames
	}
	if cfg.width > 0 {
		sc.Width = uint32(cfg.width) //nolint:gosec // image sizes fit uint32
	}
	if cfg.height > 0 {
		sc.Height = uint32(cfg.height) //nolint:gosec // image sizes fit uint32
	}
	return sc, nil
}

// animate steps the scene and renders one frame per step.
func animate(ctx *overdriven.Context, renderer *overdriven.LineRenderer, sc *scene.Scene, quiet bool) error {
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = progressbar.Default(int64(sc.Frames), "rendering")
		defer bar.Close()
	}

	for frame := 1; frame <= sc.Frames; frame++ {
		if sc.SpawnEvery > 0 && frame%sc.SpawnEvery == 0 {
			sc.Spawn()
		}
		sc.Step()
		for _, l := range sc.Lines {
			p := l.Points
			renderer.Line(p[0], p[1], p[2], p[3])
		}
		if err := renderer.Render(ctx); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}
