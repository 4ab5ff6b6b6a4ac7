// Command goomwarp renders a feedback zoom of an image using goom transform
// buffers. It cycles through the scenes of a TOML file, warping the
// previous frame through the latest completed buffer every frame, and
// writes the result as PNG.
//
// Usage:
//
//	goomwarp -config scenes.toml -input photo.jpg -frames 300 -output out.png
package main

import (
	"context"
	"flag"
	"image"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"

	goom "github.com/glk1001/visualization.goom--sub005"
	"github.com/glk1001/visualization.goom--sub005/coords"
	"github.com/glk1001/visualization.goom--sub005/internal/warp"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	var (
		configPath = flag.String("config", "", "TOML scene file")
		input      = flag.String("input", "", "input image (PNG, JPEG, BMP or WebP); default is a test pattern")
		output     = flag.String("output", "", "output PNG")
		frames     = flag.Int("frames", 0, "number of frames to render")
		workers    = flag.Int("workers", 0, "row workers (0 = one per CPU)")
		seed       = flag.Uint64("seed", 0, "random seed for effect parameters")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	goom.SetLogger(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "frames":
			cfg.Frames = *frames
		case "workers":
			cfg.Workers = *workers
		case "seed":
			cfg.Seed = *seed
		}
	})

	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("goomwarp: %v", err)
	}
}

func run(ctx context.Context, cfg Config) error {
	mode, err := cfg.interpolation()
	if err != nil {
		return err
	}

	c, err := goom.NewCoordinator(cfg.Width, cfg.Height,
		goom.WithWorkers(cfg.Workers),
		goom.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))),
	)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	warper := warp.New(cfg.Workers, mode)
	defer warper.Close()

	cur, err := loadImage(cfg.Input, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	next := image.NewRGBA(cur.Rect)

	scenes := cfg.settings()
	c.SetFilterEffectsSettings(scenes[0])
	if err := c.Start(); err != nil {
		return err
	}

	buf, err := goom.NewTransformBuffer(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	haveBuffer := false

	for frame := range cfg.Frames {
		if frame > 0 && frame%cfg.FramesPerScene == 0 {
			scene := scenes[(frame/cfg.FramesPerScene)%len(scenes)]
			c.SetFilterEffectsSettings(scene)
			logger.Info("scene change", "frame", frame, "primary", scene.Primary)
		}

		if _, err := c.Producer().WaitForPass(ctx); err != nil {
			return err
		}
		if c.CopyTransformBuffer(buf) {
			haveBuffer = true
		}

		if haveBuffer {
			if err := warper.Warp(next, cur, buf, coords.Current()); err != nil {
				return err
			}
			cur, next = next, cur
		}

		if err := c.Update(); err != nil {
			return err
		}

		if cfg.SaveEvery > 0 && frame%cfg.SaveEvery == 0 {
			if err := savePNG(framePath(cfg.Output, frame), cur); err != nil {
				return err
			}
		}
	}

	values := c.NameValues()
	for _, nv := range values {
		logger.Info("stat", "name", nv.Name, "value", nv.Value)
	}

	if cfg.Overlay {
		drawOverlay(cur, values)
	}
	if err := savePNG(cfg.Output, cur); err != nil {
		return err
	}

	logger.Info("done", "output", cfg.Output, "frames", cfg.Frames, "size", cur.Bounds().Size())
	return nil
}
