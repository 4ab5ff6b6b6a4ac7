package main

import (
	"errors"
	"fmt"
	"image"

	"github.com/BurntSushi/toml"

	"github.com/glk1001/visualization.goom--sub005/effects"
	"github.com/glk1001/visualization.goom--sub005/internal/warp"
)

// Config is the scene file.
type Config struct {
	Width          int
	Height         int
	Workers        int
	Frames         int
	FramesPerScene int
	Seed           uint64
	Input          string
	Output         string
	SaveEvery      int
	Interpolation  string
	Overlay        bool

	Scenes []Scene
}

// Scene is one entry of the scene list. Fields mirror effects.Settings;
// Midpoint is optional and defaults to the screen centre.
type Scene struct {
	Primary      effects.PrimaryKind
	Speed        float32
	Midpoint     []int
	AfterEffects effects.AfterEffectsSettings
	Planes       effects.PlaneSettings
	Multiplier   effects.MultiplierSettings
}

func defaultConfig() Config {
	return Config{
		Width:          640,
		Height:         480,
		Frames:         120,
		FramesPerScene: 30,
		Seed:           1,
		Output:         "goomwarp.png",
		Interpolation:  "bilinear",
		Overlay:        true,
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid size %dx%d", c.Width, c.Height)
	case c.Frames <= 0:
		return errors.New("frames must be positive")
	case c.FramesPerScene <= 0:
		return errors.New("framesPerScene must be positive")
	}
	if _, err := c.interpolation(); err != nil {
		return err
	}
	for i, s := range c.Scenes {
		if !s.Primary.IsValid() {
			return fmt.Errorf("scene %d: invalid primary effect", i)
		}
		if len(s.Midpoint) != 0 && len(s.Midpoint) != 2 {
			return fmt.Errorf("scene %d: midpoint needs two values", i)
		}
	}
	return nil
}

func (c Config) interpolation() (warp.InterpolationMode, error) {
	switch c.Interpolation {
	case "", "bilinear":
		return warp.InterpBilinear, nil
	case "nearest":
		return warp.InterpNearest, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", c.Interpolation)
	}
}

// settings returns the effects settings for every scene, or the default
// settings if the file has none.
func (c Config) settings() []effects.Settings {
	centre := image.Pt(c.Width/2, c.Height/2)

	if len(c.Scenes) == 0 {
		s := effects.DefaultSettings()
		s.ZoomMidpoint = centre
		return []effects.Settings{s}
	}

	out := make([]effects.Settings, len(c.Scenes))
	for i, sc := range c.Scenes {
		s := effects.Settings{
			Primary:      sc.Primary,
			Speed:        sc.Speed,
			ZoomMidpoint: centre,
			AfterEffects: sc.AfterEffects,
			Planes:       sc.Planes,
			Multiplier:   sc.Multiplier,
		}
		if s.Speed == 0 {
			s.Speed = 1
		}
		if len(sc.Midpoint) == 2 {
			s.ZoomMidpoint = image.Pt(sc.Midpoint[0], sc.Midpoint[1])
		}
		out[i] = s
	}
	return out
}
