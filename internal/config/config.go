package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/schedule"
	"github.com/ivlev/carousel/internal/viewport"
)

type Config struct {
	CatalogPath string           `yaml:"catalog"`
	Engine      EngineConfig     `yaml:"engine"`
	Viewport    ViewportConfig   `yaml:"viewport"`
	Autoplay    AutoplayConfig   `yaml:"autoplay"`
	Storyboard  StoryboardConfig `yaml:"storyboard"`
	Server      ServerConfig     `yaml:"server"`
}

type EngineConfig struct {
	LockDuration     time.Duration `yaml:"lock_duration"`
	ExpandedOffsets  []float64     `yaml:"expanded_offsets"`
	StagedOffset     float64       `yaml:"staged_offset"`
	FarOffset        float64       `yaml:"far_offset"`
	ActiveScale      float64       `yaml:"active_scale"`
	ActiveStackOrder int           `yaml:"active_stack_order"`
}

type ViewportConfig struct {
	Breakpoint    int `yaml:"breakpoint"`
	CompactSlots  int `yaml:"compact_slots"`
	ExpandedSlots int `yaml:"expanded_slots"`
}

type AutoplayConfig struct {
	Enabled bool          `yaml:"enabled"`
	Period  time.Duration `yaml:"period"`
}

type StoryboardConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FPS          int     `yaml:"fps"`
	Workers      int     `yaml:"workers"`
	ViewWidth    int     `yaml:"view_width"` // viewport width the storyboard is classified as
	Easing       string  `yaml:"easing"`
	DPI          int     `yaml:"dpi"`
	CardRatio    float64 `yaml:"card_ratio"` // card width as a share of the frame width
	VideoEncoder string  `yaml:"video_encoder"`
	Quality      int     `yaml:"quality"`
	OutputDir    string  `yaml:"output_dir"`
	OutputVideo  string  `yaml:"output_video"`
}

type ServerConfig struct {
	Addr         string `yaml:"addr"`
	WatchCatalog bool   `yaml:"watch_catalog"`
}

// Default returns the values observed on the agency site
func Default() *Config {
	l := engine.DefaultLayout()
	return &Config{
		Engine: EngineConfig{
			LockDuration:     engine.DefaultLockDuration,
			ExpandedOffsets:  l.ExpandedOffsets,
			StagedOffset:     l.StagedOffset,
			FarOffset:        l.FarOffset,
			ActiveScale:      l.ActiveScale,
			ActiveStackOrder: l.ActiveStackOrder,
		},
		Viewport: ViewportConfig{
			Breakpoint:    768,
			CompactSlots:  1,
			ExpandedSlots: 5,
		},
		Autoplay: AutoplayConfig{
			Enabled: true,
			Period:  3 * time.Second,
		},
		Storyboard: StoryboardConfig{
			Width:     1280,
			Height:    720,
			FPS:       30,
			Workers:   4,
			ViewWidth: 1280,
			Easing:    "ease-in-out-cubic",
			DPI:       96,
			CardRatio: 0.28,
			Quality:   23,
			OutputDir: "output",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			WatchCatalog: true,
		},
	}
}

// Load reads a YAML file over Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Write stores cfg as YAML
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Engine.LockDuration <= 0 {
		return fmt.Errorf("engine.lock_duration must be positive, got %s", c.Engine.LockDuration)
	}
	if len(c.Engine.ExpandedOffsets) < 2 {
		return fmt.Errorf("engine.expanded_offsets needs at least two entries")
	}
	if c.Viewport.CompactSlots < 1 || c.Viewport.ExpandedSlots < 1 {
		return fmt.Errorf("viewport slot counts must be at least 1")
	}
	if c.Viewport.Breakpoint <= 0 {
		return fmt.Errorf("viewport.breakpoint must be positive, got %d", c.Viewport.Breakpoint)
	}
	if c.Autoplay.Period <= 0 {
		return fmt.Errorf("autoplay.period must be positive, got %s", c.Autoplay.Period)
	}
	if c.Storyboard.FPS <= 0 || c.Storyboard.Width <= 0 || c.Storyboard.Height <= 0 {
		return fmt.Errorf("storyboard size and fps must be positive")
	}
	return nil
}

func (c *Config) Layout() engine.Layout {
	return engine.Layout{
		ExpandedOffsets:  append([]float64(nil), c.Engine.ExpandedOffsets...),
		StagedOffset:     c.Engine.StagedOffset,
		FarOffset:        c.Engine.FarOffset,
		ActiveScale:      c.Engine.ActiveScale,
		ActiveStackOrder: c.Engine.ActiveStackOrder,
	}
}

// EngineOptions wires the engine section to a scheduler and logger
func (c *Config) EngineOptions(sched schedule.Scheduler, log *zap.Logger) engine.Options {
	l := c.Layout()
	return engine.Options{
		LockDuration: c.Engine.LockDuration,
		Scheduler:    sched,
		Layout:       &l,
		Logger:       log,
	}
}

func (c *Config) Classifier() viewport.Classifier {
	return viewport.Classifier{
		Breakpoint:    c.Viewport.Breakpoint,
		CompactSlots:  c.Viewport.CompactSlots,
		ExpandedSlots: c.Viewport.ExpandedSlots,
	}
}
