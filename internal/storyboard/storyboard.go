// Package storyboard renders a replayed scenario into numbered PNG frames and
// optionally encodes them into a video.
package storyboard

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/carousel/internal/config"
	"github.com/ivlev/carousel/internal/director"
	"github.com/ivlev/carousel/internal/effects"
	"github.com/ivlev/carousel/internal/engine"
	"github.com/ivlev/carousel/internal/renderer"
	"github.com/ivlev/carousel/internal/source"
	"github.com/ivlev/carousel/internal/system"
	"github.com/ivlev/carousel/internal/video"
)

const framePattern = "frame_%05d.png"

type Exporter struct {
	Config     config.StoryboardConfig
	Transition effects.Transition
	Encoder    video.VideoEncoder
	Log        *zap.Logger
}

// Summary describes a finished export
type Summary struct {
	Frames    int
	Dir       string
	Video     string
	Render    time.Duration
	Encode    time.Duration
	Encoder   string
	Keyframes int
}

// NewExporter builds an exporter whose slide transitions last as long as the engine lock
func NewExporter(cfg *config.Config, log *zap.Logger) (*Exporter, error) {
	ease, err := effects.ByName(cfg.Storyboard.Easing)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{
		Config:     cfg.Storyboard,
		Transition: effects.Transition{Duration: cfg.Engine.LockDuration, Ease: ease},
		Encoder:    &video.FFmpegEncoder{},
		Log:        log,
	}, nil
}

// FrameCount is the number of frames covering res at fps
func FrameCount(res *director.Result, fps int) int {
	n := int(math.Ceil(res.Duration * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}

// AssignmentsAt returns the placements visible at time t. A keyframe's
// transition starts at its time and blends from the previous keyframe.
func (e *Exporter) AssignmentsAt(res *director.Result, t float64) []engine.Assignment {
	kfs := res.Keyframes
	if len(kfs) == 0 {
		return nil
	}
	k := 0
	for i := range kfs {
		if kfs[i].Time <= t {
			k = i
		}
	}
	if k == 0 {
		return kfs[0].Assignments
	}

	elapsed := time.Duration((t - kfs[k].Time) * float64(time.Second))
	if elapsed >= e.Transition.Duration {
		return kfs[k].Assignments
	}
	p := e.Transition.Progress(elapsed)
	return renderer.Interpolate(kfs[k-1].Assignments, kfs[k].Assignments, p, nil)
}

// Export renders every frame of res into Config.OutputDir and, when
// Config.OutputVideo is set, encodes them.
func (e *Exporter) Export(ctx context.Context, res *director.Result, items []source.Item, src source.Source) (*Summary, error) {
	cfg := e.Config
	if len(res.Keyframes) == 0 {
		return nil, fmt.Errorf("nothing to render: no keyframes")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, err
	}

	frame := renderer.NewFrame(cfg.Width, cfg.Height, cfg.CardRatio)
	if err := frame.Prepare(items, src, cfg.DPI); err != nil {
		return nil, err
	}

	total := FrameCount(res, cfg.FPS)
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	e.Log.Info("rendering storyboard",
		zap.Int("frames", total),
		zap.Int("keyframes", len(res.Keyframes)),
		zap.Int("workers", workers),
		zap.String("dir", cfg.OutputDir))

	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < total; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t := float64(i) / float64(cfg.FPS)
			img := frame.Render(e.AssignmentsAt(res, t))
			defer frame.Release(img)
			return writePNG(filepath.Join(cfg.OutputDir, fmt.Sprintf(framePattern, i)), img)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render frames: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := &Summary{
		Frames:    total,
		Dir:       cfg.OutputDir,
		Render:    time.Since(renderStart),
		Keyframes: len(res.Keyframes),
	}
	e.Log.Info("frames ready", zap.Int("frames", total), zap.Duration("took", sum.Render))

	if cfg.OutputVideo == "" {
		return sum, nil
	}

	encoder := cfg.VideoEncoder
	if encoder == "" {
		encoder = system.GetBestH264Encoder()
	}
	quality := cfg.Quality
	if quality == 0 {
		quality = system.DefaultQuality(encoder)
	}
	if encoder != "libx264" {
		e.Log.Info("hardware encoder detected", zap.String("encoder", encoder))
	}

	encodeStart := time.Now()
	pattern := filepath.Join(cfg.OutputDir, framePattern)
	params := video.Params{FPS: cfg.FPS, Encoder: encoder, Quality: quality}
	if err := e.Encoder.EncodeFrames(ctx, pattern, cfg.OutputVideo, params); err != nil {
		return nil, err
	}
	sum.Video = cfg.OutputVideo
	sum.Encoder = encoder
	sum.Encode = time.Since(encodeStart)
	e.Log.Info("video ready", zap.String("path", sum.Video), zap.Duration("took", sum.Encode))
	return sum, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
