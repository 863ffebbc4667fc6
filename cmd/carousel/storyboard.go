package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/carousel/internal/director"
	"github.com/ivlev/carousel/internal/storyboard"
	"github.com/ivlev/carousel/internal/system"
)

var (
	storyboardScenario  string
	storyboardVideo     bool
	storyboardKeyframes bool
	storyboardWorkers   int
)

var storyboardCmd = &cobra.Command{
	Use:   "storyboard",
	Short: "Replay a scenario and render it to PNG frames and optionally a video",
	Long: `Replays a scenario against the engine on a simulated clock, so commands
issued during a slide are dropped exactly as they would be live, then renders
every frame with eased transitions. With --video the frames are encoded with
ffmpeg, using a hardware H.264 encoder when one is available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		system.RaiseFileLimit(4096, logger)

		path := storyboardScenario
		if path == "" {
			latest, err := director.FindLatestScenario(director.DefaultScenarioDir)
			if err != nil {
				return fmt.Errorf("%w (run 'carousel scenario' first)", err)
			}
			path = latest
			fmt.Printf("[*] Scenario: %s\n", path)
		}
		sc, err := director.ReadScenario(path)
		if err != nil {
			return err
		}

		src, items, err := openSource()
		if err != nil {
			return err
		}
		defer src.Close()

		res, err := director.NewDirector(cfg, logger).Replay(sc, len(items))
		if err != nil {
			return err
		}
		fmt.Printf("[*] %d keyframes over %.1fs, %d commands dropped, autoplay %d/%d ticks accepted\n",
			len(res.Keyframes), res.Duration, res.Dropped, res.Autoplay.Accepted, res.Autoplay.Fired)

		if storyboardKeyframes {
			kfPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".keyframes.yaml"
			if err := director.WriteKeyframes(res, kfPath); err != nil {
				return err
			}
			fmt.Printf("[*] Keyframes: %s\n", kfPath)
		}

		exp, err := storyboard.NewExporter(cfg, logger)
		if err != nil {
			return err
		}
		if storyboardWorkers > 0 {
			exp.Config.Workers = storyboardWorkers
		}
		if storyboardVideo && exp.Config.OutputVideo == "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			exp.Config.OutputVideo = filepath.Join(exp.Config.OutputDir,
				fmt.Sprintf("%s_%s.mp4", base, time.Now().Format("2006-01-02_15-04-05")))
		}

		sum, err := exp.Export(cmd.Context(), res, items, src)
		if err != nil {
			return err
		}
		logger.Info("storyboard done",
			zap.Int("frames", sum.Frames),
			zap.Duration("render", sum.Render),
			zap.Duration("encode", sum.Encode))

		fmt.Printf("[+] %d frames in %s\n", sum.Frames, sum.Dir)
		if sum.Video != "" {
			fmt.Printf("[+++] Video: %s (%s)\n", sum.Video, sum.Encoder)
		}
		return nil
	},
}

func init() {
	storyboardCmd.Flags().StringVarP(&storyboardScenario, "scenario", "s", "", "scenario file (default: latest in scenarios/)")
	storyboardCmd.Flags().BoolVar(&storyboardVideo, "video", false, "encode the frames with ffmpeg")
	storyboardCmd.Flags().BoolVar(&storyboardKeyframes, "keyframes", false, "also write the replayed keyframes as YAML")
	storyboardCmd.Flags().IntVar(&storyboardWorkers, "workers", 0, "render workers (default: config)")
}
