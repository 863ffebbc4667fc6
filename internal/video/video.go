package video

import (
	"context"
	"fmt"
	"os/exec"
)

// Params describe how a numbered frame sequence becomes a video
type Params struct {
	FPS     int
	Encoder string // ffmpeg codec name, e.g. libx264 or h264_nvenc
	Quality int    // crf/cq value; bitrate in 100 kbit/s units for VideoToolbox
}

type VideoEncoder interface {
	EncodeFrames(ctx context.Context, pattern string, videoPath string, params Params) error
}

type FFmpegEncoder struct {
	Binary string // defaults to ffmpeg on PATH
}

// EncodeFrames turns an image2 pattern such as frames/frame_%05d.png into a video
func (e *FFmpegEncoder) EncodeFrames(ctx context.Context, pattern string, videoPath string, params Params) error {
	bin := e.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	args := e.buildFFmpegArgs(pattern, videoPath, params)
	cmd := exec.CommandContext(ctx, bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encode error: %v, output: %s", err, string(out))
	}
	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(pattern, videoPath string, params Params) []string {
	fps := params.FPS
	if fps <= 0 {
		fps = 30
	}
	encoder := params.Encoder
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", pattern,
		"-r", fmt.Sprintf("%d", fps),
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}

	// quality knob differs per encoder
	switch encoder {
	case "h264_videotoolbox":
		bitrate := params.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}
