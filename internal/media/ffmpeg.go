package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// BurnStyle is the force_style string applied when compositing subtitles.
// Bottom-centered, CJK-capable font with a dark outline box.
const BurnStyle = "Alignment=2,FontName=Noto Sans CJK JP,FontSize=24,PrimaryColour=&HFFFFFF,OutlineColour=&H000000,BorderStyle=3,Outline=1,Shadow=0,MarginV=35"

// FFmpeg runs media operations by shelling out to ffmpeg/ffprobe.
type FFmpeg struct{}

func NewFFmpeg() *FFmpeg {
	return &FFmpeg{}
}

// ExtractAudioWAV converts the source media's audio track to mono 16kHz
// 16-bit PCM, the input format speech recognition expects.
func (f *FFmpeg) ExtractAudioWAV(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn", // no video
		"-acodec", "pcm_s16le",
		"-ar", "16000", // 16kHz
		"-ac", "1", // mono
		"-y", // overwrite
		dst,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %s: %w", string(output), err)
	}
	return nil
}

// BurnSubtitles composites an SRT file into the video stream and copies the
// audio stream through. FFmpeg's subtitles filter mangles absolute paths
// (drive colons, quoting), so the command runs in the subtitle's directory
// and passes a bare relative filename to the filter.
func (f *FFmpeg) BurnSubtitles(ctx context.Context, src, srtPath, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", absSrc,
		"-vf", fmt.Sprintf("subtitles=%s:force_style='%s'", filepath.Base(srtPath), BurnStyle),
		"-c:a", "copy",
		absDst,
	)
	cmd.Dir = filepath.Dir(srtPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg burn subtitles: %s: %w", string(output), err)
	}
	return nil
}

// StreamCopy remuxes the source without re-encoding. Used when no subtitle
// entries survived filtering and the caller still expects a valid video.
func (f *FFmpeg) StreamCopy(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", src,
		"-c", "copy",
		dst,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg stream copy: %s: %w", string(output), err)
	}
	return nil
}
