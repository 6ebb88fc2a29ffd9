package download

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Fetcher downloads a remote media URL into a local directory.
type Fetcher interface {
	// Fetch downloads url into destDir and returns the local file path.
	Fetch(ctx context.Context, url, destDir string) (string, error)
}

// YTDLPFetcher shells out to yt-dlp. The output template pins the basename
// to "video" so the downloaded file can be located regardless of the
// container extension yt-dlp picks.
type YTDLPFetcher struct {
	Binary string // defaults to "yt-dlp"
}

func NewYTDLPFetcher() *YTDLPFetcher {
	return &YTDLPFetcher{Binary: "yt-dlp"}
}

func (f *YTDLPFetcher) Fetch(ctx context.Context, url, destDir string) (string, error) {
	binary := f.Binary
	if binary == "" {
		binary = "yt-dlp"
	}

	outputTemplate := filepath.Join(destDir, "video.%(ext)s")
	cmd := exec.CommandContext(ctx, binary,
		"-f", "best",
		"-o", outputTemplate,
		"--no-playlist",
		url,
	)

	log.Printf("[download] fetching %s", url)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %s: %w", strings.TrimSpace(string(output)), err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("read download dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), "video.") && !strings.HasSuffix(entry.Name(), ".part") {
			return filepath.Join(destDir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("download produced no video file in %s", destDir)
}
