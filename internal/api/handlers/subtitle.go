package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/subcast/backend/internal/pipeline"
)

// SubtitleHandler accepts a video (upload or URL) and streams back the same
// video with translated subtitles burned in.
type SubtitleHandler struct {
	runner Runner
}

func NewSubtitleHandler(runner Runner) *SubtitleHandler {
	return &SubtitleHandler{runner: runner}
}

// Process handles POST /api/process/subtitle. The multipart form must carry
// a "video" file or a "url" field, plus an "apiKey" transcription credential.
// Errors on this endpoint are plain text; the success payload is the video
// itself.
func (h *SubtitleHandler) Process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	apiKey := r.FormValue("apiKey")
	if apiKey == "" {
		http.Error(w, "transcription API key is required", http.StatusBadRequest)
		return
	}

	req := pipeline.Request{
		Mode:          pipeline.ModeSubtitle,
		TranscribeKey: apiKey,
		URL:           r.FormValue("url"),
	}

	file, header, err := r.FormFile("video")
	switch err {
	case nil:
		defer file.Close()
		req.Upload = file
		req.UploadName = header.Filename
		req.URL = "" // an upload wins over a stray url field
	case http.ErrMissingFile:
		if req.URL == "" {
			http.Error(w, "a video file or URL is required", http.StatusBadRequest)
			return
		}
	default:
		http.Error(w, "failed to read the uploaded video", http.StatusBadRequest)
		return
	}

	delivered := false
	err = h.runner.Run(r.Context(), req, func(result *pipeline.Result) error {
		f, err := os.Open(result.VideoPath)
		if err != nil {
			return fmt.Errorf("open output video: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("stat output video: %w", err)
		}

		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Disposition", `attachment; filename="output.mp4"`)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
		delivered = true

		_, err = io.Copy(w, f)
		return err
	})

	if err != nil {
		if delivered {
			// Headers are already on the wire; all we can do is log.
			log.Printf("[api] subtitle response aborted mid-stream: %v", err)
			return
		}
		http.Error(w, pipeline.MessageOf(err), statusForKind(pipeline.KindOf(err)))
	}
}
