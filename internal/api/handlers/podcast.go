package handlers

import (
	"net/http"

	"github.com/subcast/backend/internal/pipeline"
)

// PodcastHandler accepts a video URL and returns a narrated audio summary as
// an inline data URI.
type PodcastHandler struct {
	runner Runner
}

func NewPodcastHandler(runner Runner) *PodcastHandler {
	return &PodcastHandler{runner: runner}
}

// podcastResponse is the success payload. audioUrl carries the same data URI
// as audioData: the original front end reads either field, so both are kept
// as aliases of the one canonical value.
type podcastResponse struct {
	Success   bool   `json:"success"`
	AudioData string `json:"audioData"`
	AudioURL  string `json:"audioUrl"`
	Message   string `json:"message"`
}

type podcastError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Process handles POST /api/process/podcast. The multipart form must carry
// "url", "apiKey" (transcription) and "nijivoiceApiKey" (synthesis) fields.
func (h *PodcastHandler) Process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonResponse(w, podcastError{Message: "Method Not Allowed"}, http.StatusMethodNotAllowed)
		return
	}

	url := r.FormValue("url")
	apiKey := r.FormValue("apiKey")
	synthKey := r.FormValue("nijivoiceApiKey")

	if url == "" || apiKey == "" {
		jsonResponse(w, podcastError{Message: "a video URL and transcription API key are required"}, http.StatusBadRequest)
		return
	}
	if synthKey == "" {
		jsonResponse(w, podcastError{Message: "a speech synthesis API key is required"}, http.StatusBadRequest)
		return
	}

	req := pipeline.Request{
		Mode:          pipeline.ModePodcast,
		URL:           url,
		TranscribeKey: apiKey,
		SynthesisKey:  synthKey,
	}

	err := h.runner.Run(r.Context(), req, func(result *pipeline.Result) error {
		jsonResponse(w, podcastResponse{
			Success:   true,
			AudioData: result.AudioDataURI,
			AudioURL:  result.AudioDataURI,
			Message:   "narration generated successfully",
		}, http.StatusOK)
		return nil
	})

	if err != nil {
		jsonResponse(w, podcastError{Message: pipeline.MessageOf(err)}, statusForKind(pipeline.KindOf(err)))
	}
}
