package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/subcast/backend/internal/pipeline"
)

// fakeRunner records the request it was given and either fails with err or
// hands result to the deliver callback.
type fakeRunner struct {
	req    pipeline.Request
	result *pipeline.Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, req pipeline.Request, deliver func(*pipeline.Result) error) error {
	f.req = req
	if f.err != nil {
		return f.err
	}
	return deliver(f.result)
}

func multipartForm(t *testing.T, fields map[string]string, fileField, fileName string, fileBody []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(fileBody)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestSubtitleProcessRejectsNonPost(t *testing.T) {
	h := NewSubtitleHandler(&fakeRunner{})
	rec := httptest.NewRecorder()
	h.Process(rec, httptest.NewRequest(http.MethodGet, "/api/process/subtitle", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSubtitleProcessRequiresAPIKey(t *testing.T) {
	body, ct := multipartForm(t, map[string]string{"url": "https://example.com/v"}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/process/subtitle", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	NewSubtitleHandler(&fakeRunner{}).Process(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "API key") {
		t.Errorf("body = %q, want API key message", rec.Body.String())
	}
}

func TestSubtitleProcessRequiresSource(t *testing.T) {
	form := url.Values{"apiKey": {"sk-test"}}
	req := httptest.NewRequest(http.MethodPost, "/api/process/subtitle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	NewSubtitleHandler(&fakeRunner{}).Process(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "file or URL") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestSubtitleProcessStreamsVideo(t *testing.T) {
	videoBytes := []byte("finished-video-bytes")
	out := filepath.Join(t.TempDir(), "output.mp4")
	if err := os.WriteFile(out, videoBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{result: &pipeline.Result{Mode: pipeline.ModeSubtitle, VideoPath: out}}
	body, ct := multipartForm(t, map[string]string{"apiKey": "sk-test", "url": "https://example.com/v"}, "video", "clip.mov", []byte("upload-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/process/subtitle", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	NewSubtitleHandler(runner).Process(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "video/mp4" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="output.mp4"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), videoBytes) {
		t.Errorf("body = %q, want output video bytes", rec.Body.Bytes())
	}

	// An upload must win over a stray url field.
	if runner.req.Upload == nil {
		t.Error("upload was not passed to the runner")
	}
	if runner.req.URL != "" {
		t.Errorf("URL = %q, want empty when a file is uploaded", runner.req.URL)
	}
	if runner.req.UploadName != "clip.mov" {
		t.Errorf("UploadName = %q", runner.req.UploadName)
	}
	if runner.req.TranscribeKey != "sk-test" {
		t.Errorf("TranscribeKey = %q", runner.req.TranscribeKey)
	}
}

func TestSubtitleProcessErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad request", &pipeline.Error{Kind: pipeline.KindBadRequest, Message: "a video file or URL is required"}, http.StatusBadRequest},
		{"transcode failure", &pipeline.Error{Kind: pipeline.KindTranscode, Message: "failed to render subtitles"}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartForm(t, map[string]string{"apiKey": "sk-test", "url": "https://example.com/v"}, "", "", nil)
			req := httptest.NewRequest(http.MethodPost, "/api/process/subtitle", body)
			req.Header.Set("Content-Type", ct)

			rec := httptest.NewRecorder()
			NewSubtitleHandler(&fakeRunner{err: tt.err}).Process(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			pe := tt.err.(*pipeline.Error)
			if !strings.Contains(rec.Body.String(), pe.Message) {
				t.Errorf("body = %q, want message %q", rec.Body.String(), pe.Message)
			}
		})
	}
}

func TestPodcastProcessRequiresFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing url", map[string]string{"apiKey": "sk-test", "nijivoiceApiKey": "nv-test"}},
		{"missing apiKey", map[string]string{"url": "https://example.com/v", "nijivoiceApiKey": "nv-test"}},
		{"missing nijivoiceApiKey", map[string]string{"url": "https://example.com/v", "apiKey": "sk-test"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartForm(t, tt.fields, "", "", nil)
			req := httptest.NewRequest(http.MethodPost, "/api/process/podcast", body)
			req.Header.Set("Content-Type", ct)

			rec := httptest.NewRecorder()
			NewPodcastHandler(&fakeRunner{}).Process(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp podcastError
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Success {
				t.Error("success = true on a rejected request")
			}
			if resp.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestPodcastProcessSuccess(t *testing.T) {
	dataURI := "data:audio/mp3;base64,bXAzLWJ5dGVz"
	runner := &fakeRunner{result: &pipeline.Result{
		Mode:         pipeline.ModePodcast,
		AudioDataURI: dataURI,
		Script:       "generated narration",
	}}

	body, ct := multipartForm(t, map[string]string{
		"url":             "https://youtube.com/watch?v=abc",
		"apiKey":          "sk-test",
		"nijivoiceApiKey": "nv-test",
	}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/process/podcast", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	NewPodcastHandler(runner).Process(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	var resp podcastResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.AudioData != dataURI {
		t.Errorf("audioData = %q", resp.AudioData)
	}
	if resp.AudioURL != resp.AudioData {
		t.Errorf("audioUrl = %q, want same value as audioData", resp.AudioURL)
	}

	if runner.req.Mode != pipeline.ModePodcast {
		t.Errorf("mode = %q", runner.req.Mode)
	}
	if runner.req.SynthesisKey != "nv-test" {
		t.Errorf("SynthesisKey = %q", runner.req.SynthesisKey)
	}
}

func TestPodcastProcessPipelineError(t *testing.T) {
	runner := &fakeRunner{err: &pipeline.Error{
		Kind:    pipeline.KindSynthesis,
		Message: "speech synthesis failed",
		Err:     io.ErrUnexpectedEOF,
	}}

	body, ct := multipartForm(t, map[string]string{
		"url":             "https://example.com/v",
		"apiKey":          "sk-test",
		"nijivoiceApiKey": "nv-test",
	}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/process/podcast", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	NewPodcastHandler(runner).Process(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp podcastError
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Success {
		t.Error("success = true on a failed run")
	}
	// The wrapped cause must not leak into the client-facing message.
	if resp.Message != "speech synthesis failed" {
		t.Errorf("message = %q", resp.Message)
	}
}
