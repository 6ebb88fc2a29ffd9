// Package pipeline sequences one media run from source acquisition through
// delivery: acquire -> extract audio -> transcribe -> transform -> produce ->
// deliver -> cleanup. Stages run strictly in order; any stage failure aborts
// the run, and scratch cleanup happens on every exit path.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/subcast/backend/internal/download"
	"github.com/subcast/backend/internal/media"
	"github.com/subcast/backend/internal/runlog"
	"github.com/subcast/backend/internal/speech"
	"github.com/subcast/backend/internal/subtitle"
	"github.com/subcast/backend/internal/transcribe"
	"github.com/subcast/backend/internal/translate"
)

type Mode string

const (
	// ModeSubtitle burns translated subtitles into the source video.
	ModeSubtitle Mode = "subtitle"
	// ModePodcast produces a narrated audio summary of the source.
	ModePodcast Mode = "podcast"
)

// MediaProcessor is the transcoder boundary the runner depends on.
// *media.FFmpeg is the production implementation.
type MediaProcessor interface {
	Probe(ctx context.Context, path string) (*media.Info, error)
	ExtractAudioWAV(ctx context.Context, src, dst string) error
	BurnSubtitles(ctx context.Context, src, srtPath, dst string) error
	StreamCopy(ctx context.Context, src, dst string) error
}

// Request describes one pipeline run. Exactly one of Upload or URL must be
// set.
type Request struct {
	Mode       Mode
	Upload     io.Reader // uploaded video content
	UploadName string    // original filename, for the container extension
	URL        string    // remote source to fetch instead of an upload

	TranscribeKey string // speech-recognition credential from the form
	SynthesisKey  string // TTS credential (podcast mode)
}

// Result is the terminal payload of a successful run.
type Result struct {
	Mode         Mode
	VideoPath    string // subtitle mode: finished video inside the scratch dir
	AudioDataURI string // podcast mode: inline mp3 payload
	Script       string // podcast mode: generated narration script
	SegmentCount int    // segments that survived filtering
}

// StageTimeouts bounds each external call. Zero means no limit. Expiry
// surfaces as the corresponding stage's error kind.
type StageTimeouts struct {
	Download   time.Duration
	Transcode  time.Duration
	Transcribe time.Duration
	Translate  time.Duration // per segment
	Generate   time.Duration
	Synthesize time.Duration
}

// Languages configures the spoken and output languages per mode.
type Languages struct {
	SubtitleSource string // language spoken in subtitle-mode sources
	SubtitleTarget string // language subtitles are translated into
	PodcastSource  string // language spoken in podcast-mode sources
	PodcastTarget  string // language the narration script is written in
}

// Options wires a Runner.
type Options struct {
	Fetcher     download.Fetcher
	Media       MediaProcessor
	Transcriber transcribe.Transcriber
	Engine      translate.Engine
	Synthesizer speech.Synthesizer
	Runs        *runlog.Store // optional
	ScratchBase string
	MaxRuns     int // concurrent run bound; <=0 means 1
	Timeouts    StageTimeouts
	Languages   Languages
}

// Runner executes pipeline runs.
type Runner struct {
	fetcher     download.Fetcher
	media       MediaProcessor
	transcriber transcribe.Transcriber
	engine      translate.Engine
	synth       speech.Synthesizer
	runs        *runlog.Store
	scratchBase string
	sem         *semaphore
	timeouts    StageTimeouts
	langs       Languages
}

func NewRunner(opts Options) *Runner {
	maxRuns := opts.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 1
	}
	return &Runner{
		fetcher:     opts.Fetcher,
		media:       opts.Media,
		transcriber: opts.Transcriber,
		engine:      opts.Engine,
		synth:       opts.Synthesizer,
		runs:        opts.Runs,
		scratchBase: opts.ScratchBase,
		sem:         newSemaphore(maxRuns),
		timeouts:    opts.Timeouts,
		langs:       opts.Languages,
	}
}

// Run executes one pipeline run and calls deliver with the result before any
// temp artifacts are removed. The returned error is a *Error whose Kind maps
// the failure to an HTTP status.
func (r *Runner) Run(ctx context.Context, req Request, deliver func(*Result) error) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	if err := r.sem.acquire(ctx); err != nil {
		return newError(KindInternal, "run cancelled while waiting for a slot", err)
	}
	defer r.sem.release()

	runID := r.recordStart(req)
	start := time.Now()

	scratch, err := NewScratch(r.scratchBase)
	if err != nil {
		err = newError(KindInternal, "failed to create scratch directory", err)
		r.recordFailure(runID, err)
		return err
	}
	defer scratch.Close()

	result, err := r.execute(ctx, req, scratch)
	if err != nil {
		log.Printf("[pipeline] run %s failed after %s: %v", runID, time.Since(start).Round(time.Millisecond), err)
		r.recordFailure(runID, err)
		return err
	}

	if deliver != nil {
		if err := deliver(result); err != nil {
			err = newError(KindInternal, "failed to deliver result", err)
			r.recordFailure(runID, err)
			return err
		}
	}

	r.recordSuccess(runID, result)
	log.Printf("[pipeline] run %s (%s) completed in %s: %d segments",
		runID, req.Mode, time.Since(start).Round(time.Millisecond), result.SegmentCount)
	return nil
}

func validateRequest(req Request) error {
	switch req.Mode {
	case ModeSubtitle, ModePodcast:
	default:
		return newError(KindBadRequest, fmt.Sprintf("unknown mode: %s", req.Mode), nil)
	}
	if req.Upload == nil && req.URL == "" {
		return newError(KindBadRequest, "a video upload or URL is required", nil)
	}
	if req.Upload != nil && req.URL != "" {
		return newError(KindBadRequest, "provide either a video upload or a URL, not both", nil)
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, req Request, scratch *Scratch) (*Result, error) {
	srcPath, err := r.acquireSource(ctx, req, scratch)
	if err != nil {
		return nil, err
	}

	audioPath, err := r.extractAudio(ctx, srcPath, scratch)
	if err != nil {
		return nil, err
	}

	segments, err := r.transcribeAudio(ctx, req, audioPath)
	if err != nil {
		return nil, err
	}

	switch req.Mode {
	case ModeSubtitle:
		return r.produceSubtitledVideo(ctx, req, srcPath, segments, scratch)
	default:
		return r.producePodcast(ctx, req, segments, scratch)
	}
}

// acquireSource materializes a local media file in the scratch dir, either
// from the uploaded body or by fetching the URL.
func (r *Runner) acquireSource(ctx context.Context, req Request, scratch *Scratch) (string, error) {
	var srcPath string

	if req.Upload != nil {
		ext := filepath.Ext(req.UploadName)
		if ext == "" {
			ext = ".mp4"
		}
		srcPath = scratch.Path("source" + ext)

		f, err := os.Create(srcPath)
		if err != nil {
			return "", newError(KindInternal, "failed to store uploaded video", err)
		}
		scratch.Register(srcPath)
		if _, err := io.Copy(f, req.Upload); err != nil {
			f.Close()
			return "", newError(KindSourceUnavailable, "failed to read uploaded video", err)
		}
		f.Close()
	} else {
		stageCtx, cancel := withTimeout(ctx, r.timeouts.Download)
		defer cancel()

		path, err := r.fetcher.Fetch(stageCtx, req.URL, scratch.Dir())
		if err != nil {
			return "", newError(KindSourceUnavailable, "failed to download the video", err)
		}
		scratch.Register(path)
		srcPath = path
	}

	info, err := r.media.Probe(ctx, srcPath)
	if err != nil {
		return "", newError(KindSourceUnavailable, "source is not a readable media file", err)
	}
	if !info.HasAudio() {
		return "", newError(KindSourceUnavailable, "source has no audio track", nil)
	}

	return srcPath, nil
}

func (r *Runner) extractAudio(ctx context.Context, srcPath string, scratch *Scratch) (string, error) {
	stageCtx, cancel := withTimeout(ctx, r.timeouts.Transcode)
	defer cancel()

	audioPath := scratch.Path("audio.wav")
	if err := r.media.ExtractAudioWAV(stageCtx, srcPath, audioPath); err != nil {
		return "", newError(KindTranscode, "failed to extract audio from the video", err)
	}
	scratch.Register(audioPath)
	return audioPath, nil
}

func (r *Runner) transcribeAudio(ctx context.Context, req Request, audioPath string) ([]subtitle.Segment, error) {
	stageCtx, cancel := withTimeout(ctx, r.timeouts.Transcribe)
	defer cancel()

	language := r.langs.SubtitleSource
	if req.Mode == ModePodcast {
		language = r.langs.PodcastSource
	}

	segments, err := r.transcriber.Transcribe(stageCtx, transcribe.Request{
		AudioPath: audioPath,
		Language:  language,
		APIKey:    req.TranscribeKey,
	})
	if err != nil {
		return nil, newError(KindTranscription, "transcription failed", err)
	}
	return segments, nil
}

// produceSubtitledVideo translates each segment in order, renders the SRT,
// and burns it into the video. When nothing survives filtering the source is
// stream-copied instead so the caller still receives a valid video.
func (r *Runner) produceSubtitledVideo(ctx context.Context, req Request, srcPath string, segments []subtitle.Segment, scratch *Scratch) (*Result, error) {
	opts := translate.Options{
		SourceLang: r.langs.SubtitleSource,
		TargetLang: r.langs.SubtitleTarget,
		APIKey:     req.TranscribeKey,
	}

	// Sequential, order-preserving: entry indices must follow chronological
	// segment order.
	var translated []subtitle.Segment
	for _, seg := range segments {
		if seg.Empty() {
			continue
		}

		stageCtx, cancel := withTimeout(ctx, r.timeouts.Translate)
		text, err := r.engine.TranslateSegment(stageCtx, strings.TrimSpace(seg.Text), opts)
		cancel()
		if err != nil {
			return nil, newError(KindGeneration, "translation failed", err)
		}
		translated = append(translated, seg.WithText(text))
	}

	srt := subtitle.FormatSRT(translated, subtitle.MinDuration)
	outPath := scratch.Path("output.mp4")

	stageCtx, cancel := withTimeout(ctx, r.timeouts.Transcode)
	defer cancel()

	if srt == "" {
		log.Printf("[pipeline] no subtitle entries, copying source through unchanged")
		if err := r.media.StreamCopy(stageCtx, srcPath, outPath); err != nil {
			return nil, newError(KindTranscode, "failed to produce the output video", err)
		}
	} else {
		srtPath := scratch.Path("subtitles.srt")
		if err := os.WriteFile(srtPath, []byte(srt), 0644); err != nil {
			return nil, newError(KindInternal, "failed to write subtitle file", err)
		}
		scratch.Register(srtPath)

		if err := r.media.BurnSubtitles(stageCtx, srcPath, srtPath, outPath); err != nil {
			return nil, newError(KindTranscode, "failed to burn subtitles into the video", err)
		}
	}
	scratch.Register(outPath)

	return &Result{
		Mode:         ModeSubtitle,
		VideoPath:    outPath,
		SegmentCount: len(translated),
	}, nil
}

// producePodcast summarizes the transcript into a narration script,
// synthesizes it, and wraps the audio as an inline data URI.
func (r *Runner) producePodcast(ctx context.Context, req Request, segments []subtitle.Segment, scratch *Scratch) (*Result, error) {
	transcript := subtitle.JoinTranscript(segments)

	genCtx, cancelGen := withTimeout(ctx, r.timeouts.Generate)
	script, err := r.engine.GenerateScript(genCtx, transcript, translate.Options{
		SourceLang: r.langs.PodcastSource,
		TargetLang: r.langs.PodcastTarget,
		APIKey:     req.TranscribeKey,
	})
	cancelGen()
	if err != nil {
		return nil, newError(KindGeneration, "failed to generate the narration script", err)
	}

	synthCtx, cancelSynth := withTimeout(ctx, r.timeouts.Synthesize)
	audio, err := r.synth.Synthesize(synthCtx, speech.Request{
		Script: script,
		APIKey: req.SynthesisKey,
	})
	cancelSynth()
	if err != nil {
		return nil, newError(KindSynthesis, "speech synthesis failed", err)
	}

	audioPath := scratch.Path("podcast.mp3")
	if err := os.WriteFile(audioPath, audio, 0644); err != nil {
		return nil, newError(KindInternal, "failed to write narration audio", err)
	}
	scratch.Register(audioPath)

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, newError(KindInternal, "failed to read narration audio", err)
	}

	nonEmpty := 0
	for _, seg := range segments {
		if !seg.Empty() {
			nonEmpty++
		}
	}

	return &Result{
		Mode:         ModePodcast,
		AudioDataURI: "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(data),
		Script:       script,
		SegmentCount: nonEmpty,
	}, nil
}

func (r *Runner) recordStart(req Request) string {
	if r.runs == nil {
		return ""
	}
	source := req.URL
	if req.Upload != nil {
		source = "upload:" + req.UploadName
	}
	id, err := r.runs.Create(string(req.Mode), source)
	if err != nil {
		log.Printf("[pipeline] record run start: %v", err)
		return ""
	}
	return id
}

func (r *Runner) recordSuccess(runID string, result *Result) {
	if r.runs == nil || runID == "" {
		return
	}
	if err := r.runs.Complete(runID, result.SegmentCount); err != nil {
		log.Printf("[pipeline] record run completion: %v", err)
	}
}

func (r *Runner) recordFailure(runID string, runErr error) {
	if r.runs == nil || runID == "" {
		return
	}
	if err := r.runs.Fail(runID, string(KindOf(runErr)), MessageOf(runErr)); err != nil {
		log.Printf("[pipeline] record run failure: %v", err)
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
