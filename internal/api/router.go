package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/subcast/backend/internal/api/handlers"
	"github.com/subcast/backend/internal/api/middleware"
	"github.com/subcast/backend/internal/config"
	"github.com/subcast/backend/internal/pipeline"
	"github.com/subcast/backend/internal/runlog"
)

func NewRouter(cfg *config.Config, runner *pipeline.Runner, runs *runlog.Store) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})

	// Handlers
	subtitleHandler := handlers.NewSubtitleHandler(runner)
	podcastHandler := handlers.NewPodcastHandler(runner)
	runsHandler := handlers.NewRunsHandler(runs)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Processing endpoints accept whole video uploads and each hold an
		// ffmpeg process, so they get their own body cap and rate limit
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodySize(cfg.MaxUploadMB * 1024 * 1024))
			r.Use(middleware.NewRateLimiter(cfg.ProcessRateLimit, time.Minute).Handler)
			r.Post("/process/subtitle", subtitleHandler.Process)
			r.Post("/process/podcast", podcastHandler.Process)
		})

		// Run registry
		r.Get("/runs", runsHandler.ListRuns)
		r.Get("/runs/{id}", runsHandler.GetRun)
	})

	return r
}
