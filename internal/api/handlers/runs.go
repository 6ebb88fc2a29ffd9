package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/subcast/backend/internal/runlog"
)

type RunsHandler struct {
	store *runlog.Store
}

func NewRunsHandler(store *runlog.Store) *RunsHandler {
	return &RunsHandler{store: store}
}

// ListRuns returns recent pipeline runs, newest first.
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.store.List(limit)
	if err != nil {
		jsonError(w, "failed to list runs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*runlog.Run{}
	}
	jsonResponse(w, runs, http.StatusOK)
}

// GetRun returns a single run by ID.
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing run ID", http.StatusBadRequest)
		return
	}

	run, err := h.store.Get(id)
	if err != nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, run, http.StatusOK)
}
