package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/subcast/backend/internal/pipeline"
)

// Runner is the pipeline boundary the processing handlers depend on.
// *pipeline.Runner is the production implementation.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request, deliver func(*pipeline.Result) error) error
}

func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// statusForKind maps a pipeline failure kind to an HTTP status code.
func statusForKind(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
