package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tentamen-io/tentamen/internal/exam"
)

// writeError maps the engine's typed failures onto HTTP statuses. The
// body always carries {"error": ..., "kind": ...} so clients can branch
// without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	var (
		vErr *exam.ValidationError
		cErr *exam.ConcurrencyError
		tErr *exam.TransportError
		gErr *exam.ConfigurationError
	)
	status := http.StatusInternalServerError
	kind := "internal"
	switch {
	case errors.As(err, &vErr):
		status, kind = http.StatusUnprocessableEntity, "validation"
	case errors.As(err, &cErr):
		status, kind = http.StatusConflict, "concurrency"
	case errors.As(err, &tErr):
		status, kind = http.StatusBadGateway, "transport"
	case errors.As(err, &gErr):
		status, kind = http.StatusConflict, "configuration"
	case errors.Is(err, exam.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "kind": kind})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
