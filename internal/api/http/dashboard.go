package http

import (
	"net/http"
	"time"

	authmw "github.com/tentamen-io/tentamen/internal/auth/middleware"
	"github.com/tentamen-io/tentamen/internal/dashboard"
	"github.com/tentamen-io/tentamen/internal/exam"
)

// GET /dashboard — the four buckets for the authenticated reviewer.
func DashboardHandler(store exam.Store, now func() time.Time, count dashboard.CountFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := authmw.SubjectFromContext(r.Context())
		if viewerID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		exams, err := store.ListForReviewer(r.Context(), viewerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, dashboard.Classify(exams, now(), viewerID, count))
	}
}
