package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tentamen-io/tentamen/internal/audit"
	"github.com/tentamen-io/tentamen/internal/autoeval"
	"github.com/tentamen-io/tentamen/internal/exam"
)

// configNotifier persists config changes and leaves a trace in the event
// log. It is the autoeval engine's persistence collaborator.
type configNotifier struct {
	store  exam.Store
	events *audit.EventRepo
}

func NewConfigNotifier(store exam.Store, events *audit.EventRepo) autoeval.Notifier {
	return &configNotifier{store: store, events: events}
}

func (n *configNotifier) ConfigChanged(ctx context.Context, examID string, cfg *exam.AutoEvaluationConfig) error {
	if err := n.store.SaveEvaluationConfig(ctx, examID, cfg); err != nil {
		return &exam.TransportError{Op: "save evaluation config", Err: err}
	}
	if n.events != nil {
		_ = n.events.Append(ctx, audit.TypeConfigChanged, examID, cfg)
	}
	return nil
}

// PUT /exams/{examID}/evaluation-config — initialize (or refresh) the
// auto-evaluation config. A missing grade scale comes back as a
// "configuration" error and the feature stays disabled.
func InitEvaluationConfigHandler(store exam.Store, notifier autoeval.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := strings.TrimSpace(chi.URLParam(r, "examID"))
		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		eng := autoeval.New(&e, notifier)
		if err := eng.InitConfig(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		if err := store.SaveEvaluationConfig(r.Context(), examID, e.AutoEvaluationConfig); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e.AutoEvaluationConfig)
	}
}

type releaseTypeReq struct {
	ReleaseType string `json:"release_type"`
}

// PUT /exams/{examID}/evaluation-config/release-type — toggle-select a
// release type. Reselecting the active type clears the selection.
func SelectReleaseTypeHandler(store exam.Store, notifier autoeval.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := strings.TrimSpace(chi.URLParam(r, "examID"))
		var req releaseTypeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		eng := autoeval.New(&e, notifier)
		if err := eng.InitConfig(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		if err := eng.SelectReleaseType(r.Context(), exam.ReleaseType(req.ReleaseType)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e.AutoEvaluationConfig)
	}
}

type percentageReq struct {
	GradeID    int     `json:"grade_id"`
	Percentage float64 `json:"percentage"`
}

// PUT /exams/{examID}/evaluation-config/percentage
func SetPercentageHandler(store exam.Store, notifier autoeval.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := strings.TrimSpace(chi.URLParam(r, "examID"))
		var req percentageReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		eng := autoeval.New(&e, notifier)
		if err := eng.InitConfig(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		if err := eng.SetPercentage(r.Context(), req.GradeID, req.Percentage); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e.AutoEvaluationConfig)
	}
}
