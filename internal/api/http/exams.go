package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tentamen-io/tentamen/internal/exam"
)

func CreateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e exam.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if e.State == "" {
			e.State = exam.StateDraft
		}
		if !e.HasState(exam.StateDraft, exam.StateSaved) {
			writeError(w, &exam.ValidationError{Fields: []string{"state"}})
			return
		}
		if err := store.PutExam(r.Context(), e); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e)
	}
}

func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "examID"))
		e, err := store.GetExam(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e)
	}
}

func UpdateExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "examID"))
		var e exam.Exam
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e.ID = id
		if e.PeriodStart != nil && e.PeriodEnd != nil && e.PeriodEnd.Before(*e.PeriodStart) {
			writeError(w, &exam.ValidationError{Fields: []string{"period_end before period_start"}})
			return
		}
		if err := store.PutExam(r.Context(), e); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, e)
	}
}

// PublishExamHandler opens a draft for enrolment and sitting. Printout
// exams need at least one examination date; the rest need a window.
func PublishExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "examID"))
		e, err := store.GetExam(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		if !e.HasState(exam.StateDraft, exam.StateSaved) {
			writeError(w, &exam.ValidationError{Fields: []string{"state"}})
			return
		}
		var missing []string
		if e.ExecutionType == exam.TypePrintout {
			if len(e.ExaminationDates) == 0 {
				missing = append(missing, "examination_dates")
			}
		} else {
			if e.PeriodStart == nil || e.PeriodEnd == nil {
				missing = append(missing, "period")
			} else if e.PeriodEnd.Before(*e.PeriodStart) {
				missing = append(missing, "period_end before period_start")
			}
		}
		if len(missing) > 0 {
			writeError(w, &exam.ValidationError{Fields: missing})
			return
		}
		if err := store.UpdateState(r.Context(), id, exam.StatePublished); err != nil {
			writeError(w, err)
			return
		}
		e.State = exam.StatePublished
		writeJSON(w, e)
	}
}
