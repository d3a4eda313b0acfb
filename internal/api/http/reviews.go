package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tentamen-io/tentamen/internal/audit"
	authmw "github.com/tentamen-io/tentamen/internal/auth/middleware"
	"github.com/tentamen-io/tentamen/internal/exam"
	"github.com/tentamen-io/tentamen/internal/record"
	"github.com/tentamen-io/tentamen/internal/review"
)

var validate = validator.New()

type reviewListItem struct {
	Participation review.Participation `json:"participation"`
	DisplayName   string               `json:"display_name"`
	Duration      string               `json:"duration_minutes"`
}

// GET /reviews?state=REVIEW,REVIEW_STARTED — the current reviewer's
// sittings across all their exams, filtered by child state. Without a
// filter the open review states are listed.
func ListReviewsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		exams, err := store.ListForReviewer(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}

		states := []exam.State{exam.StateReview, exam.StateReviewStarted}
		if raw := strings.TrimSpace(r.URL.Query().Get("state")); raw != "" {
			states = states[:0]
			for _, s := range strings.Split(raw, ",") {
				if s = strings.TrimSpace(s); s != "" {
					states = append(states, exam.State(s))
				}
			}
		}

		items := []reviewListItem{}
		for i := range exams {
			sittings := review.FilterByState(review.ParticipationsOf(&exams[i]), states...)
			for _, p := range sittings {
				items = append(items, reviewListItem{
					Participation: p,
					DisplayName:   review.DisplayName(p),
					Duration:      review.Duration(p),
				})
			}
		}
		writeJSON(w, items)
	}
}

// GET /reviews/{examID} — the exam's answers partitioned for the current
// reviewer.
func GetReviewHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := strings.TrimSpace(chi.URLParam(r, "examID"))
		userID := authmw.SubjectFromContext(r.Context())
		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, review.PartitionAnswers(e.Questions, &e, userID))
	}
}

// scoreAuditor persists essay evaluations and leaves a trace in the event
// log, mirroring what configNotifier does for config changes.
type scoreAuditor struct {
	saver  review.ScoreSaver
	events *audit.EventRepo
}

func NewScoreAuditor(saver review.ScoreSaver, events *audit.EventRepo) review.ScoreSaver {
	return &scoreAuditor{saver: saver, events: events}
}

func (s *scoreAuditor) SaveEssayScore(ctx context.Context, examID, questionID string, evaluatedScore float64) error {
	if err := s.saver.SaveEssayScore(ctx, examID, questionID, evaluatedScore); err != nil {
		return err
	}
	if s.events != nil {
		_ = s.events.Append(ctx, audit.TypeScoreSaved, examID, map[string]any{
			"question_id":     questionID,
			"evaluated_score": evaluatedScore,
		})
	}
	return nil
}

type essayScoreReq struct {
	Score float64 `json:"score"`
}

// PUT /reviews/{examID}/question/{questionID}/score — commit an essay
// evaluation for the current reviewer.
func SaveEssayScoreHandler(store exam.Store, svc *review.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := strings.TrimSpace(chi.URLParam(r, "examID"))
		questionID := strings.TrimSpace(chi.URLParam(r, "questionID"))
		userID := authmw.SubjectFromContext(r.Context())

		var req essayScoreReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		var q *exam.SectionQuestion
		for i := range e.Questions {
			if e.Questions[i].ID == questionID {
				q = &e.Questions[i]
				break
			}
		}
		if q == nil {
			writeError(w, exam.ErrNotFound)
			return
		}
		if q.EssayAnswer != nil {
			q.EssayAnswer.Score = req.Score
		}
		p := review.PartitionAnswers(e.Questions, &e, userID)
		if err := svc.SaveEvaluation(r.Context(), &p, &e, q, userID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, q)
	}
}

type submitRecordReq struct {
	TargetState string `json:"target_state" validate:"required,oneof=ARCHIVED GRADED_LOGGED"`
	ExternalRef string `json:"external_ref,omitempty"`
}

// PUT /reviews/{examID}/record — run the submission gate.
func SubmitRecordHandler(store exam.Store, gate *record.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := strings.TrimSpace(chi.URLParam(r, "examID"))
		var req submitRecordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, &exam.ValidationError{Fields: []string{err.Error()}})
			return
		}
		e, err := store.GetExam(r.Context(), examID)
		if err != nil {
			writeError(w, err)
			return
		}
		rev, err := gate.Submit(r.Context(), &e, exam.State(req.TargetState), req.ExternalRef)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"state": string(e.State), "rev": rev})
	}
}
