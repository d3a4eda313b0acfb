package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentamen-io/tentamen/internal/audit"
	authmw "github.com/tentamen-io/tentamen/internal/auth/middleware"
	"github.com/tentamen-io/tentamen/internal/db"
	"github.com/tentamen-io/tentamen/internal/exam"
)

type listStore struct {
	exam.Store
	exams []exam.Exam
}

func (s *listStore) ListForReviewer(context.Context, string) ([]exam.Exam, error) {
	return s.exams, nil
}

func reviewerRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(authmw.WithSubject(req.Context(), "t1"))
}

func TestListReviewsDefaultsToOpenStates(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ended := started.Add(30 * time.Minute)
	store := &listStore{exams: []exam.Exam{{
		ID: "parent",
		Children: []*exam.Exam{
			{ID: "c1", State: exam.StateReview, Creator: &exam.User{ID: "s1", FirstName: "Maija", LastName: "Meikäläinen"}, Started: &started, Ended: &ended},
			{ID: "c2", State: exam.StateGraded},
			{ID: "c3", State: exam.StateReviewStarted},
		},
	}}}

	rec := httptest.NewRecorder()
	ListReviewsHandler(store)(rec, reviewerRequest(t, "/reviews"))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []reviewListItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 2)
	assert.Equal(t, "c1", items[0].Participation.ID)
	assert.Equal(t, "Meikäläinen Maija", items[0].DisplayName)
	assert.Equal(t, "30", items[0].Duration)
	assert.Equal(t, "c3", items[1].Participation.ID)
}

func TestListReviewsStateFilter(t *testing.T) {
	store := &listStore{exams: []exam.Exam{{
		ID: "parent",
		Children: []*exam.Exam{
			{ID: "c1", State: exam.StateReview},
			{ID: "c2", State: exam.StateGraded},
		},
	}}}

	rec := httptest.NewRecorder()
	ListReviewsHandler(store)(rec, reviewerRequest(t, "/reviews?state=GRADED"))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []reviewListItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "c2", items[0].Participation.ID)
}

type recordingSaver struct{ err error }

func (r *recordingSaver) SaveEssayScore(context.Context, string, string, float64) error {
	return r.err
}

func TestScoreAuditorAppendsEvent(t *testing.T) {
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:auditortest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	events := audit.NewEventRepo(conn)

	saver := NewScoreAuditor(&recordingSaver{}, events)
	require.NoError(t, saver.SaveEssayScore(context.Background(), "x1", "q1", 4.5))

	var typ, key string
	err = conn.QueryRow(`SELECT typ, key FROM event_log ORDER BY seq DESC LIMIT 1`).Scan(&typ, &key)
	require.NoError(t, err)
	assert.Equal(t, audit.TypeScoreSaved, typ)
	assert.Equal(t, "x1", key)
}

func TestScoreAuditorSkipsEventOnFailure(t *testing.T) {
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:auditorfail?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	events := audit.NewEventRepo(conn)

	saver := NewScoreAuditor(&recordingSaver{err: context.DeadlineExceeded}, events)
	require.Error(t, saver.SaveEssayScore(context.Background(), "x1", "q1", 4.5))

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM event_log`).Scan(&n))
	assert.Zero(t, n, "failed saves must not be logged")
}
