package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tentamen-io/tentamen/internal/exam"
	"github.com/tentamen-io/tentamen/internal/review"
)

func sitting(id string, state exam.State) review.Participation {
	return review.Participation{ID: id, Exam: &exam.Exam{ID: "e-" + id, State: state}}
}

func TestParticipationsOf(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ended := started.Add(50 * time.Minute)
	parent := &exam.Exam{
		ID: "parent",
		Children: []*exam.Exam{
			{ID: "c1", State: exam.StateReview, Creator: &exam.User{ID: "s1", LastName: "Virtanen"}, Started: &started, Ended: &ended},
			{ID: "c2", State: exam.StateGraded},
		},
	}

	ps := review.ParticipationsOf(parent)
	assert.Len(t, ps, 2)
	assert.Equal(t, "c1", ps[0].ID)
	assert.Equal(t, "Virtanen", ps[0].User.LastName)
	assert.Equal(t, "50", review.Duration(ps[0]))
	assert.True(t, ps[1].Started.IsZero(), "sittings without timestamps stay zero-valued")

	open := review.FilterByState(ps, exam.StateReview, exam.StateReviewStarted)
	assert.Len(t, open, 1)
	assert.Equal(t, "c1", open[0].ID)
}

func TestFilterByState(t *testing.T) {
	all := []review.Participation{
		sitting("p1", exam.StateReview),
		sitting("p2", exam.StateGraded),
		sitting("p3", exam.StateReviewStarted),
		sitting("p4", exam.StateArchived),
		{ID: "p5"}, // no exam attached
	}

	open := review.FilterByState(all, exam.StateReview, exam.StateReviewStarted)
	assert.Len(t, open, 2)
	assert.Equal(t, "p1", open[0].ID)
	assert.Equal(t, "p3", open[1].ID)

	assert.Empty(t, review.FilterByState(all, exam.StateAborted))
}

func TestDisplayName(t *testing.T) {
	p := review.Participation{User: exam.User{FirstName: "Maija", LastName: "Meikäläinen"}}
	assert.Equal(t, "Meikäläinen Maija", review.DisplayName(p))

	p = review.Participation{User: exam.User{LastName: "Meikäläinen"}}
	assert.Equal(t, "Meikäläinen", review.DisplayName(p))

	p = review.Participation{ID: "p7"}
	assert.Equal(t, "p7", review.DisplayName(p), "anonymous sittings fall back to the participation id")

	p = review.Participation{Exam: &exam.Exam{ID: "e9"}}
	assert.Equal(t, "e9", review.DisplayName(p))
}

func TestDuration(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	p := review.Participation{Started: start, Ended: start.Add(95*time.Minute + 30*time.Second)}
	assert.Equal(t, "95", review.Duration(p))

	p = review.Participation{Started: start, Ended: start}
	assert.Equal(t, "0", review.Duration(p))

	p = review.Participation{Started: start, Ended: start.Add(-time.Minute)}
	assert.Equal(t, "0", review.Duration(p))
}
