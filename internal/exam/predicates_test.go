package exam

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParticipationsInFuture(t *testing.T) {
	pub := &Exam{ExecutionType: TypePublic}
	if !ParticipationsInFuture(pub) {
		t.Fatalf("public exam should always have future participations")
	}
	priv := &Exam{ExecutionType: TypePrivate}
	if ParticipationsInFuture(priv) {
		t.Fatalf("private exam without enrolments should have none")
	}
	priv.Enrolments = []Enrolment{{ID: "e1"}}
	if !ParticipationsInFuture(priv) {
		t.Fatalf("private exam with an enrolment should have future participations")
	}
}

func TestHasUpcomingExaminationDates(t *testing.T) {
	now := date("2026-03-10 12:00")
	e := &Exam{ExecutionType: TypePrintout}
	if HasUpcomingExaminationDates(e, now) {
		t.Fatalf("no dates means nothing upcoming")
	}

	// A date earlier on the same day still counts: the comparison runs
	// against its end of day.
	e.ExaminationDates = []ExaminationDate{{Date: date("2026-03-10 08:00")}}
	if !HasUpcomingExaminationDates(e, now) {
		t.Fatalf("same-day date should still be upcoming until midnight")
	}

	e.ExaminationDates = []ExaminationDate{{Date: date("2026-03-09 08:00")}}
	if HasUpcomingExaminationDates(e, now) {
		t.Fatalf("yesterday's date is not upcoming")
	}
}

func TestDeriveActivityPeriod(t *testing.T) {
	now := date("2026-03-10 12:00")
	e := &Exam{
		ExecutionType: TypePrintout,
		ExaminationDates: []ExaminationDate{
			{Date: date("2026-02-01 10:00")},
			{Date: date("2026-04-01 10:00")},
			{Date: date("2026-03-01 10:00")},
		},
	}
	p := DeriveActivityPeriod(e, now)
	if !p.Start.Equal(date("2026-02-01 10:00")) || !p.End.Equal(date("2026-04-01 10:00")) {
		t.Fatalf("period should span min..max dates, got %v..%v", p.Start, p.End)
	}

	empty := &Exam{ExecutionType: TypePrintout}
	p = DeriveActivityPeriod(empty, now)
	if !p.Start.Equal(now) || !p.End.Equal(now) {
		t.Fatalf("no dates should fall back to now")
	}
}

func TestIsReadOnly(t *testing.T) {
	for _, s := range []State{StateGradedLogged, StateArchived, StateAborted, StateRejected} {
		if !IsReadOnly(&Exam{State: s}) {
			t.Fatalf("state %s should be read-only", s)
		}
	}
	for _, s := range []State{StateReview, StateReviewStarted, StateGraded, StatePublished} {
		if IsReadOnly(&Exam{State: s}) {
			t.Fatalf("state %s should not be read-only", s)
		}
	}
}

func TestEffectiveGradeScale(t *testing.T) {
	own := &GradeScale{ID: 1}
	parent := &GradeScale{ID: 2}
	course := &GradeScale{ID: 3}

	e := &Exam{GradeScale: own, Parent: &Exam{GradeScale: parent}, Course: &Course{GradeScale: course}}
	if e.EffectiveGradeScale().ID != 1 {
		t.Fatalf("own scale wins")
	}
	e.GradeScale = nil
	if e.EffectiveGradeScale().ID != 2 {
		t.Fatalf("parent scale is the first fallback")
	}
	e.Parent = nil
	if e.EffectiveGradeScale().ID != 3 {
		t.Fatalf("course scale is the last fallback")
	}
	e.Course = nil
	if e.EffectiveGradeScale() != nil {
		t.Fatalf("no scale anywhere resolves to nil")
	}
}
