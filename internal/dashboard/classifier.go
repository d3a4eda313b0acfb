// Package dashboard buckets a reviewer's exams into the four dashboard
// tabs: draft, active, finished and archived.
package dashboard

import (
	"time"

	"github.com/tentamen-io/tentamen/internal/exam"
)

// ReviewableCounts is supplied per exam by an external collaborator.
// Unassessed are participations waiting for review, Unfinished are graded
// but not yet logged, Assessed are fully processed.
type ReviewableCounts struct {
	Unassessed int `json:"unassessed"`
	Unfinished int `json:"unfinished"`
	Assessed   int `json:"assessed"`
}

// CountFunc resolves the reviewable counts of one exam.
type CountFunc func(e *exam.Exam) ReviewableCounts

// CountFromChildren derives counts from the states of an exam's child
// participations. Serves as the default CountFunc.
func CountFromChildren(e *exam.Exam) ReviewableCounts {
	var c ReviewableCounts
	for _, child := range e.Children {
		switch child.State {
		case exam.StateReview, exam.StateReviewStarted:
			c.Unassessed++
		case exam.StateGraded:
			c.Unfinished++
		default:
			c.Assessed++
		}
	}
	return c
}

// Entry is one exam on the dashboard together with its counts and, for
// printout exams, a derived display period.
type Entry struct {
	Exam       exam.Exam `json:"exam"`
	Unassessed int       `json:"unassessed"`
	Unfinished int       `json:"unfinished"`
	Assessed   int       `json:"assessed"`
}

type Dashboard struct {
	Draft    []Entry `json:"draft"`
	Active   []Entry `json:"active"`
	Finished []Entry `json:"finished"`
	Archived []Entry `json:"archived"`
}

// Classify buckets exams for one viewer. It is a pure function: bucket
// membership depends only on the arguments, no bucket overlaps another,
// and calling it twice with the same arguments yields the same result.
//
// Draft holds DRAFT/SAVED exams the viewer owns. Active holds published
// exams whose window is still open (or, for printout exams, that still
// have upcoming examination dates). Every other published exam has ended:
// it lands in Finished while review work remains, otherwise in Archived.
func Classify(exams []exam.Exam, now time.Time, viewerID string, count CountFunc) Dashboard {
	if count == nil {
		count = CountFromChildren
	}
	var d Dashboard
	d.Draft = []Entry{}
	d.Active = []Entry{}
	d.Finished = []Entry{}
	d.Archived = []Entry{}

	for i := range exams {
		e := exams[i] // value copy: callers keep their slice untouched
		pruneChildren(&e)

		switch {
		case e.HasState(exam.StateDraft, exam.StateSaved) && e.IsOwner(viewerID):
			d.Draft = append(d.Draft, Entry{Exam: e})

		case e.State == exam.StatePublished && isActive(&e, now):
			if e.ExecutionType == exam.TypePrintout {
				applyDerivedPeriod(&e, now)
			}
			c := count(&e)
			d.Active = append(d.Active, Entry{Exam: e, Unassessed: c.Unassessed, Unfinished: c.Unfinished})

		case e.State == exam.StatePublished:
			c := count(&e)
			if c.Unassessed+c.Unfinished > 0 && e.ExecutionType != exam.TypePrintout {
				d.Finished = append(d.Finished, Entry{Exam: e, Unassessed: c.Unassessed, Unfinished: c.Unfinished})
			} else {
				if e.ExecutionType == exam.TypePrintout {
					applyDerivedPeriod(&e, now)
				}
				d.Archived = append(d.Archived, Entry{Exam: e, Assessed: c.Assessed})
			}
		}
	}
	return d
}

func isActive(e *exam.Exam, now time.Time) bool {
	if e.ExecutionType == exam.TypePrintout {
		return exam.HasUpcomingExaminationDates(e, now)
	}
	return e.PeriodEnd != nil && !now.After(*e.PeriodEnd) && exam.ParticipationsInFuture(e)
}

// applyDerivedPeriod writes the fake printout window onto the copy handed
// out for display.
func applyDerivedPeriod(e *exam.Exam, now time.Time) {
	p := exam.DeriveActivityPeriod(e, now)
	e.PeriodStart, e.PeriodEnd = &p.Start, &p.End
}

// pruneChildren drops child participations that never reached review.
func pruneChildren(e *exam.Exam) {
	if len(e.Children) == 0 {
		return
	}
	kept := make([]*exam.Exam, 0, len(e.Children))
	for _, c := range e.Children {
		if c.State != exam.StateDeleted && c.State != exam.StateStudentStarted {
			kept = append(kept, c)
		}
	}
	e.Children = kept
}
