package exam

import "time"

// ParticipationsInFuture reports whether an exam can still attract or has
// already attracted sitters. A private exam with zero enrolments has no
// future participation even when its window is still open.
func ParticipationsInFuture(e *Exam) bool {
	return e.ExecutionType == TypePublic || len(e.Enrolments) > 0
}

// HasUpcomingExaminationDates reports whether a printout exam has any
// examination date whose end of day is still ahead of now.
func HasUpcomingExaminationDates(e *Exam, now time.Time) bool {
	for _, ed := range e.ExaminationDates {
		if !now.After(endOfDay(ed.Date)) {
			return true
		}
	}
	return false
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// DeriveActivityPeriod produces a display-only activity period for a
// printout exam by taking its first and last examination dates. Printout
// exams have no real period, so the result must never be treated as
// authoritative input. With no dates at all both ends fall back to now.
func DeriveActivityPeriod(e *Exam, now time.Time) ActivityPeriod {
	if len(e.ExaminationDates) == 0 {
		return ActivityPeriod{Start: now, End: now}
	}
	start, end := e.ExaminationDates[0].Date, e.ExaminationDates[0].Date
	for _, ed := range e.ExaminationDates[1:] {
		if ed.Date.Before(start) {
			start = ed.Date
		}
		if ed.Date.After(end) {
			end = ed.Date
		}
	}
	return ActivityPeriod{Start: start, End: end}
}

// IsReadOnly reports whether the exam's assessment can no longer be edited
// by anyone.
func IsReadOnly(e *Exam) bool {
	return e.HasState(StateGradedLogged, StateArchived, StateAborted, StateRejected)
}

// IsGraded reports whether the exam has been scored but not yet finalized.
func IsGraded(e *Exam) bool { return e.State == StateGraded }
