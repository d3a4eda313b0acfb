package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/tentamen-io/tentamen/internal/exam"
)

// Participation is a student's sitting of one exam as it appears on the
// review list.
type Participation struct {
	ID      string     `json:"id"`
	User    exam.User  `json:"user"`
	Exam    *exam.Exam `json:"exam"`
	Started time.Time  `json:"started"`
	Ended   time.Time  `json:"ended"`
}

// ParticipationsOf flattens a published exam's child sittings into
// participations ready for listing.
func ParticipationsOf(parent *exam.Exam) []Participation {
	out := make([]Participation, 0, len(parent.Children))
	for _, c := range parent.Children {
		p := Participation{ID: c.ID, Exam: c}
		if c.Creator != nil {
			p.User = *c.Creator
		}
		if c.Started != nil {
			p.Started = *c.Started
		}
		if c.Ended != nil {
			p.Ended = *c.Ended
		}
		out = append(out, p)
	}
	return out
}

// FilterByState keeps the participations whose exam is in one of the
// given states.
func FilterByState(participations []Participation, states ...exam.State) []Participation {
	out := []Participation{}
	for _, p := range participations {
		if p.Exam != nil && p.Exam.HasState(states...) {
			out = append(out, p)
		}
	}
	return out
}

// DisplayName renders the sitter for listing, falling back to the exam id
// for anonymous collaborative participations.
func DisplayName(p Participation) string {
	if p.User.LastName != "" || p.User.FirstName != "" {
		return strings.TrimSpace(p.User.LastName + " " + p.User.FirstName)
	}
	if p.ID != "" {
		return p.ID
	}
	if p.Exam != nil {
		return p.Exam.ID
	}
	return ""
}

// Duration renders how long the sitting took, in whole minutes.
func Duration(p Participation) string {
	if p.Ended.Before(p.Started) {
		return "0"
	}
	return fmt.Sprintf("%d", int(p.Ended.Sub(p.Started).Minutes()))
}
