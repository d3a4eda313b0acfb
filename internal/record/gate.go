// Package record finalizes a graded exam: it validates the assessment,
// builds an immutable snapshot and routes it to the local registry or, for
// collaborative exams, to the external one.
package record

import (
	"context"

	"github.com/tentamen-io/tentamen/internal/exam"
)

// Snapshot is the immutable record of a finalized assessment.
type Snapshot struct {
	ExamID         string      `json:"exam_id"`
	State          exam.State  `json:"state"`
	Grade          *exam.Grade `json:"grade,omitempty"`
	Gradeless      bool        `json:"gradeless"`
	CustomCredit   float64     `json:"custom_credit"`
	TotalScore     float64     `json:"total_score"`
	CreditType     string      `json:"credit_type"`
	AnswerLanguage string      `json:"answer_language"`
	Rev            string      `json:"rev,omitempty"`
}

// Registry receives finalized local assessments. Gradeless exams register
// without a grade; graded ones are recorded.
type Registry interface {
	Record(ctx context.Context, s Snapshot) error
	RegisterGradeless(ctx context.Context, s Snapshot) error
}

// Collaborative is the external registry for federated exams. Update
// returns the new revision token; a stale token yields ConcurrencyError.
type Collaborative interface {
	Update(ctx context.Context, examID, externalRef string, s Snapshot, rev string) (string, error)
}

type Gate struct {
	local  Registry
	collab Collaborative
	store  exam.Store
}

func NewGate(local Registry, collab Collaborative, store exam.Store) *Gate {
	return &Gate{local: local, collab: collab, store: store}
}

// Submit validates the exam and performs the final state transition to
// target. On any failure the exam keeps its prior state. The returned
// revision token is empty for local submissions.
func (g *Gate) Submit(ctx context.Context, e *exam.Exam, target exam.State, externalRef string) (string, error) {
	if target != exam.StateArchived && target != exam.StateGradedLogged {
		return "", &exam.ValidationError{Fields: []string{"target_state"}}
	}
	if fields := missingFields(e); len(fields) > 0 {
		return "", &exam.ValidationError{Fields: fields}
	}

	snap := Snapshot{
		ExamID:         e.ID,
		State:          target,
		Grade:          e.Grade,
		Gradeless:      e.Gradeless,
		CustomCredit:   e.CustomCredit,
		TotalScore:     e.TotalScore,
		CreditType:     e.CreditType.Type,
		AnswerLanguage: *e.AnswerLanguage,
		Rev:            e.Rev,
	}

	var rev string
	if externalRef != "" {
		if g.collab == nil {
			return "", &exam.ConfigurationError{Reason: "collaborative registry not configured"}
		}
		newRev, err := g.collab.Update(ctx, e.ID, externalRef, snap, e.Rev)
		if err != nil {
			return "", err
		}
		rev = newRev
		if g.store != nil {
			if err := g.store.SaveRev(ctx, e.ID, rev); err != nil {
				return "", &exam.TransportError{Op: "store revision", Err: err}
			}
		}
		e.Rev = rev
	} else {
		var err error
		if e.Gradeless {
			err = g.local.RegisterGradeless(ctx, snap)
		} else {
			err = g.local.Record(ctx, snap)
		}
		if err != nil {
			return "", err
		}
	}

	if g.store != nil {
		if err := g.store.UpdateState(ctx, e.ID, target); err != nil {
			return rev, &exam.TransportError{Op: "update exam state", Err: err}
		}
	}
	e.State = target
	return rev, nil
}

// missingFields mirrors the assessment error checks: a grade (or an
// explicit gradeless marking), a credit type and an answer language are
// all required before anything is recorded.
func missingFields(e *exam.Exam) []string {
	var fields []string
	if e.Grade == nil && !e.Gradeless {
		fields = append(fields, "grade")
	}
	if e.CreditType == nil || e.CreditType.Type == "" {
		fields = append(fields, "credit_type")
	}
	if e.AnswerLanguage == nil || *e.AnswerLanguage == "" {
		fields = append(fields, "answer_language")
	}
	return fields
}
