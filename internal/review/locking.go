// Package review decides which answers a reviewer may still edit and
// commits essay evaluations.
package review

import (
	"context"

	"github.com/tentamen-io/tentamen/internal/exam"
)

// IsLocked reports whether an answer can no longer be edited. Answers are
// unlocked while the exam is under review, and for inspectors only once it
// is graded. Every other state locks them for everyone.
func IsLocked(e *exam.Exam, currentUserID string) bool {
	if e.HasState(exam.StateReview, exam.StateReviewStarted) {
		return false
	}
	if e.State == exam.StateGraded && e.IsInspector(currentUserID) {
		return false
	}
	return true
}

// Partition splits a set of answers into assessed, unassessed and locked.
// The three sets are disjoint and together cover the input.
type Partition struct {
	Assessed   []exam.SectionQuestion `json:"assessed"`
	Unassessed []exam.SectionQuestion `json:"unassessed"`
	Locked     []exam.SectionQuestion `json:"locked"`
}

func PartitionAnswers(questions []exam.SectionQuestion, e *exam.Exam, currentUserID string) Partition {
	p := Partition{
		Assessed:   []exam.SectionQuestion{},
		Unassessed: []exam.SectionQuestion{},
		Locked:     []exam.SectionQuestion{},
	}
	locked := IsLocked(e, currentUserID)
	for _, q := range questions {
		switch {
		case locked:
			p.Locked = append(p.Locked, q)
		case isAssessed(q):
			p.Assessed = append(p.Assessed, q)
		default:
			p.Unassessed = append(p.Unassessed, q)
		}
	}
	return p
}

func isAssessed(q exam.SectionQuestion) bool {
	return q.EssayAnswer != nil &&
		q.EssayAnswer.EvaluatedScore != nil &&
		*q.EssayAnswer.EvaluatedScore >= 0
}

// ScoreSaver is the persistence collaborator committing one evaluation.
type ScoreSaver interface {
	SaveEssayScore(ctx context.Context, examID, questionID string, evaluatedScore float64) error
}

type Service struct {
	saver ScoreSaver
}

func NewService(saver ScoreSaver) *Service { return &Service{saver: saver} }

// SaveEvaluation commits the reviewer-entered score as the answer's
// evaluated score. On success the answer moves from unassessed to assessed
// (a no-op if already there). On failure the evaluated score is resynced
// to the entered score as a compensating write and bucket membership is
// left unchanged.
func (s *Service) SaveEvaluation(ctx context.Context, p *Partition, e *exam.Exam, q *exam.SectionQuestion, currentUserID string) error {
	if IsLocked(e, currentUserID) {
		return &exam.ValidationError{Fields: []string{"answer is locked"}}
	}
	if q.EssayAnswer == nil {
		return &exam.ValidationError{Fields: []string{"essay_answer"}}
	}
	score := q.EssayAnswer.Score
	q.EssayAnswer.EvaluatedScore = &score

	if err := s.saver.SaveEssayScore(ctx, e.ID, q.ID, score); err != nil {
		resync := q.EssayAnswer.Score
		q.EssayAnswer.EvaluatedScore = &resync
		return &exam.TransportError{Op: "save essay score", Err: err}
	}
	moveToAssessed(p, q)
	return nil
}

// moveToAssessed shifts the answer from unassessed to assessed, leaving
// the partition untouched when the answer already sits in assessed.
func moveToAssessed(p *Partition, q *exam.SectionQuestion) {
	for _, a := range p.Assessed {
		if a.ID == q.ID {
			return
		}
	}
	for i, u := range p.Unassessed {
		if u.ID == q.ID {
			p.Unassessed = append(p.Unassessed[:i], p.Unassessed[i+1:]...)
			break
		}
	}
	p.Assessed = append(p.Assessed, *q)
}
