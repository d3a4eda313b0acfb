package exam

import "context"

// Store is the persistence collaborator the engine talks to. All mutating
// calls are single request/response operations; retry policy belongs to
// the caller.
type Store interface {
	PutExam(ctx context.Context, e Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)

	// ListForReviewer returns every exam the user owns or inspects,
	// with children attached.
	ListForReviewer(ctx context.Context, userID string) ([]Exam, error)

	UpdateState(ctx context.Context, id string, s State) error
	SaveEvaluationConfig(ctx context.Context, examID string, cfg *AutoEvaluationConfig) error
	SaveEssayScore(ctx context.Context, examID, questionID string, evaluatedScore float64) error
	SaveRev(ctx context.Context, examID, rev string) error
}
