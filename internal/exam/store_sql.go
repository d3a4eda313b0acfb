package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an exam or question does not exist.
var ErrNotFound = errors.New("exam not found")

// SQLStore persists exams as a document column next to the scalar columns
// that queries filter on. Works against sqlite and postgres alike.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutExam(ctx context.Context, e Exam) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.State == "" {
		e.State = StateDraft
	}
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,state,execution_type,doc,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET state=EXCLUDED.state, execution_type=EXCLUDED.execution_type, doc=EXCLUDED.doc`,
		e.ID, string(e.State), string(e.ExecutionType), string(doc), time.Now().Unix())
	return err
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM exams WHERE id=$1`, id)
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Exam{}, ErrNotFound
		}
		return Exam{}, err
	}
	var e Exam
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

// ListForReviewer scans published and draft exams and keeps those the user
// owns or inspects. Membership lives inside the document, so filtering
// happens here rather than in SQL.
func (s *SQLStore) ListForReviewer(ctx context.Context, userID string) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exam
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var e Exam
		if err := json.Unmarshal([]byte(doc), &e); err != nil {
			return nil, err
		}
		if e.IsOwner(userID) || e.IsInspector(userID) {
			out = append(out, e)
		}
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateState(ctx context.Context, id string, st State) error {
	e, err := s.GetExam(ctx, id)
	if err != nil {
		return err
	}
	e.State = st
	return s.PutExam(ctx, e)
}

func (s *SQLStore) SaveEvaluationConfig(ctx context.Context, examID string, cfg *AutoEvaluationConfig) error {
	e, err := s.GetExam(ctx, examID)
	if err != nil {
		return err
	}
	e.AutoEvaluationConfig = cfg
	return s.PutExam(ctx, e)
}

func (s *SQLStore) SaveEssayScore(ctx context.Context, examID, questionID string, evaluatedScore float64) error {
	e, err := s.GetExam(ctx, examID)
	if err != nil {
		return err
	}
	for i := range e.Questions {
		if e.Questions[i].ID != questionID {
			continue
		}
		if e.Questions[i].EssayAnswer == nil {
			return fmt.Errorf("question %s has no essay answer", questionID)
		}
		score := evaluatedScore
		e.Questions[i].EssayAnswer.EvaluatedScore = &score
		return s.PutExam(ctx, e)
	}
	return fmt.Errorf("question %s: %w", questionID, ErrNotFound)
}

func (s *SQLStore) SaveRev(ctx context.Context, examID, rev string) error {
	e, err := s.GetExam(ctx, examID)
	if err != nil {
		return err
	}
	e.Rev = rev
	return s.PutExam(ctx, e)
}
