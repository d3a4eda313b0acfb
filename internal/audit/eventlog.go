// Package audit appends engine-side mutations to a durable event log so
// that grading decisions stay traceable after the fact.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeConfigChanged   = "AutoEvaluationConfigChanged"
	TypeScoreSaved      = "EssayScoreSaved"
	TypeRecordSubmitted = "ExamRecordSubmitted"
)

type Event struct {
	Seq       int64
	Type      string
	Key       string // natural key: exam id or question id
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, typ, key string, data any) error {
	buf, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(buf), time.Now().Unix())
	return err
}
