// Package registry persists finalized exam records, locally or through
// the collaborative exam federation.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/tentamen-io/tentamen/internal/audit"
	"github.com/tentamen-io/tentamen/internal/record"
)

// SQLRegistry stores records in the exam_records table. One record per
// exam; resubmission overwrites, which only the gate may trigger.
type SQLRegistry struct {
	db     *sql.DB
	events *audit.EventRepo
}

func NewSQLRegistry(db *sql.DB, events *audit.EventRepo) *SQLRegistry {
	return &SQLRegistry{db: db, events: events}
}

func (r *SQLRegistry) Record(ctx context.Context, s record.Snapshot) error {
	return r.insert(ctx, s, false)
}

func (r *SQLRegistry) RegisterGradeless(ctx context.Context, s record.Snapshot) error {
	return r.insert(ctx, s, true)
}

func (r *SQLRegistry) insert(ctx context.Context, s record.Snapshot, gradeless bool) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO exam_records (exam_id,state,gradeless,snapshot,rev,recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (exam_id) DO UPDATE SET state=EXCLUDED.state, gradeless=EXCLUDED.gradeless, snapshot=EXCLUDED.snapshot, rev=EXCLUDED.rev`,
		s.ExamID, string(s.State), gradeless, string(buf), s.Rev, time.Now().Unix())
	if err != nil {
		return err
	}
	if r.events != nil {
		_ = r.events.Append(ctx, audit.TypeRecordSubmitted, s.ExamID, s)
	}
	return nil
}
