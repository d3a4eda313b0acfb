package record_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentamen-io/tentamen/internal/exam"
	"github.com/tentamen-io/tentamen/internal/record"
)

type fakeRegistry struct {
	recorded   []record.Snapshot
	registered []record.Snapshot
	err        error
}

func (f *fakeRegistry) Record(_ context.Context, s record.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, s)
	return nil
}

func (f *fakeRegistry) RegisterGradeless(_ context.Context, s record.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, s)
	return nil
}

type fakeCollab struct {
	rev   string
	err   error
	calls int
	last  record.Snapshot
}

func (f *fakeCollab) Update(_ context.Context, _, _ string, s record.Snapshot, _ string) (string, error) {
	f.calls++
	f.last = s
	if f.err != nil {
		return "", f.err
	}
	return f.rev, nil
}

type fakeStore struct {
	exam.Store
	states map[string]exam.State
	revs   map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{states: map[string]exam.State{}, revs: map[string]string{}}
}

func (f *fakeStore) UpdateState(_ context.Context, id string, s exam.State) error {
	f.states[id] = s
	return nil
}

func (f *fakeStore) SaveRev(_ context.Context, id, rev string) error {
	f.revs[id] = rev
	return nil
}

func lang(s string) *string { return &s }

func gradedExam() *exam.Exam {
	return &exam.Exam{
		ID:             "x1",
		State:          exam.StateGraded,
		Grade:          &exam.Grade{ID: 2, Name: "2"},
		TotalScore:     31.5,
		CreditType:     &exam.CreditType{Type: "FINAL"},
		AnswerLanguage: lang("en"),
		Rev:            "1-abc",
	}
}

func TestSubmitRejectsInvalidTarget(t *testing.T) {
	gate := record.NewGate(&fakeRegistry{}, nil, nil)
	e := gradedExam()

	_, err := gate.Submit(context.Background(), e, exam.StatePublished, "")
	var vErr *exam.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, exam.StateGraded, e.State)
}

func TestSubmitMissingAnswerLanguage(t *testing.T) {
	reg := &fakeRegistry{}
	gate := record.NewGate(reg, nil, newFakeStore())
	e := gradedExam()
	e.AnswerLanguage = nil

	_, err := gate.Submit(context.Background(), e, exam.StateGradedLogged, "")
	var vErr *exam.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Fields, "answer_language")
	assert.Equal(t, exam.StateGraded, e.State, "validation failure leaves state untouched")
	assert.Empty(t, reg.recorded)
	assert.Empty(t, reg.registered)
}

func TestSubmitMissingGradeAndCreditType(t *testing.T) {
	gate := record.NewGate(&fakeRegistry{}, nil, nil)
	e := gradedExam()
	e.Grade = nil
	e.CreditType = nil

	_, err := gate.Submit(context.Background(), e, exam.StateArchived, "")
	var vErr *exam.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.ElementsMatch(t, []string{"grade", "credit_type"}, vErr.Fields)
}

func TestSubmitRecordsGradedExam(t *testing.T) {
	reg := &fakeRegistry{}
	store := newFakeStore()
	gate := record.NewGate(reg, nil, store)
	e := gradedExam()

	rev, err := gate.Submit(context.Background(), e, exam.StateGradedLogged, "")
	require.NoError(t, err)
	assert.Empty(t, rev, "local submissions carry no revision token")
	assert.Equal(t, exam.StateGradedLogged, e.State)
	assert.Equal(t, exam.StateGradedLogged, store.states["x1"])

	require.Len(t, reg.recorded, 1)
	snap := reg.recorded[0]
	assert.Equal(t, "x1", snap.ExamID)
	assert.Equal(t, exam.StateGradedLogged, snap.State)
	assert.Equal(t, 31.5, snap.TotalScore)
	assert.Equal(t, "en", snap.AnswerLanguage)
	assert.Empty(t, reg.registered)
}

func TestSubmitRegistersGradelessExam(t *testing.T) {
	reg := &fakeRegistry{}
	gate := record.NewGate(reg, nil, newFakeStore())
	e := gradedExam()
	e.Grade = nil
	e.Gradeless = true

	_, err := gate.Submit(context.Background(), e, exam.StateArchived, "")
	require.NoError(t, err)
	require.Len(t, reg.registered, 1)
	assert.True(t, reg.registered[0].Gradeless)
	assert.Empty(t, reg.recorded, "gradeless exams never hit the record path")
}

func TestSubmitCollaborativeStoresNewRev(t *testing.T) {
	collab := &fakeCollab{rev: "2-def"}
	store := newFakeStore()
	gate := record.NewGate(&fakeRegistry{}, collab, store)
	e := gradedExam()

	rev, err := gate.Submit(context.Background(), e, exam.StateGradedLogged, "ext-9")
	require.NoError(t, err)
	assert.Equal(t, "2-def", rev)
	assert.Equal(t, "2-def", e.Rev)
	assert.Equal(t, "2-def", store.revs["x1"])
	assert.Equal(t, 1, collab.calls)
	assert.Equal(t, "1-abc", collab.last.Rev, "snapshot carries the rev the update was based on")
}

func TestSubmitExternalRefWithoutCollaborative(t *testing.T) {
	store := newFakeStore()
	gate := record.NewGate(&fakeRegistry{}, nil, store)
	e := gradedExam()

	_, err := gate.Submit(context.Background(), e, exam.StateGradedLogged, "ext-9")
	var cfgErr *exam.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, exam.StateGraded, e.State)
	assert.Empty(t, store.states)
}

func TestSubmitConcurrencyFailureKeepsState(t *testing.T) {
	collab := &fakeCollab{err: &exam.ConcurrencyError{ExamID: "x1", Rev: "1-abc"}}
	store := newFakeStore()
	gate := record.NewGate(&fakeRegistry{}, collab, store)
	e := gradedExam()

	_, err := gate.Submit(context.Background(), e, exam.StateArchived, "ext-9")
	var cErr *exam.ConcurrencyError
	require.True(t, errors.As(err, &cErr))
	assert.Equal(t, exam.StateGraded, e.State)
	assert.Equal(t, "1-abc", e.Rev)
	assert.Empty(t, store.states)
	assert.Empty(t, store.revs)
}

func TestSubmitRegistryFailureKeepsState(t *testing.T) {
	reg := &fakeRegistry{err: errors.New("registry down")}
	store := newFakeStore()
	gate := record.NewGate(reg, nil, store)
	e := gradedExam()

	_, err := gate.Submit(context.Background(), e, exam.StateGradedLogged, "")
	require.Error(t, err)
	assert.Equal(t, exam.StateGraded, e.State)
	assert.Empty(t, store.states)
}
