package pathway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tnav/tnav/internal/domain/checklist"
	"github.com/tnav/tnav/internal/domain/patient"
	"github.com/tnav/tnav/internal/domain/questionnaire"
)

type mockStatusRepo struct {
	byPatient map[uuid.UUID]*PatientStatus
	upserts   int
}

func newMockStatusRepo() *mockStatusRepo {
	return &mockStatusRepo{byPatient: make(map[uuid.UUID]*PatientStatus)}
}

func (m *mockStatusRepo) Upsert(_ context.Context, st *PatientStatus) error {
	m.upserts++
	m.byPatient[st.PatientID] = st
	return nil
}

func (m *mockStatusRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*PatientStatus, error) {
	st, ok := m.byPatient[patientID]
	if !ok {
		return nil, ErrStatusNotFound
	}
	return st, nil
}

type mockSubs struct {
	byPatient map[uuid.UUID][]*questionnaire.Submission
}

func (m *mockSubs) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*questionnaire.Submission, error) {
	return m.byPatient[patientID], nil
}

type mockChecklists struct {
	byPatient map[uuid.UUID]*checklist.Checklist
}

func (m *mockChecklists) GetByPatient(_ context.Context, patientID uuid.UUID) (*checklist.Checklist, error) {
	cl, ok := m.byPatient[patientID]
	if !ok {
		return nil, checklist.ErrNotFound
	}
	return cl, nil
}

type mockPatientSource struct {
	byID map[uuid.UUID]*patient.Patient
}

func (m *mockPatientSource) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

type staticCatalog []questionnaire.Question

func (c staticCatalog) Load() []questionnaire.Question { return c }

type fixture struct {
	svc        *Service
	statuses   *mockStatusRepo
	subs       *mockSubs
	checklists *mockChecklists
	patients   *mockPatientSource
}

func newFixture(catalog []questionnaire.Question) *fixture {
	f := &fixture{
		statuses:   newMockStatusRepo(),
		subs:       &mockSubs{byPatient: make(map[uuid.UUID][]*questionnaire.Submission)},
		checklists: &mockChecklists{byPatient: make(map[uuid.UUID]*checklist.Checklist)},
		patients:   &mockPatientSource{byID: make(map[uuid.UUID]*patient.Patient)},
	}
	f.svc = NewService(f.statuses, f.subs, f.checklists, f.patients, staticCatalog(catalog), zerolog.Nop())
	return f
}

func (f *fixture) addPatient(hasCKD, hasReferral *bool) uuid.UUID {
	id := uuid.New()
	f.patients.byID[id] = &patient.Patient{ID: id, Name: "Test Patient", HasCKDESRD: hasCKD, HasReferral: hasReferral}
	return id
}

func boolPtr(b bool) *bool { return &b }

func TestRecomputeStatus_StoresResult(t *testing.T) {
	f := newFixture(testCatalog)
	pid := f.addPatient(boolPtr(true), boolPtr(true))
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.subs.byPatient[pid] = []*questionnaire.Submission{
		{PatientID: pid, Answers: map[string]questionnaire.Answer{"smoking": "yes"}, SubmittedAt: &when},
	}
	f.checklists.byPatient[pid] = checklistWith(1, 6)

	if err := f.svc.RecomputeStatus(context.Background(), pid); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	st, err := f.statuses.GetByPatient(context.Background(), pid)
	if err != nil {
		t.Fatalf("stored status missing: %v", err)
	}
	if !st.HasRelative || st.HasAbsolute {
		t.Errorf("expected relative only, got %+v", st)
	}
	if st.PathwayStage != StageEvaluation {
		t.Errorf("expected evaluation, got %s", st.PathwayStage)
	}
}

func TestRecomputeStatus_NoQuestionnaireFallsBackToInitial(t *testing.T) {
	f := newFixture(testCatalog)
	pid := f.addPatient(boolPtr(true), nil)

	if err := f.svc.RecomputeStatus(context.Background(), pid); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	st, err := f.statuses.GetByPatient(context.Background(), pid)
	if err != nil {
		t.Fatalf("stored status missing: %v", err)
	}
	if st.HasAbsolute || st.HasRelative || len(st.Absolute) != 0 {
		t.Errorf("initial status must carry no contraindications: %+v", st)
	}
	if st.PathwayStage != StageIdentification {
		t.Errorf("expected identification, got %s", st.PathwayStage)
	}
}

func TestRecomputeStatus_UnknownPatient(t *testing.T) {
	f := newFixture(testCatalog)
	if err := f.svc.RecomputeStatus(context.Background(), uuid.New()); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestInitializeStatus(t *testing.T) {
	f := newFixture(testCatalog)
	pid := f.addPatient(boolPtr(true), boolPtr(true))

	if err := f.svc.InitializeStatus(context.Background(), pid); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	st, err := f.statuses.GetByPatient(context.Background(), pid)
	if err != nil {
		t.Fatalf("stored status missing: %v", err)
	}
	// Referral on file but no questionnaire yet.
	if st.PathwayStage != StageEvaluation {
		t.Errorf("expected evaluation, got %s", st.PathwayStage)
	}
}

func TestStatus_RefreshesStoredRow(t *testing.T) {
	f := newFixture(testCatalog)
	pid := f.addPatient(boolPtr(true), boolPtr(true))
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.subs.byPatient[pid] = []*questionnaire.Submission{
		{PatientID: pid, Answers: map[string]questionnaire.Answer{"smoking": "no"}, SubmittedAt: &when},
	}
	f.checklists.byPatient[pid] = checklistWith(5, 6)

	st, err := f.svc.Status(context.Background(), pid)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.PathwayStage != StageSelection {
		t.Errorf("5 of 6 complete should be selection, got %s", st.PathwayStage)
	}
	if f.statuses.upserts != 1 {
		t.Errorf("expected status persisted once, got %d", f.statuses.upserts)
	}
}
