package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tnav/tnav/internal/domain/checklist"
	"github.com/tnav/tnav/internal/domain/pathway"
	"github.com/tnav/tnav/internal/domain/patient"
	"github.com/tnav/tnav/internal/domain/questionnaire"
	"github.com/tnav/tnav/internal/domain/referral"
	"github.com/tnav/tnav/internal/platform/llm"
)

type mockPatients struct {
	byID map[uuid.UUID]*patient.Patient
}

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

type mockStatuses struct {
	byPatient map[uuid.UUID]*pathway.PatientStatus
}

func (m *mockStatuses) Status(_ context.Context, patientID uuid.UUID) (*pathway.PatientStatus, error) {
	st, ok := m.byPatient[patientID]
	if !ok {
		return nil, pathway.ErrStatusNotFound
	}
	return st, nil
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

type mockSubs struct {
	byPatient map[uuid.UUID][]*questionnaire.Submission
}

func (m *mockSubs) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*questionnaire.Submission, error) {
	return m.byPatient[patientID], nil
}

type mockReferrals struct {
	byPatient map[uuid.UUID]*referral.State
}

func (m *mockReferrals) GetByPatient(_ context.Context, patientID uuid.UUID) (*referral.State, error) {
	st, ok := m.byPatient[patientID]
	if !ok {
		return nil, referral.ErrNotFound
	}
	return st, nil
}

type fakeCompleter struct {
	enabled    bool
	answer     string
	lastModel  string
	lastPrompt string
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }
func (f *fakeCompleter) Model() string { return "gpt-4o-mini" }

func (f *fakeCompleter) Complete(_ context.Context, model string, messages []llm.Message) (string, error) {
	f.lastModel = model
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			f.lastPrompt = m.Content
		}
	}
	return f.answer, nil
}

type fixture struct {
	svc        *Service
	completer  *fakeCompleter
	patients   *mockPatients
	statuses   *mockStatuses
	checklists *mockChecklists
	subs       *mockSubs
	referrals  *mockReferrals
}

func newFixture(enabled bool) *fixture {
	f := &fixture{
		completer:  &fakeCompleter{enabled: enabled, answer: "You are in the evaluation stage."},
		patients:   &mockPatients{byID: make(map[uuid.UUID]*patient.Patient)},
		statuses:   &mockStatuses{byPatient: make(map[uuid.UUID]*pathway.PatientStatus)},
		checklists: &mockChecklists{byPatient: make(map[uuid.UUID]*checklist.Checklist)},
		subs:       &mockSubs{byPatient: make(map[uuid.UUID][]*questionnaire.Submission)},
		referrals:  &mockReferrals{byPatient: make(map[uuid.UUID]*referral.State)},
	}
	builder := NewContextBuilder(f.patients, f.statuses, f.checklists, f.subs, f.referrals)
	f.svc = NewService(builder, f.completer, zerolog.Nop())
	return f
}

func (f *fixture) addPatient() uuid.UUID {
	id := uuid.New()
	yes := true
	gfr := 14.0
	f.patients.byID[id] = &patient.Patient{ID: id, Name: "Test", HasCKDESRD: &yes, HasReferral: &yes, LastGFR: &gfr}
	return id
}

func TestQuery_Disabled(t *testing.T) {
	f := newFixture(false)
	pid := f.addPatient()
	_, err := f.svc.Query(context.Background(), pid, "Where am I?", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestQuery_EmptyQuery(t *testing.T) {
	f := newFixture(true)
	pid := f.addPatient()
	if _, err := f.svc.Query(context.Background(), pid, "   ", ""); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestQuery_UnknownPatient(t *testing.T) {
	f := newFixture(true)
	if _, err := f.svc.Query(context.Background(), uuid.New(), "hello", ""); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestQuery_BuildsContextualPrompt(t *testing.T) {
	f := newFixture(true)
	pid := f.addPatient()
	f.statuses.byPatient[pid] = &pathway.PatientStatus{
		PatientID:    pid,
		HasRelative:  true,
		Relative:     []pathway.Contraindication{{ID: "obesity", Question: "Is your BMI over 40?"}},
		Absolute:     []pathway.Contraindication{},
		PathwayStage: pathway.StageEvaluation,
		UpdatedAt:    time.Now(),
	}
	f.checklists.byPatient[pid] = &checklist.Checklist{Items: []checklist.Item{
		{ID: "physical_exam", Title: "Complete Physical Examination", IsComplete: true, Order: 1},
		{ID: "lab_work", Title: "Laboratory Work & Viral Serology", Order: 2},
	}}

	result, err := f.svc.Query(context.Background(), pid, "What should I do next?", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if result.Response != "You are in the evaluation stage." {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if f.lastModelDefaulted() {
		t.Errorf("expected default model, got %q", f.completer.lastModel)
	}

	prompt := f.completer.lastPrompt
	for _, want := range []string{
		"<pathway_stage>",
		"EVALUATION",
		"Is your BMI over 40?",
		"<checklist_progress>",
		"Progress: 1/2 items complete (50.0%)",
		"Laboratory Work & Viral Serology",
		"<patient_question>",
		"What should I do next?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if result.ContextSummary.PathwayStage != "evaluation" {
		t.Errorf("unexpected summary stage: %q", result.ContextSummary.PathwayStage)
	}
	if result.ContextSummary.ChecklistCompletion == nil || *result.ContextSummary.ChecklistCompletion != 50.0 {
		t.Errorf("unexpected checklist completion: %v", result.ContextSummary.ChecklistCompletion)
	}
}

func (f *fixture) lastModelDefaulted() bool {
	return f.completer.lastModel != "gpt-4o-mini"
}

func TestContext_PartialDataTolerated(t *testing.T) {
	f := newFixture(true)
	pid := f.addPatient()

	pctx, err := f.svc.Context(context.Background(), pid)
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	if pctx.StatusSummary != nil || pctx.ChecklistProgress != nil || pctx.ReferralInfo != nil {
		t.Errorf("missing sources must yield absent sections: %+v", pctx)
	}
	if pctx.PatientSummary.HasCKDESRD == nil || !*pctx.PatientSummary.HasCKDESRD {
		t.Error("patient summary missing")
	}
}

func TestStatus(t *testing.T) {
	if st := newFixture(false).svc.Status(); st.Enabled {
		t.Error("expected disabled")
	}
	st := newFixture(true).svc.Status()
	if !st.Enabled || st.Model != "gpt-4o-mini" {
		t.Errorf("expected enabled with model, got %+v", st)
	}
}
