package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	byPatient map[uuid.UUID]*Profile
}

func newMockRepo() *mockRepo {
	return &mockRepo{byPatient: make(map[uuid.UUID]*Profile)}
}

func (m *mockRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*Profile, error) {
	p, ok := m.byPatient[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Save(_ context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.UpdatedAt = time.Now()
	m.byPatient[p.PatientID] = p
	return nil
}

type mockPatients struct {
	known map[uuid.UUID]bool
}

func (m *mockPatients) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

func newTestService(patientIDs ...uuid.UUID) *Service {
	known := make(map[uuid.UUID]bool)
	for _, id := range patientIDs {
		known[id] = true
	}
	return NewService(newMockRepo(), &mockPatients{known: known})
}

func TestSave_MergesAnswers(t *testing.T) {
	pid := uuid.New()
	svc := newTestService(pid)

	if _, err := svc.Save(context.Background(), pid, map[string]any{
		"insurance_type": "medicare",
		"employed":       true,
	}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	p, err := svc.Save(context.Background(), pid, map[string]any{
		"employed":      false,
		"annual_income": "25000-50000",
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if p.Answers["insurance_type"] != "medicare" {
		t.Error("earlier answer lost on merge")
	}
	if p.Answers["employed"] != false {
		t.Error("newer answer should overwrite")
	}
	if p.Answers["annual_income"] != "25000-50000" {
		t.Error("new answer missing")
	}
	if p.SubmittedAt != nil {
		t.Error("autosave must not stamp submitted_at")
	}
}

func TestSave_KeepsProfileID(t *testing.T) {
	pid := uuid.New()
	svc := newTestService(pid)

	first, err := svc.Save(context.Background(), pid, map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := svc.Save(context.Background(), pid, map[string]any{"b": 2})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("profile id changed across saves: %s vs %s", first.ID, second.ID)
	}
}

func TestSubmit_StampsSubmittedAt(t *testing.T) {
	pid := uuid.New()
	svc := newTestService(pid)

	if _, err := svc.Save(context.Background(), pid, map[string]any{"insurance_type": "private"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err := svc.Submit(context.Background(), pid, map[string]any{"ready": true})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.SubmittedAt == nil {
		t.Fatal("expected submitted_at stamped")
	}
	if p.Answers["insurance_type"] != "private" {
		t.Error("submit must keep merged answers")
	}
}

func TestSave_UnknownPatient(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Save(context.Background(), uuid.New(), map[string]any{"a": 1}); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestGet_Empty(t *testing.T) {
	pid := uuid.New()
	svc := newTestService(pid)
	if _, err := svc.Get(context.Background(), pid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
