package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	store map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*Patient)} }

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}
func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	m.store[p.ID] = p
	return nil
}
func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient
	for _, p := range m.store {
		r = append(r, p)
	}
	return r, len(r), nil
}

type recordingSeeder struct{ seeded []uuid.UUID }

func (r *recordingSeeder) SeedDefault(_ context.Context, id uuid.UUID) error {
	r.seeded = append(r.seeded, id)
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, zerolog.Nop()), repo
}

func TestCreate_Success(t *testing.T) {
	svc, _ := newTestService()
	p, err := svc.Create(context.Background(), &IntakeRequest{Name: "Ada", DateOfBirth: "1970-04-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected generated id")
	}
}

func TestCreate_MissingName(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), &IntakeRequest{DateOfBirth: "1970-04-01"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_BadDate(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.Create(context.Background(), &IntakeRequest{Name: "Ada", DateOfBirth: "04/01/1970"}); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestCreate_SeedsChecklist(t *testing.T) {
	svc, _ := newTestService()
	seeder := &recordingSeeder{}
	svc.SetChecklistSeeder(seeder)
	p, err := svc.Create(context.Background(), &IntakeRequest{Name: "Ada", DateOfBirth: "1970-04-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seeder.seeded) != 1 || seeder.seeded[0] != p.ID {
		t.Errorf("expected checklist seeded for %s, got %v", p.ID, seeder.seeded)
	}
}

func TestSetReferralFlag(t *testing.T) {
	svc, repo := newTestService()
	p, _ := svc.Create(context.Background(), &IntakeRequest{Name: "Ada", DateOfBirth: "1970-04-01"})
	if err := svc.SetReferralFlag(context.Background(), p.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.store[p.ID]
	if got.HasReferral == nil || !*got.HasReferral {
		t.Error("expected has_referral to be set true")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.Delete(context.Background(), uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
