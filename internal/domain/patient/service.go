package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChecklistSeeder creates the default evaluation checklist for a new patient.
// Implemented by the checklist service and attached in main to avoid a
// package cycle.
type ChecklistSeeder interface {
	SeedDefault(ctx context.Context, patientID uuid.UUID) error
}

// StatusInitializer writes the stage-only initial status for a new patient.
// Implemented by the pathway service.
type StatusInitializer interface {
	InitializeStatus(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo    Repository
	seeder  ChecklistSeeder
	initial StatusInitializer
	log     zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetChecklistSeeder attaches the optional checklist seeding collaborator.
func (s *Service) SetChecklistSeeder(cs ChecklistSeeder) { s.seeder = cs }

// SetStatusInitializer attaches the optional status initializer.
func (s *Service) SetStatusInitializer(si StatusInitializer) { s.initial = si }

// Create validates and stores an intake, then seeds the default checklist and
// the initial pathway status. Seeding failures are logged, not surfaced: the
// patient record is the source of truth and both artifacts are recreated on
// first read.
func (s *Service) Create(ctx context.Context, req *IntakeRequest) (*Patient, error) {
	p, err := req.ToPatient()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.seeder != nil {
		if err := s.seeder.SeedDefault(ctx, p.ID); err != nil {
			s.log.Warn().Err(err).Str("patient_id", p.ID.String()).Msg("seed default checklist")
		}
	}
	if s.initial != nil {
		if err := s.initial.InitializeStatus(ctx, p.ID); err != nil {
			s.log.Warn().Err(err).Str("patient_id", p.ID.String()).Msg("initialize patient status")
		}
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update replaces the mutable intake fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *IntakeRequest) (*Patient, error) {
	p, err := req.ToPatient()
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// SetReferralFlag flips has_referral on the patient record. Used by the
// referral navigator when the patient reports referral progress.
func (s *Service) SetReferralFlag(ctx context.Context, id uuid.UUID, hasReferral bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.HasReferral = &hasReferral
	return s.repo.Update(ctx, p)
}

// Delete removes the patient. Associated questionnaires, checklist, status,
// financial profile and referral state are removed by FK cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
