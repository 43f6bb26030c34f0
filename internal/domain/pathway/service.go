package pathway

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tnav/tnav/internal/domain/checklist"
	"github.com/tnav/tnav/internal/domain/patient"
	"github.com/tnav/tnav/internal/domain/questionnaire"
)

// ErrPatientNotFound is returned when computing status for an unknown patient.
var ErrPatientNotFound = errors.New("patient not found")

type SubmissionSource interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*questionnaire.Submission, error)
}

type ChecklistSource interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*checklist.Checklist, error)
}

type PatientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type CatalogSource interface {
	Load() []questionnaire.Question
}

// Service recomputes and persists patient statuses. It satisfies the
// StatusRecomputer hooks of the questionnaire and checklist services and the
// StatusInitializer hook of patient intake.
type Service struct {
	statuses   Repository
	subs       SubmissionSource
	checklists ChecklistSource
	patients   PatientSource
	catalog    CatalogSource
	log        zerolog.Logger
}

func NewService(statuses Repository, subs SubmissionSource, checklists ChecklistSource, patients PatientSource, catalog CatalogSource, log zerolog.Logger) *Service {
	return &Service{
		statuses:   statuses,
		subs:       subs,
		checklists: checklists,
		patients:   patients,
		catalog:    catalog,
		log:        log,
	}
}

func (s *Service) snapshot(ctx context.Context, patientID uuid.UUID) (PatientSnapshot, *checklist.Checklist, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return PatientSnapshot{}, nil, ErrPatientNotFound
		}
		return PatientSnapshot{}, nil, fmt.Errorf("load patient: %w", err)
	}
	snap := PatientSnapshot{
		HasCKDESRD:  TriFromPtr(p.HasCKDESRD),
		HasReferral: TriFromPtr(p.HasReferral),
	}

	cl, err := s.checklists.GetByPatient(ctx, patientID)
	if err != nil {
		if !errors.Is(err, checklist.ErrNotFound) {
			return PatientSnapshot{}, nil, fmt.Errorf("load checklist: %w", err)
		}
		cl = nil
	}
	return snap, cl, nil
}

// compute derives a fresh status from current snapshots, falling back to the
// stage-only initial status when no questionnaire exists yet.
func (s *Service) compute(ctx context.Context, patientID uuid.UUID) (*PatientStatus, error) {
	snap, cl, err := s.snapshot(ctx, patientID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subs.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}

	st, err := ComputeStatus(patientID, subs, s.catalog.Load(), cl, snap)
	if errors.Is(err, ErrNoQuestionnaire) {
		return InitialStatus(patientID, cl, snap), nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// RecomputeStatus derives and stores a fresh status. Called after every
// questionnaire submission, checklist item update, and document attachment.
func (s *Service) RecomputeStatus(ctx context.Context, patientID uuid.UUID) error {
	st, err := s.compute(ctx, patientID)
	if err != nil {
		return err
	}
	if err := s.statuses.Upsert(ctx, st); err != nil {
		return fmt.Errorf("store status: %w", err)
	}
	s.log.Debug().
		Str("patient_id", patientID.String()).
		Str("pathway_stage", string(st.PathwayStage)).
		Bool("has_absolute", st.HasAbsolute).
		Msg("patient status recomputed")
	return nil
}

// InitializeStatus stores the stage-only status for a freshly created
// patient, before any questionnaire exists.
func (s *Service) InitializeStatus(ctx context.Context, patientID uuid.UUID) error {
	snap, cl, err := s.snapshot(ctx, patientID)
	if err != nil {
		return err
	}
	return s.statuses.Upsert(ctx, InitialStatus(patientID, cl, snap))
}

// Status returns the patient's current status, recomputed from live
// snapshots and persisted so the stored row never goes stale.
func (s *Service) Status(ctx context.Context, patientID uuid.UUID) (*PatientStatus, error) {
	st, err := s.compute(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if err := s.statuses.Upsert(ctx, st); err != nil {
		return nil, fmt.Errorf("store status: %w", err)
	}
	return st, nil
}
