package questionnaire

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PatientDirectory answers whether a patient record exists. Implemented by
// the patient service via a thin adapter in main.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// StatusRecomputer re-derives and persists the patient's pathway status.
// Optional collaborator so the package stays usable without the pathway
// engine wired in.
type StatusRecomputer interface {
	RecomputeStatus(ctx context.Context, patientID uuid.UUID) error
}

type SubmitRequest struct {
	Answers     map[string]Answer `json:"answers"`
	SubmittedAt *time.Time        `json:"submitted_at"`
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	catalog  *Catalog
	status   StatusRecomputer
	log      zerolog.Logger
}

func NewService(repo Repository, patients PatientDirectory, catalog *Catalog, log zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, catalog: catalog, log: log}
}

// SetStatusRecomputer wires the pathway engine so every submission refreshes
// the stored status.
func (s *Service) SetStatusRecomputer(r StatusRecomputer) { s.status = r }

// Submit appends a new submission to the patient's history. A missing
// submitted_at is stamped with the current time; clients replaying historical
// data may supply their own.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, req SubmitRequest) (*Submission, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	if req.Answers == nil {
		return nil, fmt.Errorf("%w: answers are required", ErrInvalid)
	}
	for qid, ans := range req.Answers {
		if !ans.Valid() {
			return nil, fmt.Errorf("%w: answer for %q must be yes or no", ErrInvalid, qid)
		}
	}

	sub := &Submission{
		PatientID:   patientID,
		Answers:     req.Answers,
		SubmittedAt: req.SubmittedAt,
	}
	if sub.SubmittedAt == nil {
		now := time.Now().UTC()
		sub.SubmittedAt = &now
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if s.status != nil {
		if err := s.status.RecomputeStatus(ctx, patientID); err != nil {
			s.log.Warn().Err(err).Str("patient_id", patientID.String()).
				Msg("status recompute after questionnaire submit failed")
		}
	}
	return sub, nil
}

// History returns all submissions for a patient, newest first.
func (s *Service) History(ctx context.Context, patientID uuid.UUID) ([]*Submission, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Latest returns the most recent submission, or ErrNotFound.
func (s *Service) Latest(ctx context.Context, patientID uuid.UUID) (*Submission, error) {
	return s.repo.Latest(ctx, patientID)
}

// Questions returns the screening catalog.
func (s *Service) Questions() []Question {
	return s.catalog.Load()
}
