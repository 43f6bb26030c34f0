package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrPatientNotFound is returned when saving a profile for an unknown patient.
var ErrPatientNotFound = errors.New("patient not found")

// PatientDirectory answers whether a patient record exists.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
}

func NewService(repo Repository, patients PatientDirectory) *Service {
	return &Service{repo: repo, patients: patients}
}

// save merges the incoming answers into any existing profile. Existing keys
// are overwritten, keys not present in the request are kept, so partial
// autosaves never lose earlier answers.
func (s *Service) save(ctx context.Context, patientID uuid.UUID, answers map[string]any, submit bool) (*Profile, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	profile, err := s.repo.GetByPatient(ctx, patientID)
	if errors.Is(err, ErrNotFound) {
		profile = &Profile{PatientID: patientID, Answers: map[string]any{}}
	} else if err != nil {
		return nil, err
	}

	for k, v := range answers {
		profile.Answers[k] = v
	}
	if submit {
		now := time.Now().UTC()
		profile.SubmittedAt = &now
	}
	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save financial profile: %w", err)
	}
	return profile, nil
}

// Save stores partial answers during the assessment (autosave).
func (s *Service) Save(ctx context.Context, patientID uuid.UUID, answers map[string]any) (*Profile, error) {
	return s.save(ctx, patientID, answers, false)
}

// Submit stores the final answers and stamps the submission time.
func (s *Service) Submit(ctx context.Context, patientID uuid.UUID, answers map[string]any) (*Profile, error) {
	return s.save(ctx, patientID, answers, true)
}

// Get returns the patient's profile, or ErrNotFound.
func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*Profile, error) {
	return s.repo.GetByPatient(ctx, patientID)
}
