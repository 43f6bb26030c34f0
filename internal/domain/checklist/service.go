package checklist

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrPatientNotFound is returned when operating on an unknown patient.
var ErrPatientNotFound = errors.New("patient not found")

// PatientDirectory answers whether a patient record exists.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// StatusRecomputer re-derives and persists the patient's pathway status.
// Optional collaborator; item updates and document attachments trigger it.
type StatusRecomputer interface {
	RecomputeStatus(ctx context.Context, patientID uuid.UUID) error
}

// ItemPatch carries the mutable fields of a checklist item. Nil pointers mean
// "leave unchanged".
type ItemPatch struct {
	IsComplete  *bool      `json:"is_complete"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       *string    `json:"notes"`
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	status   StatusRecomputer
	log      zerolog.Logger
}

func NewService(repo Repository, patients PatientDirectory, log zerolog.Logger) *Service {
	return &Service{repo: repo, patients: patients, log: log}
}

func (s *Service) SetStatusRecomputer(r StatusRecomputer) { s.status = r }

// SeedDefault creates the standard evaluation checklist for a new patient.
// Called from patient intake; a checklist that already exists is left alone.
func (s *Service) SeedDefault(ctx context.Context, patientID uuid.UUID) error {
	if _, err := s.repo.GetByPatient(ctx, patientID); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	cl := &Checklist{PatientID: patientID, Items: DefaultItems()}
	return s.repo.Create(ctx, cl)
}

// GetOrCreate returns the patient's checklist, seeding the default one on
// first access.
func (s *Service) GetOrCreate(ctx context.Context, patientID uuid.UUID) (*Checklist, error) {
	cl, err := s.repo.GetByPatient(ctx, patientID)
	if err == nil {
		return cl, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}
	cl = &Checklist{PatientID: patientID, Items: DefaultItems()}
	if err := s.repo.Create(ctx, cl); err != nil {
		return nil, fmt.Errorf("seed checklist: %w", err)
	}
	return cl, nil
}

// Replace overwrites the patient's checklist items wholesale.
func (s *Service) Replace(ctx context.Context, patientID uuid.UUID, items []Item) (*Checklist, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	cl, err := s.repo.GetByPatient(ctx, patientID)
	if errors.Is(err, ErrNotFound) {
		cl = &Checklist{PatientID: patientID, Items: items}
		if err := s.repo.Create(ctx, cl); err != nil {
			return nil, err
		}
		s.recompute(ctx, patientID)
		return cl, nil
	}
	if err != nil {
		return nil, err
	}
	cl.Items = items
	if err := s.repo.Save(ctx, cl); err != nil {
		return nil, err
	}
	s.recompute(ctx, patientID)
	return cl, nil
}

// PatchItem updates a single checklist item. Marking an item incomplete
// clears its completion timestamp; marking it complete stamps one unless the
// patch supplies its own. Empty notes are stored as absent.
func (s *Service) PatchItem(ctx context.Context, patientID uuid.UUID, itemID string, patch ItemPatch) (*Checklist, error) {
	cl, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cl.Items {
		if cl.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrItemNotFound
	}
	item := &cl.Items[idx]

	if patch.IsComplete != nil {
		item.IsComplete = *patch.IsComplete
		if !*patch.IsComplete {
			item.CompletedAt = nil
		} else if item.CompletedAt == nil && patch.CompletedAt == nil {
			now := time.Now().UTC()
			item.CompletedAt = &now
		}
	}
	if patch.CompletedAt != nil {
		item.CompletedAt = patch.CompletedAt
	}
	if patch.Notes != nil {
		if *patch.Notes == "" {
			item.Notes = nil
		} else {
			item.Notes = patch.Notes
		}
	}

	if err := s.repo.Save(ctx, cl); err != nil {
		return nil, err
	}
	s.recompute(ctx, patientID)
	return cl, nil
}

// AttachDocument appends a stored-document reference to an item. References
// follow the documents/{patient_id}/{item_id}/{filename} convention.
func (s *Service) AttachDocument(ctx context.Context, patientID uuid.UUID, itemID, filename string) (*Checklist, error) {
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("invalid document filename")
	}

	cl, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	for i := range cl.Items {
		if cl.Items[i].ID != itemID {
			continue
		}
		ref := path.Join("documents", patientID.String(), itemID, filename)
		cl.Items[i].Documents = append(cl.Items[i].Documents, ref)
		if err := s.repo.Save(ctx, cl); err != nil {
			return nil, err
		}
		s.recompute(ctx, patientID)
		return cl, nil
	}
	return nil, ErrItemNotFound
}

func (s *Service) recompute(ctx context.Context, patientID uuid.UUID) {
	if s.status == nil {
		return
	}
	if err := s.status.RecomputeStatus(ctx, patientID); err != nil {
		s.log.Warn().Err(err).Str("patient_id", patientID.String()).
			Msg("status recompute after checklist change failed")
	}
}
